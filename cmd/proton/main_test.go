package main

import (
	"bytes"
	stdjson "encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/protondb/proton/pkg/errors"
)

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	if a.log == nil {
		a.log = zap.NewNop()
	}
	root := newRootCommand(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, &app{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "proton v"+version)
	assert.Contains(t, out, "Go version:")
}

func TestDemo(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	out, err := run(t, &app{log: zap.New(core)}, "demo")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "query "))
	assert.Equal(t, "Vector size=4 data_at_1=[2 0 0 0 0 0 0 0]", lines[1])
	assert.Equal(t, "String size=2 data_at_1=world", lines[2])

	hello := logs.FilterMessage("hello from proton!").All()
	require.Len(t, hello, 1)
	assert.Equal(t, strings.TrimPrefix(lines[0], "query "), hello[0].ContextMap()["query_id"])

	sizes := logs.FilterMessage("log store after removal").All()
	require.Len(t, sizes, 1)
	assert.EqualValues(t, 0, sizes[0].ContextMap()["size"])
}

func TestDemoSnapshot(t *testing.T) {
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "log.json")
	cfgPath := filepath.Join(dir, "proton.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_store:\n  snapshot: "+snapshot+"\n"), 0o600))

	_, err := run(t, &app{}, "--config", cfgPath, "demo")
	require.NoError(t, err)
	assert.FileExists(t, snapshot)
}

func TestInspect(t *testing.T) {
	out, err := run(t, &app{}, "inspect", "--rows", "4", "--preview", "2")
	require.NoError(t, err)

	for _, want := range []string{"id", "FixedString", "Nullable", "Decimal", "Array", "Const", "Sparse"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, `0: 1 | "user-0000" | "000"`)
	assert.Contains(t, out, `1: 2 | "user-0001" | "001"`)
	assert.NotContains(t, out, "2: 3")
}

func TestInspectMaterialized(t *testing.T) {
	out, err := run(t, &app{}, "inspect", "--rows", "4", "--materialize")
	require.NoError(t, err)
	assert.NotContains(t, out, "Const")
	assert.NotContains(t, out, "Sparse")
}

func TestInspectJSON(t *testing.T) {
	out, err := run(t, &app{}, "inspect", "--rows", "4", "--output", "json")
	require.NoError(t, err)

	var cols []map[string]interface{}
	require.NoError(t, stdjson.Unmarshal([]byte(out), &cols))
	require.Len(t, cols, 8)
	assert.Equal(t, "id", cols[0]["column"])
	assert.Equal(t, "Vector", cols[0]["family"])
	assert.EqualValues(t, 4, cols[0]["rows"])
	assert.Contains(t, out, "\n  \"column\": \"id\"")

	out, err = run(t, &app{}, "inspect", "--rows", "4", "-o", "jsonl")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[7], `{"column":"hits"`))

	_, err = run(t, &app{}, "inspect", "-o", "xml")
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestExportJSON(t *testing.T) {
	out, err := run(t, &app{}, "export", "--format", "json", "--rows", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], `{"id":1,"name":"user-0000"`))
	assert.Contains(t, lines[2], `"score":null`)
}

func TestExportFiles(t *testing.T) {
	dir := t.TempDir()
	for format, magic := range map[string]string{"parquet": "PAR1", "arrow": "ARROW1", "avro": "Obj\x01"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(dir, "sample."+format)
			out, err := run(t, &app{}, "export", "--format", format, "--rows", "20", "--out", path)
			require.NoError(t, err)
			assert.Contains(t, out, "wrote 20 rows to "+path)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte(magic)))
		})
	}
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := run(t, &app{}, "export", "--format", "csv")
	assert.Error(t, err)
}

func TestBench(t *testing.T) {
	out, err := run(t, &app{}, "bench", "--rows", "1000", "--workers", "2", "--batch-size", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "sum:      500500")
	assert.Contains(t, out, "workers:  2")
	assert.Contains(t, out, "batches:  10")
	assert.Contains(t, out, "cpu:")
	assert.Contains(t, out, "rss:")
	assert.Contains(t, out, "threads:")
}

func TestTracing(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "proton.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("tracing:\n  enabled: true\n"), 0o600))

	out, err := run(t, &app{}, "--config", cfgPath, "bench", "--rows", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "sum:      5050")
	assert.Contains(t, out, `"Name": "proton.bench"`)
	assert.Contains(t, out, `"Name": "columnar.Scan"`)

	out, err = run(t, &app{}, "bench", "--rows", "100")
	require.NoError(t, err)
	assert.NotContains(t, out, `"Name"`)
}

func TestNegativeRowsRejected(t *testing.T) {
	for _, cmd := range []string{"bench", "inspect", "export"} {
		t.Run(cmd, func(t *testing.T) {
			_, err := run(t, &app{}, cmd, "--rows=-1")
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation), "%v", err)
		})
	}
}

func TestConfigInitShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proton.yaml")

	out, err := run(t, &app{}, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote default configuration")
	assert.FileExists(t, path)

	out, err = run(t, &app{}, "--config", path, "--log-level", "debug", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "batch_size: 8192")
	assert.Contains(t, out, "level: debug")
}

func TestProfiling(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.prof")
	mem := filepath.Join(dir, "mem.prof")

	_, err := run(t, &app{}, "--cpuprofile", cpu, "--memprofile", mem, "version")
	require.NoError(t, err)
	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)
}

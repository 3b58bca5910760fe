package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protondb/proton/pkg/columnar"
	protonerrors "github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/pool"
)

type testRecord struct {
	ID    string   `json:"id"`
	Value float64  `json:"value"`
	Tags  []string `json:"tags"`
}

func TestMarshalCorrectness(t *testing.T) {
	rec := testRecord{ID: "a<b", Value: 1.5, Tags: []string{"x"}}

	ours, err := Marshal(rec)
	require.NoError(t, err)
	std, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, string(std), string(ours))

	var back testRecord
	require.NoError(t, NewDecoder(bytes.NewReader(ours)).Decode(&back))
	assert.Equal(t, rec, back)
}

func TestNewDecoderUsesNumber(t *testing.T) {
	var v map[string]interface{}
	require.NoError(t, NewDecoder(bytes.NewReader([]byte(`{"n": 12345678901234567890}`))).Decode(&v))
	assert.Equal(t, json.Number("12345678901234567890"), v["n"])
}

func TestStreamingEncoderArray(t *testing.T) {
	var buf bytes.Buffer
	se := NewStreamingEncoder(&buf, true)
	require.NoError(t, se.Encode(map[string]int{"a": 1}))
	require.NoError(t, se.Encode(map[string]int{"a": 2}))
	require.NoError(t, se.Close())

	var out []map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, []map[string]int{{"a": 1}, {"a": 2}}, out)
}

func TestStreamingEncoderIndent(t *testing.T) {
	var buf bytes.Buffer
	se := NewStreamingEncoder(&buf, true)
	se.SetIndent("  ")
	require.NoError(t, se.Encode(map[string]int{"a": 1}))
	require.NoError(t, se.Close())
	assert.Equal(t, "[{\n  \"a\": 1\n}\n]\n", buf.String())
}

func TestStreamingEncoderLines(t *testing.T) {
	var buf bytes.Buffer
	se := NewStreamingEncoder(&buf, false)
	require.NoError(t, se.Encode(1))
	require.NoError(t, se.Encode(2))
	require.NoError(t, se.Close())
	assert.Equal(t, "1\n2\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestStreamingEncoderStickyError(t *testing.T) {
	se := NewStreamingEncoder(failingWriter{}, true)
	assert.EqualError(t, se.Encode(1), "disk full")
	assert.EqualError(t, se.Close(), "disk full")
}

func TestEncodeBlockReturnsBuffer(t *testing.T) {
	words := columnar.NewString()
	for i := 0; i < 100; i++ {
		words.Insert(strings.Repeat("w", 40))
	}
	b := columnar.NewBlock()
	require.NoError(t, b.AddColumn("word", words))

	before := pool.Buffers.Stats().InUse
	var buf bytes.Buffer
	require.NoError(t, EncodeBlock(&buf, b, LayoutLines))
	assert.Greater(t, buf.Len(), 512)
	assert.Equal(t, before, pool.Buffers.Stats().InUse)
}

func jsonBlock(t *testing.T) *columnar.Block {
	t.Helper()
	names := columnar.NewString()
	names.Insert("ann")
	names.Insert("bob")

	scores, err := columnar.NewArray(columnar.NewVector([]int32{7, 8, 9}), []int{2, 3})
	require.NoError(t, err)
	city, err := columnar.NewNullable(columnar.NewVector([]uint8{1, 0}), []bool{false, true})
	require.NoError(t, err)
	region := columnar.NewString()
	region.Insert("eu")
	constant, err := columnar.NewConst(region, 2)
	require.NoError(t, err)

	b := columnar.NewBlock()
	require.NoError(t, b.AddColumn("name", names))
	require.NoError(t, b.AddColumn("scores", scores))
	require.NoError(t, b.AddColumn("city", city))
	require.NoError(t, b.AddColumn("region", constant))
	require.NoError(t, b.AddColumn("pad", columnar.NewDummy(2)))
	return b
}

func TestEncodeBlockLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeBlock(&buf, jsonBlock(t), LayoutLines))

	assert.Equal(t,
		`{"name":"ann","scores":[7,8],"city":1,"region":"eu","pad":null}`+"\n"+
			`{"name":"bob","scores":[9],"city":null,"region":"eu","pad":null}`+"\n",
		buf.String())
}

func TestEncodeBlockArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeBlock(&buf, jsonBlock(t), LayoutArray))

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "bob", rows[1]["name"])
	assert.Nil(t, rows[1]["city"])

	buf.Reset()
	require.NoError(t, EncodeBlock(&buf, columnar.NewBlock(), LayoutArray))
	assert.Equal(t, "[]\n", buf.String())
}

func TestEncodeBlockUnsupportedColumn(t *testing.T) {
	agg := columnar.NewAggregateFunction("sum")
	agg.AddState(nil)
	b := columnar.NewBlock()
	require.NoError(t, b.AddColumn("s", agg))

	err := EncodeBlock(&bytes.Buffer{}, b, LayoutLines)
	assert.True(t, protonerrors.IsUnsupported(err))
	assert.Contains(t, err.Error(), "column s")
}

func TestParseLayout(t *testing.T) {
	for in, want := range map[string]Layout{"": LayoutArray, "array": LayoutArray, "lines": LayoutLines, "jsonl": LayoutLines} {
		got, err := ParseLayout(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLayout("csv")
	assert.True(t, protonerrors.IsType(err, protonerrors.ErrorTypeValidation))
}

func BenchmarkEncodeBlock(b *testing.B) {
	vec := make([]int64, 10000)
	for i := range vec {
		vec[i] = int64(i)
	}
	block := columnar.NewBlock()
	if err := block.AddColumn("n", columnar.NewVector(vec)); err != nil {
		b.Fatal(err)
	}
	var buf bytes.Buffer
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := EncodeBlock(&buf, block, LayoutLines); err != nil {
			b.Fatal(err)
		}
	}
}

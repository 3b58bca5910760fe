package formats_test

import (
	"bytes"
	"math"
	"math/big"
	"testing"

	"github.com/linkedin/goavro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/formats"
)

func readAvro(t *testing.T, data []byte) []map[string]interface{} {
	t.Helper()
	ocf, err := goavro.NewOCFReader(bytes.NewReader(data))
	require.NoError(t, err)
	var rows []map[string]interface{}
	for ocf.Scan() {
		datum, err := ocf.Read()
		require.NoError(t, err)
		row, ok := datum.(map[string]interface{})
		require.True(t, ok, "%T", datum)
		rows = append(rows, row)
	}
	require.NoError(t, ocf.Err())
	return rows
}

func TestAvroWriter(t *testing.T) {
	for _, compression := range []string{"none", "snappy", "deflate"} {
		t.Run(compression, func(t *testing.T) {
			cfg := formats.DefaultWriterConfig()
			cfg.Format = formats.Avro
			cfg.Compression = compression

			var buf bytes.Buffer
			w, err := formats.NewWriter(&buf, cfg)
			require.NoError(t, err)
			require.NoError(t, w.WriteBlock(sampleBlock(t)))
			require.NoError(t, w.WriteBlock(sampleBlock(t)))
			require.NoError(t, w.Close())
			assert.Equal(t, formats.Avro, w.Format())
			assert.Equal(t, int64(6), w.RowsWritten())

			rows := readAvro(t, buf.Bytes())
			require.Len(t, rows, 6)

			assert.Equal(t, int64(1), rows[0]["id"])
			assert.Equal(t, map[string]interface{}{"double": 1.5}, rows[0]["price"])
			assert.Nil(t, rows[1]["price"])
			assert.Equal(t, []byte("eu"), rows[2]["region"])
			assert.Equal(t, []interface{}{
				map[string]interface{}{"bytes": []byte("a")},
				map[string]interface{}{"bytes": []byte("b")},
			}, rows[0]["tags"])
			assert.Empty(t, rows[1]["tags"])

			amount, ok := rows[0]["amount"].(*big.Rat)
			require.True(t, ok, "%T", rows[0]["amount"])
			assert.Zero(t, amount.Cmp(big.NewRat(3, 2)))
			negative := rows[1]["amount"].(*big.Rat)
			assert.Zero(t, negative.Cmp(big.NewRat(-1, 100)))
		})
	}
}

func TestAvroWriterFixedAndDummy(t *testing.T) {
	codes, err := columnar.NewFixedString([]byte("abcd"), 2)
	require.NoError(t, err)
	b := columnar.NewBlock()
	require.NoError(t, b.AddColumn("code", codes))
	require.NoError(t, b.AddColumn("pad", columnar.NewDummy(2)))
	require.NoError(t, b.AddColumn("small", columnar.NewVector([]uint8{3, 4})))

	var buf bytes.Buffer
	w, err := formats.NewWriter(&buf, &formats.WriterConfig{Format: formats.Avro})
	require.NoError(t, err)
	require.NoError(t, w.WriteBlock(b))
	require.NoError(t, w.Close())

	rows := readAvro(t, buf.Bytes())
	require.Len(t, rows, 2)
	assert.Equal(t, []byte("cd"), rows[1]["code"])
	assert.Nil(t, rows[1]["pad"])
	assert.Equal(t, int32(4), rows[1]["small"])
}

func TestAvroWriterRejects(t *testing.T) {
	_, err := formats.NewWriter(&bytes.Buffer{}, &formats.WriterConfig{Format: formats.Avro, Compression: "lz4"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	b := columnar.NewBlock()
	require.NoError(t, b.AddColumn("big", columnar.NewVector([]uint64{1, math.MaxUint64})))
	w, err := formats.NewWriter(&bytes.Buffer{}, &formats.WriterConfig{Format: formats.Avro})
	require.NoError(t, err)
	err = w.WriteBlock(b)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
	assert.Contains(t, err.Error(), "column big")

	other := columnar.NewBlock()
	require.NoError(t, other.AddColumn("id", columnar.NewVector([]int64{1})))
	ok := columnar.NewBlock()
	require.NoError(t, ok.AddColumn("big", columnar.NewVector([]uint64{1})))
	w, err = formats.NewWriter(&bytes.Buffer{}, &formats.WriterConfig{Format: formats.Avro})
	require.NoError(t, err)
	require.NoError(t, w.WriteBlock(ok))
	assert.True(t, errors.IsType(w.WriteBlock(other), errors.ErrorTypeValidation))
}

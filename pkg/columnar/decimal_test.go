package columnar_test

import (
	"encoding/binary"
	"math"
	"math/big"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/errors"
)

func TestDecimalRawEncoding(t *testing.T) {
	huge := decimal128.FromBigInt(new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(3), 100)))
	col, err := columnar.NewDecimal(38, 0, []decimal128.Num{decimal128.FromI64(-2), huge})
	require.NoError(t, err)

	ref, err := col.DataAt(0)
	require.NoError(t, err)
	assert.Equal(t,
		[]byte{0xfe, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		ref.Bytes())

	buf, err := col.AppendDataAt([]byte{0xaa}, 1)
	require.NoError(t, err)
	require.Len(t, buf, 17)
	assert.Equal(t, huge.LowBits(), binary.LittleEndian.Uint64(buf[1:9]))
	assert.Equal(t, uint64(huge.HighBits()), binary.LittleEndian.Uint64(buf[9:]))
}

func TestDecimalAccessors(t *testing.T) {
	col, err := columnar.NewDecimal(10, 2, []decimal128.Num{
		decimal128.FromI64(12345),
		decimal128.FromI64(-12399),
	})
	require.NoError(t, err)

	assert.Equal(t, "Decimal", col.FamilyName())
	assert.Equal(t, "Decimal(10, 2)", col.LogicalType())
	assert.Equal(t, uint8(10), col.Precision())
	assert.Equal(t, uint8(2), col.Scale())

	f, err := col.FieldAt(0)
	require.NoError(t, err)
	d, err := f.AsDecimal()
	require.NoError(t, err)
	assert.Equal(t, "123.45", d.String())

	ref, err := col.DataAt(0)
	require.NoError(t, err)
	require.Equal(t, 16, ref.Len())
	assert.Equal(t, []byte{0x39, 0x30}, ref.Bytes()[:2])

	u, err := col.Uint64At(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(123), u)

	u, err = col.Uint64At(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64-122), u)

	f64, err := col.Float64At(0)
	require.NoError(t, err)
	assert.InDelta(t, 123.45, f64, 1e-9)

	f32, err := col.Float32At(1)
	require.NoError(t, err)
	assert.InDelta(t, -123.99, f32, 1e-4)

	v, err := col.Value(1)
	require.NoError(t, err)
	assert.Equal(t, "-123.99", v.String())

	_, err = col.Float64At(2)
	assert.True(t, errors.IsOutOfBounds(err))
}

func TestDecimalIntegerPartOverflow(t *testing.T) {
	raw := decimal128.FromBigInt(new(big.Int).Lsh(big.NewInt(1), 80))
	col, err := columnar.NewDecimal(38, 0, []decimal128.Num{raw})
	require.NoError(t, err)

	_, err = col.Uint64At(0)
	assert.True(t, errors.IsTypeMismatch(err))
}

func TestDecimalMalformed(t *testing.T) {
	_, err := columnar.NewDecimal(0, 0, nil)
	assert.True(t, errors.IsMalformed(err))

	_, err = columnar.NewDecimal(39, 0, nil)
	assert.True(t, errors.IsMalformed(err))

	_, err = columnar.NewDecimal(3, 4, nil)
	assert.True(t, errors.IsMalformed(err))

	col, err := columnar.NewDecimal(3, 1, nil)
	require.NoError(t, err)
	require.NoError(t, col.Insert(decimal128.FromI64(999)))
	require.NoError(t, col.Insert(decimal128.FromI64(-999)))
	assert.True(t, errors.IsMalformed(col.Insert(decimal128.FromI64(1000))))
	assert.True(t, errors.IsMalformed(col.Insert(decimal128.FromI64(-1000))))
	assert.Equal(t, 2, col.Size())

	wide, err := columnar.NewDecimal(38, 0, nil)
	require.NoError(t, err)
	assert.True(t, errors.IsMalformed(wide.Insert(decimal128.New(math.MinInt64, 0))))
	assert.True(t, errors.IsMalformed(wide.Insert(decimal128.MaxDecimal128.Add(decimal128.FromI64(1)))))
	require.NoError(t, wide.Insert(decimal128.MaxDecimal128))
}

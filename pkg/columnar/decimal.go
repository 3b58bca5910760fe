package columnar

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/shopspring/decimal"

	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/field"
)

// MaxDecimalPrecision is the largest number of decimal digits a 128-bit raw
// value can always hold.
const MaxDecimalPrecision = decimal128.MaxPrecision

// Decimal is a column of scaled 128-bit integers. A raw value r stands for
// r / 10^scale.
type Decimal struct {
	data      []decimal128.Num
	precision uint8
	scale     uint8
}

// NewDecimal builds a decimal column over a copy of data.
func NewDecimal(precision, scale uint8, data []decimal128.Num) (*Decimal, error) {
	if precision < 1 || precision > MaxDecimalPrecision {
		return nil, errors.Malformed(FamilyDecimal, "precision %d outside [1, %d]", precision, MaxDecimalPrecision)
	}
	if scale > precision {
		return nil, errors.Malformed(FamilyDecimal, "scale %d exceeds precision %d", scale, precision)
	}
	c := &Decimal{data: make([]decimal128.Num, 0, len(data)), precision: precision, scale: scale}
	for _, raw := range data {
		if err := c.Insert(raw); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Insert appends a raw value. It must have at most Precision() digits.
func (c *Decimal) Insert(raw decimal128.Num) error {
	// Abs wraps for the minimum value, which never fits.
	if raw.Abs().Sign() < 0 || !raw.FitsInPrecision(int32(c.precision)) {
		return errors.Malformed(FamilyDecimal, "value %s has more than %d digits", raw.BigInt(), c.precision)
	}
	c.data = append(c.data, raw)
	return nil
}

func (c *Decimal) Precision() uint8 { return c.precision }
func (c *Decimal) Scale() uint8     { return c.scale }

// Data returns the raw values. Callers must not modify the returned slice.
func (c *Decimal) Data() []decimal128.Num { return c.data }

// Value returns row n as an exact decimal.
func (c *Decimal) Value(n int) (decimal.Decimal, error) {
	if err := checkIndex(c, "Value", n); err != nil {
		return decimal.Zero, err
	}
	return c.value(n), nil
}

func (c *Decimal) value(n int) decimal.Decimal {
	return decimal.NewFromBigInt(c.data[n].BigInt(), -int32(c.scale))
}

func (c *Decimal) Clone() Column {
	return &Decimal{data: slices.Clone(c.data), precision: c.precision, scale: c.scale}
}

func (c *Decimal) Name() string       { return FamilyDecimal }
func (c *Decimal) FamilyName() string { return FamilyDecimal }
func (c *Decimal) LogicalType() string {
	return fmt.Sprintf("Decimal(%d, %d)", c.precision, c.scale)
}
func (c *Decimal) Size() int   { return len(c.data) }
func (c *Decimal) Empty() bool { return len(c.data) == 0 }

func (c *Decimal) ToFullColumn() (Column, error) { return c.Clone(), nil }

func (c *Decimal) FieldAt(n int) (field.Field, error) {
	if err := checkIndex(c, opFieldAt, n); err != nil {
		return field.Null(), err
	}
	return field.Decimal(c.value(n)), nil
}

func (c *Decimal) Get(n int, res *field.Field) error { return getVia(c, n, res) }

// DataAt returns the 16-byte little-endian two's complement raw value.
func (c *Decimal) DataAt(n int) (StringRef, error) {
	if err := checkIndex(c, opDataAt, n); err != nil {
		return StringRef{}, err
	}
	return NewStringRef(appendNum(make([]byte, 0, 16), c.data[n])), nil
}

// AppendDataAt appends the encoding returned by DataAt to dst.
func (c *Decimal) AppendDataAt(dst []byte, n int) ([]byte, error) {
	if err := checkIndex(c, opDataAt, n); err != nil {
		return dst, err
	}
	return appendNum(dst, c.data[n]), nil
}

// Uint64At truncates row n toward zero and converts the integer part the
// way Go converts int64 to uint64.
func (c *Decimal) Uint64At(n int) (uint64, error) {
	if err := checkIndex(c, opUint64At, n); err != nil {
		return 0, err
	}
	whole := c.data[n].ReduceScaleBy(int32(c.scale), false)
	if whole.HighBits() != int64(whole.LowBits())>>63 {
		return 0, errors.Newf(errors.ErrorTypeTypeMismatch, "integer part %s of %s row %d exceeds int64",
			whole.BigInt(), c.LogicalType(), n).
			WithDetail(errors.DetailFamily, FamilyDecimal).
			WithDetail(errors.DetailOperation, opUint64At)
	}
	return whole.LowBits(), nil
}

func (c *Decimal) Float64At(n int) (float64, error) {
	if err := checkIndex(c, opFloat64At, n); err != nil {
		return 0, err
	}
	return c.data[n].ToFloat64(int32(c.scale)), nil
}

func (c *Decimal) Float32At(n int) (float32, error) {
	if err := checkIndex(c, opFloat32At, n); err != nil {
		return 0, err
	}
	return c.data[n].ToFloat32(int32(c.scale)), nil
}

func (c *Decimal) gather(rows []int) (Column, error) {
	if err := checkRows(c, opToFullColumn, rows); err != nil {
		return nil, err
	}
	out := &Decimal{data: make([]decimal128.Num, len(rows)), precision: c.precision, scale: c.scale}
	for i, n := range rows {
		out.data[i] = c.data[n]
	}
	return out, nil
}

// appendNum appends the 16-byte little-endian two's complement encoding of v.
func appendNum(dst []byte, v decimal128.Num) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, v.LowBits())
	return binary.LittleEndian.AppendUint64(dst, uint64(v.HighBits()))
}

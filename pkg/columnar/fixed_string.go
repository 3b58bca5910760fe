package columnar

import (
	"slices"
	"strconv"

	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/field"
)

// FixedString stores strings of exactly width bytes back to back.
type FixedString struct {
	data  []byte
	width int
}

// NewFixedString builds a column over a copy of data. len(data) must be a
// multiple of width.
func NewFixedString(data []byte, width int) (*FixedString, error) {
	if width <= 0 {
		return nil, errors.Malformed(FamilyFixedString, "width must be positive, got %d", width)
	}
	if len(data)%width != 0 {
		return nil, errors.Malformed(FamilyFixedString, "data length %d is not a multiple of width %d", len(data), width)
	}
	return &FixedString{data: slices.Clone(data), width: width}, nil
}

// NewEmptyFixedString returns an empty column of the given width.
func NewEmptyFixedString(width int) (*FixedString, error) {
	return NewFixedString(nil, width)
}

// Insert appends b, padding it with zero bytes up to the column width.
func (c *FixedString) Insert(b []byte) error {
	if len(b) > c.width {
		return errors.Malformed(FamilyFixedString, "value of %d bytes exceeds width %d", len(b), c.width)
	}
	c.data = append(c.data, b...)
	for i := len(b); i < c.width; i++ {
		c.data = append(c.data, 0)
	}
	return nil
}

// Width returns the element width in bytes.
func (c *FixedString) Width() int { return c.width }

func (c *FixedString) Clone() Column {
	return &FixedString{data: slices.Clone(c.data), width: c.width}
}

func (c *FixedString) Name() string       { return FamilyFixedString }
func (c *FixedString) FamilyName() string { return FamilyFixedString }
func (c *FixedString) LogicalType() string {
	return "FixedString(" + strconv.Itoa(c.width) + ")"
}
func (c *FixedString) Size() int   { return len(c.data) / c.width }
func (c *FixedString) Empty() bool { return len(c.data) == 0 }

func (c *FixedString) ToFullColumn() (Column, error) { return c.Clone(), nil }

func (c *FixedString) FieldAt(n int) (field.Field, error) {
	if err := checkIndex(c, opFieldAt, n); err != nil {
		return field.Null(), err
	}
	return field.Bytes(c.element(n)), nil
}

func (c *FixedString) Get(n int, res *field.Field) error { return getVia(c, n, res) }

func (c *FixedString) DataAt(n int) (StringRef, error) {
	if err := checkIndex(c, opDataAt, n); err != nil {
		return StringRef{}, err
	}
	return NewStringRef(c.element(n)), nil
}

func (c *FixedString) element(n int) []byte {
	start, end := n*c.width, (n+1)*c.width
	return c.data[start:end:end]
}

func (c *FixedString) Uint64At(int) (uint64, error)   { return 0, notNumeric(c, opUint64At) }
func (c *FixedString) Float64At(int) (float64, error) { return 0, notNumeric(c, opFloat64At) }
func (c *FixedString) Float32At(int) (float32, error) { return 0, notNumeric(c, opFloat32At) }

func (c *FixedString) gather(rows []int) (Column, error) {
	if err := checkRows(c, opToFullColumn, rows); err != nil {
		return nil, err
	}
	out := &FixedString{data: make([]byte, 0, c.width*len(rows)), width: c.width}
	for _, n := range rows {
		out.data = append(out.data, c.element(n)...)
	}
	return out, nil
}

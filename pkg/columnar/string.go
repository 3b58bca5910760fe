package columnar

import (
	"slices"

	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/field"
)

// String is a column of variable-length byte strings stored as one flat
// byte buffer and a table of end offsets. Element n spans
// [offsets[n-1] or 0, offsets[n]).
type String struct {
	chars   []byte
	offsets []int
}

// NewString returns an empty string column.
func NewString() *String {
	return &String{}
}

// NewStringWithCapacity returns an empty string column with room for rows
// elements. A negative count is treated as zero.
func NewStringWithCapacity(rows int) *String {
	return &String{offsets: make([]int, 0, max(rows, 0))}
}

// NewStringFromParts builds a column from an existing byte buffer and offset
// table. Both are copied. Offsets must be non-decreasing, non-negative and
// end at len(chars).
func NewStringFromParts(chars []byte, offsets []int) (*String, error) {
	prev := 0
	for i, off := range offsets {
		if off < prev {
			return nil, errors.Malformed(FamilyString, "offset %d at row %d is below previous offset %d", off, i, prev)
		}
		prev = off
	}
	if prev != len(chars) {
		return nil, errors.Malformed(FamilyString, "last offset %d does not match data length %d", prev, len(chars))
	}
	return &String{chars: slices.Clone(chars), offsets: slices.Clone(offsets)}, nil
}

// Insert appends s.
func (c *String) Insert(s string) {
	c.chars = append(c.chars, s...)
	c.offsets = append(c.offsets, len(c.chars))
}

// InsertBytes appends a copy of b.
func (c *String) InsertBytes(b []byte) {
	c.chars = append(c.chars, b...)
	c.offsets = append(c.offsets, len(c.chars))
}

// Offsets returns the end-offset table. Callers must not modify it.
func (c *String) Offsets() []int { return c.offsets }

// Chars returns the flat byte buffer. Callers must not modify it.
func (c *String) Chars() []byte { return c.chars }

func (c *String) bounds(n int) (int, int) {
	start := 0
	if n > 0 {
		start = c.offsets[n-1]
	}
	return start, c.offsets[n]
}

func (c *String) Clone() Column {
	return &String{chars: slices.Clone(c.chars), offsets: slices.Clone(c.offsets)}
}

func (c *String) Name() string        { return FamilyString }
func (c *String) FamilyName() string  { return FamilyString }
func (c *String) LogicalType() string { return "String" }
func (c *String) Size() int           { return len(c.offsets) }
func (c *String) Empty() bool         { return len(c.offsets) == 0 }

func (c *String) ToFullColumn() (Column, error) { return c.Clone(), nil }

func (c *String) FieldAt(n int) (field.Field, error) {
	if err := checkIndex(c, opFieldAt, n); err != nil {
		return field.Null(), err
	}
	start, end := c.bounds(n)
	return field.Bytes(c.chars[start:end]), nil
}

func (c *String) Get(n int, res *field.Field) error { return getVia(c, n, res) }

// DataAt returns a view into the column buffer. No bytes are copied.
func (c *String) DataAt(n int) (StringRef, error) {
	if err := checkIndex(c, opDataAt, n); err != nil {
		return StringRef{}, err
	}
	start, end := c.bounds(n)
	return NewStringRef(c.chars[start:end:end]), nil
}

func (c *String) Uint64At(int) (uint64, error)   { return 0, notNumeric(c, opUint64At) }
func (c *String) Float64At(int) (float64, error) { return 0, notNumeric(c, opFloat64At) }
func (c *String) Float32At(int) (float32, error) { return 0, notNumeric(c, opFloat32At) }

func (c *String) gather(rows []int) (Column, error) {
	if err := checkRows(c, opToFullColumn, rows); err != nil {
		return nil, err
	}
	out := NewStringWithCapacity(len(rows))
	for _, n := range rows {
		start, end := c.bounds(n)
		out.InsertBytes(c.chars[start:end])
	}
	return out, nil
}

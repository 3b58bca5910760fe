package columnar

import (
	"slices"

	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/field"
)

// Array is a column of variable-length lists. Row n owns the nested rows
// [offsets[n-1] or 0, offsets[n]).
type Array struct {
	nested  Column
	offsets []int
}

// NewArray builds an array column over nested. The offsets are copied and
// must be non-decreasing and end at nested.Size().
func NewArray(nested Column, offsets []int) (*Array, error) {
	if nested == nil {
		return nil, errors.Malformed(FamilyArray, "nested column is nil")
	}
	prev := 0
	for i, off := range offsets {
		if off < prev {
			return nil, errors.Malformed(FamilyArray, "offset %d at row %d is below previous offset %d", off, i, prev)
		}
		prev = off
	}
	if prev != nested.Size() {
		return nil, errors.Malformed(FamilyArray, "last offset %d does not match nested size %d", prev, nested.Size())
	}
	return &Array{nested: nested, offsets: slices.Clone(offsets)}, nil
}

// Nested returns the flattened element column.
func (c *Array) Nested() Column { return c.nested }

// Offsets returns the end-offset table. Callers must not modify it.
func (c *Array) Offsets() []int { return c.offsets }

// Bounds returns the half-open range of nested rows that make up row n.
func (c *Array) Bounds(n int) (start, end int, err error) {
	if err := checkIndex(c, "Bounds", n); err != nil {
		return 0, 0, err
	}
	if n > 0 {
		start = c.offsets[n-1]
	}
	return start, c.offsets[n], nil
}

func (c *Array) Clone() Column {
	return &Array{nested: c.nested.Clone(), offsets: slices.Clone(c.offsets)}
}

func (c *Array) Name() string        { return wrappedName(FamilyArray, c.nested) }
func (c *Array) FamilyName() string  { return FamilyArray }
func (c *Array) LogicalType() string { return "Array(" + c.nested.LogicalType() + ")" }
func (c *Array) Size() int           { return len(c.offsets) }
func (c *Array) Empty() bool         { return len(c.offsets) == 0 }

// ToFullColumn materializes the nested column.
func (c *Array) ToFullColumn() (Column, error) {
	nested, err := c.nested.ToFullColumn()
	if err != nil {
		return nil, err
	}
	return &Array{nested: nested, offsets: slices.Clone(c.offsets)}, nil
}

func (c *Array) FieldAt(int) (field.Field, error) { return field.Null(), unsupported(c, opFieldAt) }
func (c *Array) Get(int, *field.Field) error      { return unsupported(c, opGet) }
func (c *Array) DataAt(int) (StringRef, error)    { return StringRef{}, unsupported(c, opDataAt) }
func (c *Array) Uint64At(int) (uint64, error)     { return 0, notNumeric(c, opUint64At) }
func (c *Array) Float64At(int) (float64, error)   { return 0, notNumeric(c, opFloat64At) }
func (c *Array) Float32At(int) (float32, error)   { return 0, notNumeric(c, opFloat32At) }

func (c *Array) gather(rows []int) (Column, error) {
	if err := checkRows(c, opToFullColumn, rows); err != nil {
		return nil, err
	}
	offsets := make([]int, len(rows))
	var nestedRows []int
	for i, n := range rows {
		start, end, _ := c.Bounds(n)
		for j := start; j < end; j++ {
			nestedRows = append(nestedRows, j)
		}
		offsets[i] = len(nestedRows)
	}
	nested, err := c.nested.gather(nestedRows)
	if err != nil {
		return nil, err
	}
	return &Array{nested: nested, offsets: offsets}, nil
}

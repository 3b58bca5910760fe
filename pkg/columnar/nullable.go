package columnar

import (
	"slices"

	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/field"
)

// Nullable wraps an inner column with a null map. A true entry marks the
// row as absent whatever the inner column stores there.
type Nullable struct {
	inner   Column
	nullMap []bool
}

// NewNullable wraps a copy of inner. The null map is copied and must have
// one entry per inner row.
func NewNullable(inner Column, nullMap []bool) (*Nullable, error) {
	if inner == nil {
		return nil, errors.Malformed(FamilyNullable, "inner column is nil")
	}
	if _, ok := inner.(*Nullable); ok {
		return nil, errors.Malformed(FamilyNullable, "inner column is already nullable")
	}
	if len(nullMap) != inner.Size() {
		return nil, errors.Malformed(FamilyNullable, "null map has %d entries, inner column has %d rows",
			len(nullMap), inner.Size())
	}
	return &Nullable{inner: inner.Clone(), nullMap: slices.Clone(nullMap)}, nil
}

// Inner returns the wrapped column.
func (c *Nullable) Inner() Column { return c.inner }

// NullMap returns the null map. Callers must not modify it.
func (c *Nullable) NullMap() []bool { return c.nullMap }

// IsNullAt reports whether row n is null.
func (c *Nullable) IsNullAt(n int) (bool, error) {
	if err := checkIndex(c, "IsNullAt", n); err != nil {
		return false, err
	}
	return c.nullMap[n], nil
}

// NullCount returns the number of null rows.
func (c *Nullable) NullCount() int {
	count := 0
	for _, isNull := range c.nullMap {
		if isNull {
			count++
		}
	}
	return count
}

func (c *Nullable) Clone() Column {
	return &Nullable{inner: c.inner.Clone(), nullMap: slices.Clone(c.nullMap)}
}

func (c *Nullable) Name() string        { return wrappedName(FamilyNullable, c.inner) }
func (c *Nullable) FamilyName() string  { return FamilyNullable }
func (c *Nullable) LogicalType() string { return "Nullable(" + c.inner.LogicalType() + ")" }
func (c *Nullable) Size() int           { return len(c.nullMap) }
func (c *Nullable) Empty() bool         { return len(c.nullMap) == 0 }

// ToFullColumn materializes the inner column and keeps the null map.
func (c *Nullable) ToFullColumn() (Column, error) {
	full, err := c.inner.ToFullColumn()
	if err != nil {
		return nil, err
	}
	return &Nullable{inner: full, nullMap: slices.Clone(c.nullMap)}, nil
}

func (c *Nullable) FieldAt(n int) (field.Field, error) {
	if err := checkIndex(c, opFieldAt, n); err != nil {
		return field.Null(), err
	}
	if c.nullMap[n] {
		return field.Null(), nil
	}
	return c.inner.FieldAt(n)
}

func (c *Nullable) Get(n int, res *field.Field) error { return getVia(c, n, res) }

// DataAt returns an empty view for null rows.
func (c *Nullable) DataAt(n int) (StringRef, error) {
	if err := checkIndex(c, opDataAt, n); err != nil {
		return StringRef{}, err
	}
	if c.nullMap[n] {
		return StringRef{}, nil
	}
	return c.inner.DataAt(n)
}

func (c *Nullable) Uint64At(int) (uint64, error)   { return 0, notNumeric(c, opUint64At) }
func (c *Nullable) Float64At(int) (float64, error) { return 0, notNumeric(c, opFloat64At) }
func (c *Nullable) Float32At(int) (float32, error) { return 0, notNumeric(c, opFloat32At) }

func (c *Nullable) gather(rows []int) (Column, error) {
	if err := checkRows(c, opToFullColumn, rows); err != nil {
		return nil, err
	}
	inner, err := c.inner.gather(rows)
	if err != nil {
		return nil, err
	}
	nullMap := make([]bool, len(rows))
	for i, n := range rows {
		nullMap[i] = c.nullMap[n]
	}
	return &Nullable{inner: inner, nullMap: nullMap}, nil
}

package columnar

import (
	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/field"
)

// Const is a single value repeated size times. The inner column holds
// exactly one row; ToFullColumn is where the value is physically copied.
type Const struct {
	inner Column
	size  int
}

// NewConst returns a column repeating the only row of inner size times.
func NewConst(inner Column, size int) (*Const, error) {
	switch {
	case inner == nil:
		return nil, errors.Malformed(FamilyConst, "inner column is nil")
	case size < 0:
		return nil, errors.Malformed(FamilyConst, "negative size %d", size)
	case inner.Size() != 1:
		return nil, errors.Malformed(FamilyConst, "inner column must hold one row, has %d", inner.Size())
	}
	if _, ok := inner.(*Const); ok {
		return nil, errors.Malformed(FamilyConst, "inner column is already constant")
	}
	return &Const{inner: inner, size: size}, nil
}

// Inner returns the single-row column holding the value.
func (c *Const) Inner() Column { return c.inner }

func (c *Const) Clone() Column {
	return &Const{inner: c.inner.Clone(), size: c.size}
}

func (c *Const) Name() string        { return wrappedName(FamilyConst, c.inner) }
func (c *Const) FamilyName() string  { return FamilyConst }
func (c *Const) LogicalType() string { return c.inner.LogicalType() }
func (c *Const) Size() int           { return c.size }
func (c *Const) Empty() bool         { return c.size == 0 }

// ToFullColumn copies the value Size() times into a column of the inner
// variant.
func (c *Const) ToFullColumn() (Column, error) {
	return c.inner.gather(make([]int, c.size))
}

func (c *Const) FieldAt(n int) (field.Field, error) {
	if err := checkIndex(c, opFieldAt, n); err != nil {
		return field.Null(), err
	}
	return c.inner.FieldAt(0)
}

func (c *Const) Get(n int, res *field.Field) error {
	if err := checkIndex(c, opGet, n); err != nil {
		return err
	}
	return c.inner.Get(0, res)
}

func (c *Const) DataAt(n int) (StringRef, error) {
	if err := checkIndex(c, opDataAt, n); err != nil {
		return StringRef{}, err
	}
	return c.inner.DataAt(0)
}

func (c *Const) Uint64At(int) (uint64, error)   { return 0, notNumeric(c, opUint64At) }
func (c *Const) Float64At(int) (float64, error) { return 0, notNumeric(c, opFloat64At) }
func (c *Const) Float32At(int) (float32, error) { return 0, notNumeric(c, opFloat32At) }

func (c *Const) gather(rows []int) (Column, error) {
	if err := checkRows(c, opToFullColumn, rows); err != nil {
		return nil, err
	}
	return c.inner.gather(make([]int, len(rows)))
}

package columnar

import "github.com/protondb/proton/pkg/field"

// Dummy stands in for a pruned column when only the row count matters.
type Dummy struct {
	size int
}

// NewDummy returns a dummy column of size rows. Negative sizes are clamped
// to zero.
func NewDummy(size int) *Dummy {
	return &Dummy{size: max(size, 0)}
}

// AddSize grows the column by delta rows.
func (c *Dummy) AddSize(delta int) {
	c.size = max(c.size+delta, 0)
}

func (c *Dummy) IsDummy() bool { return true }

func (c *Dummy) Clone() Column       { return &Dummy{size: c.size} }
func (c *Dummy) Name() string        { return FamilyDummy }
func (c *Dummy) FamilyName() string  { return FamilyDummy }
func (c *Dummy) LogicalType() string { return "Nothing" }
func (c *Dummy) Size() int           { return c.size }
func (c *Dummy) Empty() bool         { return c.size == 0 }

func (c *Dummy) ToFullColumn() (Column, error) { return c.Clone(), nil }

func (c *Dummy) FieldAt(int) (field.Field, error) { return field.Null(), unsupported(c, opFieldAt) }
func (c *Dummy) Get(int, *field.Field) error      { return unsupported(c, opGet) }
func (c *Dummy) DataAt(int) (StringRef, error)    { return StringRef{}, unsupported(c, opDataAt) }
func (c *Dummy) Uint64At(int) (uint64, error)     { return 0, notNumeric(c, opUint64At) }
func (c *Dummy) Float64At(int) (float64, error)   { return 0, notNumeric(c, opFloat64At) }
func (c *Dummy) Float32At(int) (float32, error)   { return 0, notNumeric(c, opFloat32At) }

func (c *Dummy) gather(rows []int) (Column, error) {
	if err := checkRows(c, opToFullColumn, rows); err != nil {
		return nil, err
	}
	return &Dummy{size: len(rows)}, nil
}

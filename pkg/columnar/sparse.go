package columnar

import (
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/field"
)

// Sparse stores only the rows that differ from a default value. Positions
// of the stored rows are kept in a roaring bitmap; the value of position p
// lives at index Rank(p)-1.
//
// Size reports the logical length, not the number of stored rows. The
// logical length grows with Insert and Resize.
type Sparse[T Numeric] struct {
	defaultValue T
	values       []T
	positions    *roaring64.Bitmap
	size         int
	last         int
}

// NewSparse returns an empty sparse column.
func NewSparse[T Numeric](defaultValue T) *Sparse[T] {
	return &Sparse[T]{defaultValue: defaultValue, positions: roaring64.New(), last: -1}
}

// NewSparseWithSize returns a sparse column of size default rows.
func NewSparseWithSize[T Numeric](defaultValue T, size int) (*Sparse[T], error) {
	c := NewSparse(defaultValue)
	if err := c.Resize(size); err != nil {
		return nil, err
	}
	return c, nil
}

// Insert sets the row at position. Positions must be strictly increasing
// across calls. A value equal to the default is not stored.
func (c *Sparse[T]) Insert(value T, position int) error {
	if position < 0 {
		return errors.Malformed(FamilySparse, "negative position %d", position)
	}
	if position == math.MaxInt {
		return errors.Malformed(FamilySparse, "position %d leaves no room for the column size", position)
	}
	if position <= c.last {
		return errors.Malformed(FamilySparse, "position %d is not after previous position %d", position, c.last)
	}
	c.last = position
	if position >= c.size {
		c.size = position + 1
	}
	if value == c.defaultValue {
		return nil
	}
	c.positions.Add(uint64(position))
	c.values = append(c.values, value)
	return nil
}

// Resize sets the logical length. It cannot drop inserted positions.
func (c *Sparse[T]) Resize(size int) error {
	if size < 0 {
		return errors.Malformed(FamilySparse, "negative size %d", size)
	}
	if size <= c.last {
		return errors.Malformed(FamilySparse, "size %d would drop position %d", size, c.last)
	}
	c.size = size
	return nil
}

// NumExplicit returns the number of stored, non-default rows.
func (c *Sparse[T]) NumExplicit() int { return len(c.values) }

// Default returns the value of every row that is not stored.
func (c *Sparse[T]) Default() T { return c.defaultValue }

// Positions returns the stored positions in increasing order.
func (c *Sparse[T]) Positions() []int {
	out := make([]int, 0, len(c.values))
	it := c.positions.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Values returns the stored values in position order. Callers must not
// modify the returned slice.
func (c *Sparse[T]) Values() []T { return c.values }

// At returns the value at row n.
func (c *Sparse[T]) At(n int) (T, error) {
	if err := checkIndex(c, "At", n); err != nil {
		var zero T
		return zero, err
	}
	return c.lookup(n), nil
}

func (c *Sparse[T]) lookup(n int) T {
	p := uint64(n)
	if !c.positions.Contains(p) {
		return c.defaultValue
	}
	return c.values[c.positions.Rank(p)-1]
}

func (c *Sparse[T]) Clone() Column {
	return &Sparse[T]{
		defaultValue: c.defaultValue,
		values:       slices.Clone(c.values),
		positions:    c.positions.Clone(),
		size:         c.size,
		last:         c.last,
	}
}

func (c *Sparse[T]) Name() string        { return FamilySparse }
func (c *Sparse[T]) FamilyName() string  { return FamilySparse }
func (c *Sparse[T]) LogicalType() string { return "Sparse(" + ScalarType[T]() + ")" }
func (c *Sparse[T]) Size() int           { return c.size }
func (c *Sparse[T]) Empty() bool         { return c.size == 0 }

// ToFullColumn returns a dense vector with the default filled in at every
// position that is not stored.
func (c *Sparse[T]) ToFullColumn() (Column, error) {
	out := make([]T, c.size)
	for i := range out {
		out[i] = c.defaultValue
	}
	it := c.positions.Iterator()
	for i := 0; it.HasNext(); i++ {
		out[it.Next()] = c.values[i]
	}
	return &Vector[T]{data: out}, nil
}

func (c *Sparse[T]) FieldAt(n int) (field.Field, error) {
	if err := checkIndex(c, opFieldAt, n); err != nil {
		return field.Null(), err
	}
	return ScalarField(c.lookup(n))
}

func (c *Sparse[T]) Get(n int, res *field.Field) error { return getVia(c, n, res) }

// DataAt returns the little-endian encoding of the stored value, or of the
// default for positions that are not stored.
func (c *Sparse[T]) DataAt(n int) (StringRef, error) {
	if err := checkIndex(c, opDataAt, n); err != nil {
		return StringRef{}, err
	}
	return NewStringRef(EncodeScalar(c.lookup(n))), nil
}

func (c *Sparse[T]) Uint64At(int) (uint64, error)   { return 0, notNumeric(c, opUint64At) }
func (c *Sparse[T]) Float64At(int) (float64, error) { return 0, notNumeric(c, opFloat64At) }
func (c *Sparse[T]) Float32At(int) (float32, error) { return 0, notNumeric(c, opFloat32At) }

func (c *Sparse[T]) gather(rows []int) (Column, error) {
	if err := checkRows(c, opToFullColumn, rows); err != nil {
		return nil, err
	}
	out := make([]T, len(rows))
	for i, n := range rows {
		out[i] = c.lookup(n)
	}
	return &Vector[T]{data: out}, nil
}

package columnar

import (
	"slices"

	"github.com/protondb/proton/pkg/field"
)

// Vector is a dense column of fixed-width scalars.
type Vector[T Numeric] struct {
	data []T
}

// NewVector returns a vector holding a copy of data.
func NewVector[T Numeric](data []T) *Vector[T] {
	return &Vector[T]{data: slices.Clone(data)}
}

// NewVectorWithCapacity returns an empty vector with room for capacity rows.
// A negative capacity is treated as zero.
func NewVectorWithCapacity[T Numeric](capacity int) *Vector[T] {
	return &Vector[T]{data: make([]T, 0, max(capacity, 0))}
}

// Insert appends v. Only the owning builder may call it, before the column
// is shared.
func (c *Vector[T]) Insert(v T) {
	c.data = append(c.data, v)
}

// Data returns the backing values for bulk reads. Callers must not modify
// the returned slice.
func (c *Vector[T]) Data() []T { return c.data }

// At returns row n without going through Field.
func (c *Vector[T]) At(n int) (T, error) {
	if err := checkIndex(c, "At", n); err != nil {
		var zero T
		return zero, err
	}
	return c.data[n], nil
}

// AppendDataAt appends the little-endian encoding of row n to dst.
func (c *Vector[T]) AppendDataAt(dst []byte, n int) ([]byte, error) {
	if err := checkIndex(c, opDataAt, n); err != nil {
		return dst, err
	}
	return AppendScalar(dst, c.data[n]), nil
}

func (c *Vector[T]) Clone() Column       { return NewVector(c.data) }
func (c *Vector[T]) Name() string        { return FamilyVector }
func (c *Vector[T]) FamilyName() string  { return FamilyVector }
func (c *Vector[T]) LogicalType() string { return ScalarType[T]() }
func (c *Vector[T]) Size() int           { return len(c.data) }
func (c *Vector[T]) Empty() bool         { return len(c.data) == 0 }

func (c *Vector[T]) ToFullColumn() (Column, error) { return c.Clone(), nil }

func (c *Vector[T]) FieldAt(n int) (field.Field, error) {
	if err := checkIndex(c, opFieldAt, n); err != nil {
		return field.Null(), err
	}
	return ScalarField(c.data[n])
}

func (c *Vector[T]) Get(n int, res *field.Field) error { return getVia(c, n, res) }

// DataAt returns the little-endian encoding of row n in a fresh buffer.
// Use AppendDataAt to avoid the allocation.
func (c *Vector[T]) DataAt(n int) (StringRef, error) {
	if err := checkIndex(c, opDataAt, n); err != nil {
		return StringRef{}, err
	}
	return NewStringRef(EncodeScalar(c.data[n])), nil
}

func (c *Vector[T]) Uint64At(n int) (uint64, error) {
	if err := checkIndex(c, opUint64At, n); err != nil {
		return 0, err
	}
	return toUint64(c.data[n]), nil
}

func (c *Vector[T]) Float64At(n int) (float64, error) {
	if err := checkIndex(c, opFloat64At, n); err != nil {
		return 0, err
	}
	return float64(c.data[n]), nil
}

func (c *Vector[T]) Float32At(n int) (float32, error) {
	if err := checkIndex(c, opFloat32At, n); err != nil {
		return 0, err
	}
	return float32(c.data[n]), nil
}

func (c *Vector[T]) gather(rows []int) (Column, error) {
	if err := checkRows(c, opToFullColumn, rows); err != nil {
		return nil, err
	}
	out := make([]T, len(rows))
	for i, n := range rows {
		out[i] = c.data[n]
	}
	return &Vector[T]{data: out}, nil
}

func toUint64[T Numeric](v T) uint64 {
	switch x := any(v).(type) {
	case uint64:
		return x
	case float32:
		return uint64(x)
	case float64:
		return uint64(x)
	}
	return uint64(toInt64(v))
}

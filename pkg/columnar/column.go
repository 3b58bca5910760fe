package columnar

import (
	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/field"
)

// Family names reported by FamilyName. They never change for a concrete type.
const (
	FamilyVector            = "Vector"
	FamilyString            = "String"
	FamilyFixedString       = "FixedString"
	FamilyNullable          = "Nullable"
	FamilyArray             = "Array"
	FamilyConst             = "Const"
	FamilyDecimal           = "Decimal"
	FamilySparse            = "Sparse"
	FamilyAggregateFunction = "AggregateFunction"
	FamilyDummy             = "Dummy"
)

// Operation names used in error details.
const (
	opFieldAt      = "FieldAt"
	opGet          = "Get"
	opDataAt       = "DataAt"
	opUint64At     = "Uint64At"
	opFloat64At    = "Float64At"
	opFloat32At    = "Float32At"
	opToFullColumn = "ToFullColumn"
)

// Column is the capability contract shared by every physical encoding.
//
// Operators hold heterogeneous columns behind this interface and use the
// same code path for size checks, null checks and Field extraction. When an
// operator needs an encoding-specific fast path it downcasts with As.
//
// The set of implementations is closed: only the variants in this package
// satisfy Column.
type Column interface {
	// Clone returns an independently owned deep copy of the same variant.
	Clone() Column
	// Name returns the display name, e.g. "Nullable(String)".
	Name() string
	// FamilyName returns the encoding name, e.g. "Sparse".
	FamilyName() string
	// LogicalType returns the logical value type, e.g. "Int32".
	LogicalType() string
	// ToFullColumn returns a column in which every logical row is directly
	// addressable. Const and Sparse are expanded; others are cloned.
	ToFullColumn() (Column, error)
	// Size returns the number of logical rows.
	Size() int
	// Empty reports whether Size() == 0.
	Empty() bool
	// FieldAt returns an owned copy of row n.
	FieldAt(n int) (field.Field, error)
	// Get stores row n into res, reusing the caller's Field.
	Get(n int, res *field.Field) error
	// DataAt returns the bytes backing row n.
	DataAt(n int) (StringRef, error)
	// Uint64At returns row n converted to uint64.
	Uint64At(n int) (uint64, error)
	// Float64At returns row n converted to float64.
	Float64At(n int) (float64, error)
	// Float32At returns row n converted to float32.
	Float32At(n int) (float32, error)

	// gather returns a full column holding the given rows in order. Rows
	// may repeat.
	gather(rows []int) (Column, error)
}

// As downcasts c to the concrete variant T. It never panics; a wrong
// variant yields a TypeMismatch error naming both types.
func As[T Column](c Column) (T, error) {
	if t, ok := c.(T); ok {
		return t, nil
	}
	var zero T
	got := "nil"
	if c != nil {
		got = c.Name()
	}
	return zero, errors.Newf(errors.ErrorTypeTypeMismatch, "column %s is not %T", got, zero).
		WithDetail(errors.DetailFamily, got)
}

// IsFamily reports whether c belongs to the given encoding family.
func IsFamily(c Column, family string) bool {
	return c != nil && c.FamilyName() == family
}

func checkIndex(c Column, op string, n int) error {
	if size := c.Size(); n < 0 || n >= size {
		return errors.OutOfBounds(c.FamilyName(), op, n, size)
	}
	return nil
}

func checkRows(c Column, op string, rows []int) error {
	for _, n := range rows {
		if err := checkIndex(c, op, n); err != nil {
			return err
		}
	}
	return nil
}

func unsupported(c Column, op string) error {
	return errors.Unsupported(c.FamilyName(), op)
}

// notNumeric is returned by the narrowing accessors of non-numeric variants.
func notNumeric(c Column, op string) error {
	return errors.Wrap(unsupported(c, op), errors.ErrorTypeTypeMismatch,
		op+" requires a numeric column, got "+c.Name()).
		WithDetail(errors.DetailFamily, c.FamilyName()).
		WithDetail(errors.DetailOperation, op)
}

// getVia implements Get on top of FieldAt.
func getVia(c Column, n int, res *field.Field) error {
	f, err := c.FieldAt(n)
	if err != nil {
		return err
	}
	*res = f
	return nil
}

func wrappedName(family string, inner Column) string {
	return family + "(" + inner.Name() + ")"
}

package columnar

import (
	"slices"

	"github.com/protondb/proton/pkg/errors"
)

// Equal reports whether a and b are the same variant with the same rows.
//
// Wrappers are compared structurally: Nullable by null map and inner
// column, Const by inner column, Array by row lengths and nested column.
// Other rows are compared through FieldAt, or through DataAt for variants
// that do not expose fields. Variants that expose neither
// (AggregateFunction, Dummy) compare by size only.
func Equal(a, b Column) (bool, error) {
	if a == nil || b == nil {
		return a == b, nil
	}
	if a.FamilyName() != b.FamilyName() || a.LogicalType() != b.LogicalType() || a.Size() != b.Size() {
		return false, nil
	}
	switch a := a.(type) {
	case *Array:
		return arraysEqual(a, b.(*Array))
	case *Nullable:
		b := b.(*Nullable)
		if !slices.Equal(a.nullMap, b.nullMap) {
			return false, nil
		}
		return Equal(a.inner, b.inner)
	case *Const:
		return Equal(a.inner, b.(*Const).inner)
	}
	for n := 0; n < a.Size(); n++ {
		same, err := rowEqual(a, b, n)
		if err != nil || !same {
			return false, err
		}
	}
	return true, nil
}

func rowEqual(a, b Column, n int) (bool, error) {
	fa, err := a.FieldAt(n)
	switch {
	case err == nil:
		fb, err := b.FieldAt(n)
		if err != nil {
			return false, err
		}
		return fa.Equal(fb), nil
	case !errors.IsUnsupported(err):
		return false, err
	}

	ra, err := a.DataAt(n)
	switch {
	case err == nil:
		rb, err := b.DataAt(n)
		if err != nil {
			return false, err
		}
		return ra.Equal(rb), nil
	case errors.IsUnsupported(err):
		return true, nil
	default:
		return false, err
	}
}

func arraysEqual(a, b *Array) (bool, error) {
	for n := 0; n < a.Size(); n++ {
		sa, ea, _ := a.Bounds(n)
		sb, eb, _ := b.Bounds(n)
		if ea-sa != eb-sb {
			return false, nil
		}
	}
	return Equal(a.nested, b.nested)
}

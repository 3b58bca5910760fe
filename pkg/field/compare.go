package field

import (
	"cmp"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/protondb/proton/pkg/errors"
)

// Compare orders f relative to other and returns -1, 0 or +1.
//
// Null sorts first. Int, Float and Decimal compare by numeric value across
// kinds. Strings compare bytewise. Arrays and Tuples compare
// lexicographically. AggregateState, Map and Object have no ordering and
// fail with NotComparable, as does comparing text with a number.
func (f Field) Compare(other Field) (int, error) {
	if f.kind == KindNull || other.kind == KindNull {
		switch {
		case f.kind == other.kind:
			return 0, nil
		case f.kind == KindNull:
			return -1, nil
		default:
			return 1, nil
		}
	}

	if f.isNumeric() && other.isNumeric() {
		return compareNumeric(f, other), nil
	}

	if f.kind != other.kind {
		return 0, notComparable(f.kind, other.kind)
	}

	switch f.kind {
	case KindString:
		return strings.Compare(f.s, other.s), nil
	case KindArray, KindTuple:
		n := min(len(f.items), len(other.items))
		for i := 0; i < n; i++ {
			c, err := f.items[i].Compare(other.items[i])
			if err != nil {
				return 0, err
			}
			if c != 0 {
				return c, nil
			}
		}
		return cmp.Compare(len(f.items), len(other.items)), nil
	}
	return 0, notComparable(f.kind, other.kind)
}

// Less is Compare(other) < 0.
func (f Field) Less(other Field) (bool, error) {
	c, err := f.Compare(other)
	return c < 0, err
}

func (f Field) isNumeric() bool {
	return f.kind == KindInt || f.kind == KindFloat || f.kind == KindDecimal
}

func notComparable(a, b Kind) error {
	return errors.Newf(errors.ErrorTypeNotComparable, "cannot order %s against %s", a, b).
		WithDetail("left", a.String()).
		WithDetail("right", b.String())
}

func compareNumeric(a, b Field) int {
	switch {
	case a.kind == KindInt && b.kind == KindInt:
		return cmp.Compare(a.i, b.i)
	case a.kind == KindFloat || b.kind == KindFloat:
		return compareFloat(a.toFloat(), b.toFloat())
	default:
		return a.toDecimal().Cmp(b.toDecimal())
	}
}

// compareFloat orders NaN before every other value.
func compareFloat(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	}
	return cmp.Compare(a, b)
}

func (f Field) toFloat() float64 {
	switch f.kind {
	case KindInt:
		return float64(f.i)
	case KindDecimal:
		return f.dec.InexactFloat64()
	}
	return f.f
}

func (f Field) toDecimal() decimal.Decimal {
	if f.kind == KindInt {
		return decimal.NewFromInt(f.i)
	}
	return f.dec
}

// Package field defines Field, the canonical encoding-independent
// representation of a single value.
//
// A Field is a closed tagged union. Columns extract values into Fields when
// an operator needs a single value without knowing the physical encoding.
// Field values are always owned: constructors and Clone deep-copy every
// slice, map and byte buffer, so a Field never aliases column storage.
//
// The zero Field is Null.
package field

import (
	"bytes"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/protondb/proton/pkg/errors"
)

// Kind identifies the variant held by a Field.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindDecimal
	KindString
	KindArray
	KindTuple
	KindMap
	KindObject
	KindAggregateState
)

var kindNames = [...]string{
	KindNull:           "Null",
	KindInt:            "Int",
	KindFloat:          "Float",
	KindDecimal:        "Decimal",
	KindString:         "String",
	KindArray:          "Array",
	KindTuple:          "Tuple",
	KindMap:            "Map",
	KindObject:         "Object",
	KindAggregateState: "AggregateState",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// AggregateStateData is the serialized state of an aggregate function.
type AggregateStateData struct {
	Name string
	Data []byte
}

// Field holds exactly one value of one Kind.
type Field struct {
	kind  Kind
	i     int64
	f     float64
	s     string
	dec   decimal.Decimal
	items []Field
	m     map[string]Field
	agg   *AggregateStateData
}

// Null returns the Null field.
func Null() Field { return Field{} }

// Int returns an integer field.
func Int(v int64) Field { return Field{kind: KindInt, i: v} }

// Float returns a floating point field.
func Float(v float64) Field { return Field{kind: KindFloat, f: v} }

// Decimal returns a decimal field.
func Decimal(d decimal.Decimal) Field { return Field{kind: KindDecimal, dec: d} }

// String returns a text field.
func String(s string) Field { return Field{kind: KindString, s: s} }

// Bytes returns a text field holding a copy of b.
func Bytes(b []byte) Field { return Field{kind: KindString, s: string(b)} }

// Array returns an array field holding copies of items.
func Array(items ...Field) Field { return Field{kind: KindArray, items: cloneItems(items)} }

// Tuple returns a tuple field holding copies of items.
func Tuple(items ...Field) Field { return Field{kind: KindTuple, items: cloneItems(items)} }

// Map returns a map field holding a copy of m.
func Map(m map[string]Field) Field { return Field{kind: KindMap, m: cloneMap(m)} }

// Object returns an object field holding a copy of m.
func Object(m map[string]Field) Field { return Field{kind: KindObject, m: cloneMap(m)} }

// AggregateState returns an aggregate state field holding a copy of data.
func AggregateState(name string, data []byte) Field {
	return Field{kind: KindAggregateState, agg: &AggregateStateData{Name: name, Data: bytes.Clone(data)}}
}

// Kind returns the variant held by f.
func (f Field) Kind() Kind { return f.kind }

// IsNull reports whether f is Null.
func (f Field) IsNull() bool { return f.kind == KindNull }

func (f Field) mismatch(want Kind) error {
	return errors.Newf(errors.ErrorTypeTypeMismatch, "field is %s, not %s", f.kind, want).
		WithDetail("kind", f.kind.String())
}

// AsInt returns the integer held by f.
func (f Field) AsInt() (int64, error) {
	if f.kind != KindInt {
		return 0, f.mismatch(KindInt)
	}
	return f.i, nil
}

// AsFloat returns the float held by f.
func (f Field) AsFloat() (float64, error) {
	if f.kind != KindFloat {
		return 0, f.mismatch(KindFloat)
	}
	return f.f, nil
}

// AsDecimal returns the decimal held by f.
func (f Field) AsDecimal() (decimal.Decimal, error) {
	if f.kind != KindDecimal {
		return decimal.Decimal{}, f.mismatch(KindDecimal)
	}
	return f.dec, nil
}

// AsString returns the text held by f.
func (f Field) AsString() (string, error) {
	if f.kind != KindString {
		return "", f.mismatch(KindString)
	}
	return f.s, nil
}

// AsItems returns a copy of the items of an Array or Tuple field.
func (f Field) AsItems() ([]Field, error) {
	if f.kind != KindArray && f.kind != KindTuple {
		return nil, f.mismatch(KindArray)
	}
	return cloneItems(f.items), nil
}

// AsMap returns a copy of the entries of a Map or Object field.
func (f Field) AsMap() (map[string]Field, error) {
	if f.kind != KindMap && f.kind != KindObject {
		return nil, f.mismatch(KindMap)
	}
	return cloneMap(f.m), nil
}

// AsAggregateState returns a copy of the aggregate state held by f.
func (f Field) AsAggregateState() (AggregateStateData, error) {
	if f.kind != KindAggregateState {
		return AggregateStateData{}, f.mismatch(KindAggregateState)
	}
	return AggregateStateData{Name: f.agg.Name, Data: bytes.Clone(f.agg.Data)}, nil
}

// Clone returns a deep copy of f.
func (f Field) Clone() Field {
	switch f.kind {
	case KindArray, KindTuple:
		f.items = cloneItems(f.items)
	case KindMap, KindObject:
		f.m = cloneMap(f.m)
	case KindAggregateState:
		f.agg = &AggregateStateData{Name: f.agg.Name, Data: bytes.Clone(f.agg.Data)}
	}
	return f
}

// Equal reports structural equality. Array and Tuple never equal each other,
// nor do Map and Object. NaN floats are equal to each other.
func (f Field) Equal(other Field) bool {
	if f.kind != other.kind {
		return false
	}
	switch f.kind {
	case KindNull:
		return true
	case KindInt:
		return f.i == other.i
	case KindFloat:
		return f.f == other.f || (math.IsNaN(f.f) && math.IsNaN(other.f))
	case KindDecimal:
		return f.dec.Equal(other.dec)
	case KindString:
		return f.s == other.s
	case KindArray, KindTuple:
		if len(f.items) != len(other.items) {
			return false
		}
		for i := range f.items {
			if !f.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindMap, KindObject:
		if len(f.m) != len(other.m) {
			return false
		}
		for k, v := range f.m {
			ov, ok := other.m[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	case KindAggregateState:
		return f.agg.Name == other.agg.Name && bytes.Equal(f.agg.Data, other.agg.Data)
	}
	return false
}

// String renders f for diagnostics.
func (f Field) String() string {
	var sb strings.Builder
	f.format(&sb)
	return sb.String()
}

func (f Field) format(sb *strings.Builder) {
	switch f.kind {
	case KindNull:
		sb.WriteString("NULL")
	case KindInt:
		sb.WriteString(strconv.FormatInt(f.i, 10))
	case KindFloat:
		sb.WriteString(strconv.FormatFloat(f.f, 'g', -1, 64))
	case KindDecimal:
		sb.WriteString(f.dec.String())
	case KindString:
		sb.WriteString(strconv.Quote(f.s))
	case KindArray, KindTuple:
		open, closing := byte('['), byte(']')
		if f.kind == KindTuple {
			open, closing = '(', ')'
		}
		sb.WriteByte(open)
		for i, item := range f.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.format(sb)
		}
		sb.WriteByte(closing)
	case KindMap, KindObject:
		if f.kind == KindObject {
			sb.WriteString("Object")
		}
		sb.WriteByte('{')
		for i, k := range sortedKeys(f.m) {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(": ")
			f.m[k].format(sb)
		}
		sb.WriteByte('}')
	case KindAggregateState:
		sb.WriteString("AggregateFunctionState(")
		sb.WriteString(f.agg.Name)
		sb.WriteByte(')')
	}
}

func cloneItems(items []Field) []Field {
	if items == nil {
		return nil
	}
	out := make([]Field, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

func cloneMap(m map[string]Field) map[string]Field {
	if m == nil {
		return nil
	}
	out := make(map[string]Field, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}

func sortedKeys(m map[string]Field) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

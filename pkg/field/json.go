package field

import (
	"math"

	gojson "github.com/goccy/go-json"
)

// MarshalJSON encodes f. Decimals are encoded as strings to keep their
// exact digits; non-finite floats, which JSON cannot carry, become null.
func (f Field) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(f.jsonValue())
}

type aggregateStateJSON struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

func (f Field) jsonValue() interface{} {
	switch f.kind {
	case KindInt:
		return f.i
	case KindFloat:
		if math.IsNaN(f.f) || math.IsInf(f.f, 0) {
			return nil
		}
		return f.f
	case KindDecimal:
		return f.dec.String()
	case KindString:
		return f.s
	case KindArray, KindTuple:
		out := make([]interface{}, len(f.items))
		for i, item := range f.items {
			out[i] = item.jsonValue()
		}
		return out
	case KindMap, KindObject:
		out := make(map[string]interface{}, len(f.m))
		for k, v := range f.m {
			out[k] = v.jsonValue()
		}
		return out
	case KindAggregateState:
		return aggregateStateJSON{Name: f.agg.Name, Data: f.agg.Data}
	}
	return nil
}

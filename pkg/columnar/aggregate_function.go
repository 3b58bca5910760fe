package columnar

import (
	"github.com/protondb/proton/pkg/field"
)

// AggregateState is an opaque, per-row aggregation state. Only the
// aggregate function that produced it knows its layout.
type AggregateState interface {
	// CloneState returns an independent copy of the state.
	CloneState() AggregateState
}

// AggregateFunction holds one aggregate state per row. Rows may hold a nil
// state. Individual states are never exposed through Field or byte views.
type AggregateFunction struct {
	function  string
	states    []AggregateState
	keepState bool
}

// NewAggregateFunction returns an empty column for the named function.
func NewAggregateFunction(function string) *AggregateFunction {
	return &AggregateFunction{function: function}
}

// AddState appends s. A nil s marks a row without state.
func (c *AggregateFunction) AddState(s AggregateState) {
	c.states = append(c.states, s)
}

// SetKeepState controls whether the states outlive finalization.
func (c *AggregateFunction) SetKeepState(keep bool) { c.keepState = keep }

// States returns the per-row states for merge and finalize kernels.
// Callers must not modify the returned slice.
func (c *AggregateFunction) States() []AggregateState { return c.states }

func (c *AggregateFunction) KeepState() bool      { return c.keepState }
func (c *AggregateFunction) FunctionName() string { return c.function }

func (c *AggregateFunction) Clone() Column {
	out := &AggregateFunction{
		function:  c.function,
		states:    make([]AggregateState, len(c.states)),
		keepState: c.keepState,
	}
	for i, s := range c.states {
		if s != nil {
			out.states[i] = s.CloneState()
		}
	}
	return out
}

func (c *AggregateFunction) Name() string       { return FamilyAggregateFunction }
func (c *AggregateFunction) FamilyName() string { return FamilyAggregateFunction }
func (c *AggregateFunction) LogicalType() string {
	return "AggregateFunction(" + c.function + ")"
}
func (c *AggregateFunction) Size() int   { return len(c.states) }
func (c *AggregateFunction) Empty() bool { return len(c.states) == 0 }

func (c *AggregateFunction) ToFullColumn() (Column, error) { return c.Clone(), nil }

func (c *AggregateFunction) FieldAt(int) (field.Field, error) {
	return field.Null(), unsupported(c, opFieldAt)
}
func (c *AggregateFunction) Get(int, *field.Field) error   { return unsupported(c, opGet) }
func (c *AggregateFunction) DataAt(int) (StringRef, error) { return StringRef{}, unsupported(c, opDataAt) }
func (c *AggregateFunction) Uint64At(int) (uint64, error)  { return 0, notNumeric(c, opUint64At) }
func (c *AggregateFunction) Float64At(int) (float64, error) {
	return 0, notNumeric(c, opFloat64At)
}
func (c *AggregateFunction) Float32At(int) (float32, error) {
	return 0, notNumeric(c, opFloat32At)
}

func (c *AggregateFunction) gather(rows []int) (Column, error) {
	if err := checkRows(c, opToFullColumn, rows); err != nil {
		return nil, err
	}
	out := &AggregateFunction{function: c.function, states: make([]AggregateState, len(rows)), keepState: c.keepState}
	for i, n := range rows {
		if s := c.states[n]; s != nil {
			out.states[i] = s.CloneState()
		}
	}
	return out, nil
}

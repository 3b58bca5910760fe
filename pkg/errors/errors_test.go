package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnsupportedCarriesFamilyAndOperation(t *testing.T) {
	err := Unsupported("Array", "FieldAt")

	assert.Equal(t, "unsupported_operation: FieldAt is not supported for Array", err.Error())
	family, ok := err.Detail(DetailFamily)
	require.True(t, ok)
	assert.Equal(t, "Array", family)
	op, ok := err.Detail(DetailOperation)
	require.True(t, ok)
	assert.Equal(t, "FieldAt", op)
	assert.NotEmpty(t, err.Stack)
}

func TestOutOfBounds(t *testing.T) {
	err := OutOfBounds("String", "DataAt", 7, 3)

	assert.True(t, IsOutOfBounds(err))
	assert.False(t, IsUnsupported(err))
	assert.Contains(t, err.Error(), "index 7 out of range [0, 3)")
	assert.Equal(t, 7, err.Details[DetailIndex])
	assert.Equal(t, 3, err.Details[DetailSize])
}

func TestIsTypeWalksChain(t *testing.T) {
	inner := Unsupported("String", "Uint64At")
	outer := Wrap(inner, ErrorTypeTypeMismatch, "numeric access on String")

	assert.True(t, IsTypeMismatch(outer))
	assert.True(t, IsUnsupported(outer))
	assert.False(t, IsNotComparable(outer))
	assert.Equal(t, inner.Stack, outer.Stack)

	// Also through foreign wrappers.
	foreign := fmt.Errorf("query 12: %w", outer)
	assert.True(t, IsUnsupported(foreign))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInternal, "nothing"))

	err := Wrap(io.EOF, ErrorTypeConfig, "failed to read config")
	require.NotNil(t, err)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "config: failed to read config: EOF", err.Error())
	assert.True(t, IsType(err, ErrorTypeConfig))
}

func TestMalformed(t *testing.T) {
	err := Malformed("FixedString", "data length %d is not a multiple of width %d", 7, 3)

	assert.True(t, IsMalformed(err))
	assert.Equal(t, "malformed_column: FixedString: data length 7 is not a multiple of width 3", err.Error())
}

func TestIsTypeOnPlainError(t *testing.T) {
	assert.False(t, IsType(io.EOF, ErrorTypeInternal))
	assert.False(t, IsType(nil, ErrorTypeInternal))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeIndexOutOfBounds, TypeOf(OutOfBounds("String", "DataAt", 3, 1)))
	assert.Equal(t, ErrorTypeInternal, TypeOf(io.EOF))

	wrapped := fmt.Errorf("context: %w", Unsupported("Array", "FieldAt"))
	assert.Equal(t, ErrorTypeUnsupportedOperation, TypeOf(wrapped))
}

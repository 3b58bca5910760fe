package columnar

import (
	"encoding/binary"
	"math"

	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/field"
)

// Numeric is the set of fixed-width scalar kinds a Vector or Sparse column
// can hold.
type Numeric interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// ScalarType returns the logical type name of T, e.g. "Int64" or "Float32".
func ScalarType[T Numeric]() string {
	var zero T
	switch any(zero).(type) {
	case int8:
		return "Int8"
	case int16:
		return "Int16"
	case int32:
		return "Int32"
	case int64:
		return "Int64"
	case uint8:
		return "UInt8"
	case uint16:
		return "UInt16"
	case uint32:
		return "UInt32"
	case uint64:
		return "UInt64"
	case float32:
		return "Float32"
	default:
		return "Float64"
	}
}

// ScalarWidth returns the encoded size of T in bytes.
func ScalarWidth[T Numeric]() int {
	var zero T
	switch any(zero).(type) {
	case int8, uint8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32, float32:
		return 4
	default:
		return 8
	}
}

// AppendScalar appends the little-endian encoding of v to dst. Integers are
// encoded as two's complement of their own width and floats as their
// IEEE-754 bits, independent of the host byte order.
func AppendScalar[T Numeric](dst []byte, v T) []byte {
	switch x := any(v).(type) {
	case int8:
		return append(dst, byte(x))
	case uint8:
		return append(dst, x)
	case int16:
		return binary.LittleEndian.AppendUint16(dst, uint16(x))
	case uint16:
		return binary.LittleEndian.AppendUint16(dst, x)
	case int32:
		return binary.LittleEndian.AppendUint32(dst, uint32(x))
	case uint32:
		return binary.LittleEndian.AppendUint32(dst, x)
	case int64:
		return binary.LittleEndian.AppendUint64(dst, uint64(x))
	case uint64:
		return binary.LittleEndian.AppendUint64(dst, x)
	case float32:
		return binary.LittleEndian.AppendUint32(dst, math.Float32bits(x))
	case float64:
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(x))
	}
	return dst
}

// EncodeScalar returns the little-endian encoding of v in a new buffer.
func EncodeScalar[T Numeric](v T) []byte {
	return AppendScalar(make([]byte, 0, ScalarWidth[T]()), v)
}

// DecodeScalar is the inverse of AppendScalar. b must hold ScalarWidth[T]()
// bytes.
func DecodeScalar[T Numeric](b []byte) (T, error) {
	var zero T
	if len(b) != ScalarWidth[T]() {
		return zero, errors.Newf(errors.ErrorTypeTypeMismatch, "%s needs %d bytes, got %d",
			ScalarType[T](), ScalarWidth[T](), len(b))
	}
	var out any
	switch any(zero).(type) {
	case int8:
		out = int8(b[0])
	case uint8:
		out = b[0]
	case int16:
		out = int16(binary.LittleEndian.Uint16(b))
	case uint16:
		out = binary.LittleEndian.Uint16(b)
	case int32:
		out = int32(binary.LittleEndian.Uint32(b))
	case uint32:
		out = binary.LittleEndian.Uint32(b)
	case int64:
		out = int64(binary.LittleEndian.Uint64(b))
	case uint64:
		out = binary.LittleEndian.Uint64(b)
	case float32:
		out = math.Float32frombits(binary.LittleEndian.Uint32(b))
	case float64:
		out = math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return out.(T), nil
}

// ScalarField converts v to a Field. Integers become Int and floats become
// Float. A uint64 above math.MaxInt64 has no Int representation.
func ScalarField[T Numeric](v T) (field.Field, error) {
	switch x := any(v).(type) {
	case float32:
		return field.Float(float64(x)), nil
	case float64:
		return field.Float(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return field.Null(), errors.Newf(errors.ErrorTypeTypeMismatch,
				"UInt64 value %d exceeds the Int field range", x)
		}
		return field.Int(int64(x)), nil
	}
	return field.Int(toInt64(v)), nil
}

func toInt64[T Numeric](v T) int64 {
	switch x := any(v).(type) {
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return int64(x)
	case float64:
		return int64(x)
	}
	return 0
}

package columnar

import "bytes"

// StringRef is a borrowed, read-only view over the bytes of one element.
//
// For string-like columns the view aliases column storage and is valid for
// as long as the column is. Callers must not modify the returned bytes.
type StringRef struct {
	data []byte
}

// NewStringRef returns a view over b.
func NewStringRef(b []byte) StringRef {
	return StringRef{data: b}
}

// Bytes returns the viewed bytes.
func (r StringRef) Bytes() []byte { return r.data }

// Len returns the number of viewed bytes.
func (r StringRef) Len() int { return len(r.data) }

// Empty reports whether the view has no bytes.
func (r StringRef) Empty() bool { return len(r.data) == 0 }

// String returns an owned copy of the viewed bytes.
func (r StringRef) String() string { return string(r.data) }

// Equal reports whether both views hold the same bytes.
func (r StringRef) Equal(other StringRef) bool { return bytes.Equal(r.data, other.data) }

package json

import (
	"io"

	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/field"
	"github.com/protondb/proton/pkg/pool"
)

// Layout selects how EncodeBlock frames rows.
type Layout string

const (
	// LayoutArray writes all rows as one JSON array.
	LayoutArray Layout = "array"
	// LayoutLines writes one JSON object per line.
	LayoutLines Layout = "lines"
)

// ParseLayout maps a user-facing name to a Layout. "jsonl" is accepted as
// an alias of "lines".
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "array":
		return LayoutArray, nil
	case "lines", "jsonl":
		return LayoutLines, nil
	default:
		return "", errors.Newf(errors.ErrorTypeValidation, "unknown json layout %q", s)
	}
}

// EncodeBlock writes every row of b as a JSON object keyed by column name.
//
// Array columns become JSON arrays and Dummy columns become null. Columns
// without a per-row value, such as AggregateFunction, fail the encoding.
func EncodeBlock(w io.Writer, b *columnar.Block, layout Layout) error {
	names := b.ColumnNames()
	keys := make([][]byte, len(names))
	for i, name := range names {
		key, err := Marshal(name)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "marshal column name")
		}
		keys[i] = key
	}
	cols := make([]columnar.Column, len(names))
	for i := range names {
		c, err := b.ColumnAt(i)
		if err != nil {
			return err
		}
		cols[i] = c
	}

	buf := pool.Buffers.Get(512)
	defer func() { pool.Buffers.Put(buf) }()

	if layout == LayoutArray {
		buf = append(buf, '[')
	}
	for n := 0; n < b.RowCount(); n++ {
		if layout == LayoutArray && n > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '{')
		for i, c := range cols {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, keys[i]...)
			buf = append(buf, ':')
			var err error
			if buf, err = AppendValue(buf, c, n); err != nil {
				return errors.Wrap(err, errors.TypeOf(err), "column "+names[i])
			}
		}
		buf = append(buf, '}')
		if layout == LayoutLines {
			buf = append(buf, '\n')
		}
		if len(buf) >= 64*1024 {
			if _, err := w.Write(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
	}
	if layout == LayoutArray {
		buf = append(buf, ']', '\n')
	}
	_, err := w.Write(buf)
	return err
}

// AppendValue appends the JSON encoding of row n of c to dst.
func AppendValue(dst []byte, c columnar.Column, n int) ([]byte, error) {
	switch col := c.(type) {
	case *columnar.Dummy:
		if n < 0 || n >= col.Size() {
			return dst, errors.OutOfBounds(col.FamilyName(), "AppendValue", n, col.Size())
		}
		return append(dst, "null"...), nil
	case *columnar.Nullable:
		isNull, err := col.IsNullAt(n)
		if err != nil {
			return dst, err
		}
		if isNull {
			return append(dst, "null"...), nil
		}
		return AppendValue(dst, col.Inner(), n)
	case *columnar.Const:
		if n < 0 || n >= col.Size() {
			return dst, errors.OutOfBounds(col.FamilyName(), "AppendValue", n, col.Size())
		}
		return AppendValue(dst, col.Inner(), 0)
	case *columnar.Array:
		start, end, err := col.Bounds(n)
		if err != nil {
			return dst, err
		}
		dst = append(dst, '[')
		for i := start; i < end; i++ {
			if i > start {
				dst = append(dst, ',')
			}
			if dst, err = AppendValue(dst, col.Nested(), i); err != nil {
				return dst, err
			}
		}
		return append(dst, ']'), nil
	}

	var f field.Field
	if err := c.Get(n, &f); err != nil {
		return dst, err
	}
	data, err := Marshal(f)
	if err != nil {
		return dst, errors.Wrap(err, errors.ErrorTypeInternal, "marshal field")
	}
	return append(dst, data...), nil
}

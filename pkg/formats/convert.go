package formats

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/errors"
)

const opExport = "ToArrow"

var scalarTypes = map[string]arrow.DataType{
	"Int8":    arrow.PrimitiveTypes.Int8,
	"Int16":   arrow.PrimitiveTypes.Int16,
	"Int32":   arrow.PrimitiveTypes.Int32,
	"Int64":   arrow.PrimitiveTypes.Int64,
	"UInt8":   arrow.PrimitiveTypes.Uint8,
	"UInt16":  arrow.PrimitiveTypes.Uint16,
	"UInt32":  arrow.PrimitiveTypes.Uint32,
	"UInt64":  arrow.PrimitiveTypes.Uint64,
	"Float32": arrow.PrimitiveTypes.Float32,
	"Float64": arrow.PrimitiveTypes.Float64,
}

// ArrowType returns the Arrow type a column exports as. Const and Sparse
// columns export as their materialized form; Nullable exports as its inner
// type with a validity bitmap.
func ArrowType(c columnar.Column) (arrow.DataType, error) {
	switch c.FamilyName() {
	case columnar.FamilyVector:
		dt, ok := scalarTypes[c.LogicalType()]
		if !ok {
			return nil, errors.Unsupported(c.FamilyName(), opExport)
		}
		return dt, nil
	case columnar.FamilyString:
		return arrow.BinaryTypes.Binary, nil
	case columnar.FamilyFixedString:
		fs, err := columnar.As[*columnar.FixedString](c)
		if err != nil {
			return nil, err
		}
		return &arrow.FixedSizeBinaryType{ByteWidth: fs.Width()}, nil
	case columnar.FamilyDecimal:
		d, err := columnar.As[*columnar.Decimal](c)
		if err != nil {
			return nil, err
		}
		return &arrow.Decimal128Type{Precision: int32(d.Precision()), Scale: int32(d.Scale())}, nil
	case columnar.FamilyNullable:
		n, err := columnar.As[*columnar.Nullable](c)
		if err != nil {
			return nil, err
		}
		return ArrowType(n.Inner())
	case columnar.FamilyArray:
		a, err := columnar.As[*columnar.Array](c)
		if err != nil {
			return nil, err
		}
		elem, err := ArrowType(a.Nested())
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(elem), nil
	case columnar.FamilyConst:
		k, err := columnar.As[*columnar.Const](c)
		if err != nil {
			return nil, err
		}
		return ArrowType(k.Inner())
	case columnar.FamilySparse:
		full, err := c.ToFullColumn()
		if err != nil {
			return nil, err
		}
		return ArrowType(full)
	case columnar.FamilyDummy:
		return arrow.Null, nil
	default:
		return nil, errors.Unsupported(c.FamilyName(), opExport)
	}
}

// ToArrow copies c into a new Arrow array allocated from mem. The caller
// owns the result and must Release it.
func ToArrow(mem memory.Allocator, c columnar.Column) (arrow.Array, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	full, err := c.ToFullColumn()
	if err != nil {
		return nil, err
	}
	dt, err := ArrowType(full)
	if err != nil {
		return nil, err
	}

	b := array.NewBuilder(mem, dt)
	defer b.Release()
	b.Reserve(full.Size())
	if err := appendRows(b, full, 0, full.Size(), nil); err != nil {
		return nil, err
	}
	return b.NewArray(), nil
}

// appendRows appends rows [lo, hi) of a materialized column. valid, when
// set, has one entry per row and marks the rows that are not null.
func appendRows(b array.Builder, c columnar.Column, lo, hi int, valid []bool) error {
	switch c := c.(type) {
	case *columnar.Vector[int8]:
		return appendVector(b, c, lo, hi, valid)
	case *columnar.Vector[int16]:
		return appendVector(b, c, lo, hi, valid)
	case *columnar.Vector[int32]:
		return appendVector(b, c, lo, hi, valid)
	case *columnar.Vector[int64]:
		return appendVector(b, c, lo, hi, valid)
	case *columnar.Vector[uint8]:
		return appendVector(b, c, lo, hi, valid)
	case *columnar.Vector[uint16]:
		return appendVector(b, c, lo, hi, valid)
	case *columnar.Vector[uint32]:
		return appendVector(b, c, lo, hi, valid)
	case *columnar.Vector[uint64]:
		return appendVector(b, c, lo, hi, valid)
	case *columnar.Vector[float32]:
		return appendVector(b, c, lo, hi, valid)
	case *columnar.Vector[float64]:
		return appendVector(b, c, lo, hi, valid)
	case *columnar.String, *columnar.FixedString:
		return appendBytes(b, c, lo, hi, valid)
	case *columnar.Decimal:
		db, ok := b.(*array.Decimal128Builder)
		if !ok {
			return builderMismatch(c, b)
		}
		data := c.Data()
		for n := lo; n < hi; n++ {
			if valid != nil && !valid[n-lo] {
				db.AppendNull()
				continue
			}
			db.Append(data[n])
		}
		return nil
	case *columnar.Nullable:
		nulls := c.NullMap()[lo:hi]
		inner := make([]bool, len(nulls))
		for i, isNull := range nulls {
			inner[i] = !isNull && (valid == nil || valid[i])
		}
		return appendRows(b, c.Inner(), lo, hi, inner)
	case *columnar.Array:
		lb, ok := b.(*array.ListBuilder)
		if !ok {
			return builderMismatch(c, b)
		}
		for n := lo; n < hi; n++ {
			if valid != nil && !valid[n-lo] {
				lb.AppendNull()
				continue
			}
			start, end, err := c.Bounds(n)
			if err != nil {
				return err
			}
			lb.Append(true)
			if err := appendRows(lb.ValueBuilder(), c.Nested(), start, end, nil); err != nil {
				return err
			}
		}
		return nil
	case *columnar.Dummy:
		b.AppendNulls(hi - lo)
		return nil
	default:
		return errors.Unsupported(c.FamilyName(), opExport)
	}
}

type valuesBuilder[T columnar.Numeric] interface {
	AppendValues(v []T, valid []bool)
}

func appendVector[T columnar.Numeric](b array.Builder, c *columnar.Vector[T], lo, hi int, valid []bool) error {
	vb, ok := b.(valuesBuilder[T])
	if !ok {
		return builderMismatch(c, b)
	}
	vb.AppendValues(c.Data()[lo:hi], valid)
	return nil
}

type bytesBuilder interface {
	array.Builder
	Append(v []byte)
}

func appendBytes(b array.Builder, c columnar.Column, lo, hi int, valid []bool) error {
	bb, ok := b.(bytesBuilder)
	if !ok {
		return builderMismatch(c, b)
	}
	for n := lo; n < hi; n++ {
		if valid != nil && !valid[n-lo] {
			bb.AppendNull()
			continue
		}
		ref, err := c.DataAt(n)
		if err != nil {
			return err
		}
		bb.Append(ref.Bytes())
	}
	return nil
}

func builderMismatch(c columnar.Column, b array.Builder) error {
	return errors.Newf(errors.ErrorTypeTypeMismatch, "cannot export %s into %s builder", c.Name(), b.Type())
}

// Schema returns the Arrow schema of a block. Nullable and Dummy columns,
// and constant columns over them, are nullable fields.
func Schema(b *columnar.Block) (*arrow.Schema, error) {
	names := b.ColumnNames()
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		c, err := b.ColumnAt(i)
		if err != nil {
			return nil, err
		}
		dt, err := ArrowType(c)
		if err != nil {
			return nil, errors.Wrap(err, errors.TypeOf(err), "column "+name)
		}
		fields[i] = arrow.Field{
			Name:     name,
			Type:     dt,
			Nullable: hasNulls(c),
		}
	}
	return arrow.NewSchema(fields, nil), nil
}

func hasNulls(c columnar.Column) bool {
	if k, ok := c.(*columnar.Const); ok {
		c = k.Inner()
	}
	return columnar.IsFamily(c, columnar.FamilyNullable) || columnar.IsFamily(c, columnar.FamilyDummy)
}

// ToRecord copies a block into an Arrow record batch. The caller must
// Release the record.
func ToRecord(mem memory.Allocator, b *columnar.Block) (arrow.Record, error) {
	schema, err := Schema(b)
	if err != nil {
		return nil, err
	}
	cols := make([]arrow.Array, 0, b.ColumnCount())
	defer func() {
		for _, a := range cols {
			a.Release()
		}
	}()
	for i, name := range b.ColumnNames() {
		c, err := b.ColumnAt(i)
		if err != nil {
			return nil, err
		}
		a, err := ToArrow(mem, c)
		if err != nil {
			return nil, errors.Wrap(err, errors.TypeOf(err), "column "+name)
		}
		cols = append(cols, a)
		if !schema.Field(i).Nullable && a.NullN() > 0 {
			return nil, errors.Newf(errors.ErrorTypeInternal, "column %s has %d nulls in a non-nullable field", name, a.NullN())
		}
	}
	return array.NewRecord(schema, cols, int64(b.RowCount())), nil
}

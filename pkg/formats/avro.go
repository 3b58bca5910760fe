package formats

import (
	"io"
	"math"
	"math/big"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/linkedin/goavro/v2"
	"go.uber.org/zap"

	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/json"
)

// avroRecordName names the record schema of every Avro file.
const avroRecordName = "block"

// avroWriter implements Writer for Avro object container files. Values go
// through the Arrow form of each block so both exporters agree on types.
type avroWriter struct {
	writer      io.Writer
	config      *WriterConfig
	compression string
	schema      *arrow.Schema
	fields      []avroField
	ocfWriter   *goavro.OCFWriter
	rowsWritten int64
}

func newAvroWriter(w io.Writer, config *WriterConfig) (*avroWriter, error) {
	compression, err := avroCompression(config.Compression)
	if err != nil {
		return nil, err
	}
	return &avroWriter{writer: w, config: config, compression: compression}, nil
}

func (aw *avroWriter) WriteBlock(b *columnar.Block) error {
	schema, err := checkSchema(aw.schema, b)
	if err != nil {
		return err
	}
	if aw.ocfWriter == nil {
		if err := aw.open(schema); err != nil {
			return err
		}
	}

	record, err := ToRecord(aw.config.Allocator, b)
	if err != nil {
		return err
	}
	defer record.Release()

	rows := make([]interface{}, record.NumRows())
	for n := range rows {
		row := make(map[string]interface{}, len(aw.fields))
		for i, f := range aw.fields {
			v, err := f.native(record.Column(i), n)
			if err != nil {
				return errors.Wrap(err, errors.TypeOf(err), "column "+f.name)
			}
			row[f.name] = v
		}
		rows[n] = row
	}
	if err := aw.ocfWriter.Append(rows); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "write avro block")
	}
	aw.rowsWritten += record.NumRows()
	aw.config.Logger.Debug("avro block written",
		zap.String("format", string(Avro)),
		zap.Int64("rows", record.NumRows()))
	return nil
}

func (aw *avroWriter) open(schema *arrow.Schema) error {
	fields := make([]avroField, schema.NumFields())
	specs := make([]map[string]interface{}, schema.NumFields())
	for i, f := range schema.Fields() {
		af, err := newAvroField(f.Name, f.Type, f.Nullable)
		if err != nil {
			return errors.Wrap(err, errors.TypeOf(err), "column "+f.Name)
		}
		fields[i] = af
		specs[i] = map[string]interface{}{"name": f.Name, "type": af.schema}
	}
	spec, err := json.Marshal(map[string]interface{}{
		"type":   "record",
		"name":   avroRecordName,
		"fields": specs,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "marshal avro schema")
	}
	codec, err := goavro.NewCodec(string(spec))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "invalid avro schema")
	}
	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               aw.writer,
		Codec:           codec,
		CompressionName: aw.compression,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "create avro writer")
	}
	aw.schema = schema
	aw.fields = fields
	aw.ocfWriter = ocf
	return nil
}

// Close is a no-op: every WriteBlock is a complete container block.
func (aw *avroWriter) Close() error { return nil }

func (aw *avroWriter) Format() Format     { return Avro }
func (aw *avroWriter) RowsWritten() int64 { return aw.rowsWritten }

func avroCompression(name string) (string, error) {
	switch name {
	case "", "none":
		return goavro.CompressionNullLabel, nil
	case "snappy":
		return goavro.CompressionSnappyLabel, nil
	case "deflate":
		return goavro.CompressionDeflateLabel, nil
	default:
		return "", errors.Newf(errors.ErrorTypeValidation, "avro: unsupported compression %q", name)
	}
}

// avroField maps one Arrow field to its Avro schema and native values.
type avroField struct {
	name string
	// schema is the JSON form of the Avro type.
	schema interface{}
	// branch names the type inside a union.
	branch   string
	nullable bool
	value    func(a arrow.Array, n int) (interface{}, error)
}

// native returns the goavro value of row n, wrapped in a union when the
// field is nullable.
func (f avroField) native(a arrow.Array, n int) (interface{}, error) {
	if a.IsNull(n) {
		if !f.nullable {
			return nil, errors.Newf(errors.ErrorTypeInternal, "null in non-nullable avro field %s", f.name)
		}
		return nil, nil
	}
	v, err := f.value(a, n)
	if err != nil || !f.nullable {
		return v, err
	}
	return goavro.Union(f.branch, v), nil
}

func newAvroField(name string, dt arrow.DataType, nullable bool) (avroField, error) {
	f, err := avroType(name, dt)
	if err != nil {
		return f, err
	}
	f.name = name
	// A null column is already nullable.
	if nullable && dt.ID() != arrow.NULL {
		f.nullable = true
		f.schema = []interface{}{"null", f.schema}
	}
	return f, nil
}

func avroType(name string, dt arrow.DataType) (avroField, error) {
	switch t := dt.(type) {
	case *arrow.Int8Type:
		return intField(func(a arrow.Array, n int) int32 { return int32(a.(*array.Int8).Value(n)) }), nil
	case *arrow.Int16Type:
		return intField(func(a arrow.Array, n int) int32 { return int32(a.(*array.Int16).Value(n)) }), nil
	case *arrow.Int32Type:
		return intField(func(a arrow.Array, n int) int32 { return a.(*array.Int32).Value(n) }), nil
	case *arrow.Uint8Type:
		return intField(func(a arrow.Array, n int) int32 { return int32(a.(*array.Uint8).Value(n)) }), nil
	case *arrow.Uint16Type:
		return intField(func(a arrow.Array, n int) int32 { return int32(a.(*array.Uint16).Value(n)) }), nil
	case *arrow.Int64Type:
		return longField(func(a arrow.Array, n int) (int64, error) { return a.(*array.Int64).Value(n), nil }), nil
	case *arrow.Uint32Type:
		return longField(func(a arrow.Array, n int) (int64, error) { return int64(a.(*array.Uint32).Value(n)), nil }), nil
	case *arrow.Uint64Type:
		return longField(func(a arrow.Array, n int) (int64, error) {
			v := a.(*array.Uint64).Value(n)
			if v > math.MaxInt64 {
				return 0, errors.Newf(errors.ErrorTypeTypeMismatch, "UInt64 value %d does not fit an avro long", v)
			}
			return int64(v), nil
		}), nil
	case *arrow.Float32Type:
		return avroField{schema: "float", branch: "float", value: func(a arrow.Array, n int) (interface{}, error) {
			return a.(*array.Float32).Value(n), nil
		}}, nil
	case *arrow.Float64Type:
		return avroField{schema: "double", branch: "double", value: func(a arrow.Array, n int) (interface{}, error) {
			return a.(*array.Float64).Value(n), nil
		}}, nil
	case *arrow.BinaryType:
		return avroField{schema: "bytes", branch: "bytes", value: func(a arrow.Array, n int) (interface{}, error) {
			return a.(*array.Binary).Value(n), nil
		}}, nil
	case *arrow.FixedSizeBinaryType:
		fixed := name + "_fixed"
		return avroField{
			schema: map[string]interface{}{"type": "fixed", "name": fixed, "size": t.ByteWidth},
			branch: fixed,
			value: func(a arrow.Array, n int) (interface{}, error) {
				return a.(*array.FixedSizeBinary).Value(n), nil
			},
		}, nil
	case *arrow.Decimal128Type:
		denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(t.Scale)), nil)
		return avroField{
			schema: map[string]interface{}{
				"type":        "bytes",
				"logicalType": "decimal",
				"precision":   t.Precision,
				"scale":       t.Scale,
			},
			branch: "bytes.decimal",
			value: func(a arrow.Array, n int) (interface{}, error) {
				return new(big.Rat).SetFrac(a.(*array.Decimal128).Value(n).BigInt(), denom), nil
			},
		}, nil
	case *arrow.ListType:
		item, err := newAvroField(name+"_item", t.Elem(), t.ElemField().Nullable)
		if err != nil {
			return avroField{}, err
		}
		return avroField{
			schema: map[string]interface{}{"type": "array", "items": item.schema},
			branch: "array",
			value: func(a arrow.Array, n int) (interface{}, error) {
				list := a.(*array.List)
				start, end := list.ValueOffsets(n)
				items := make([]interface{}, 0, end-start)
				for i := start; i < end; i++ {
					v, err := item.native(list.ListValues(), int(i))
					if err != nil {
						return nil, err
					}
					items = append(items, v)
				}
				return items, nil
			},
		}, nil
	case *arrow.NullType:
		return avroField{schema: "null", branch: "null", nullable: true, value: func(arrow.Array, int) (interface{}, error) {
			return nil, nil
		}}, nil
	default:
		return avroField{}, errors.Newf(errors.ErrorTypeUnsupportedOperation, "avro: unsupported arrow type %s", dt)
	}
}

func intField(get func(a arrow.Array, n int) int32) avroField {
	return avroField{schema: "int", branch: "int", value: func(a arrow.Array, n int) (interface{}, error) {
		return get(a, n), nil
	}}
}

func longField(get func(a arrow.Array, n int) (int64, error)) avroField {
	return avroField{schema: "long", branch: "long", value: func(a arrow.Array, n int) (interface{}, error) {
		return get(a, n)
	}}
}

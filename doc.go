// Package proton is the in-memory columnar storage layer of a SQL and
// streaming query engine.
//
// Data is held in typed columns, each a sequence of values of one logical
// type laid out in one of several physical encodings:
//
//   - Vector: fixed-width numbers in a contiguous slice
//   - String and FixedString: byte strings, variable and fixed width
//   - Nullable: any column plus a null map
//   - Array: variable length lists over a nested column
//   - Const: one value repeated for every row
//   - Decimal: scaled 128-bit integers
//   - Sparse: a default value plus the rows that differ from it
//   - AggregateFunction: opaque partial aggregation states
//   - Dummy: a row count with no values
//
// Every encoding implements the same column contract: element access as a
// Field (a tagged universal value), raw byte views (StringRef), numeric
// narrowing for numeric encodings, deep cloning and conversion of condensed
// encodings (Const, Sparse) to full columns.
//
// # Packages
//
//	pkg/columnar   column encodings, blocks and parallel scans
//	pkg/field      the Field universal value
//	pkg/errors     typed errors shared by every package
//	pkg/formats    Arrow IPC, Parquet and Avro export of blocks
//	pkg/json       JSON encoding of fields and blocks
//	pkg/config     YAML configuration with environment overrides
//	pkg/logger     zap logger construction and context fields
//	pkg/metrics    Prometheus collectors
//	pkg/pool       generic object and buffer pools
//	pkg/tracing    OpenTelemetry tracer provider and span helpers
//
// # Quick Start
//
//	col := columnar.NewVector([]int64{1, 2, 3, 4})
//	ref, _ := col.DataAt(1)     // little-endian bytes of 2
//	f, _ := col.FieldAt(1)      // field.Int(2)
//
//	one := columnar.NewVector([]int64{7})
//	repeated, _ := columnar.NewConst(one, 1000)
//	full, _ := repeated.ToFullColumn() // Vector of 1000 sevens
//
// The proton command (cmd/proton) walks through the encodings, inspects
// and exports sample blocks and benchmarks parallel scans:
//
//	go build -o bin/proton ./cmd/proton
//	./bin/proton demo
//	./bin/proton export --format parquet --out sample.parquet
package proton

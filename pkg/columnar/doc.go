// Package columnar implements proton's in-memory column representations.
//
// A Column is an ordered, fixed-length sequence of values in one physical
// encoding. Operators hold columns behind the Column interface and use one
// code path for size checks, null checks and Field extraction whatever the
// encoding. When an operator needs an encoding-specific fast path it
// downcasts with As.
//
// # Variants
//
//   - Vector[T]: dense fixed-width scalars
//   - String: variable-length bytes addressed through an offset table
//   - FixedString: byte strings of one fixed width
//   - Nullable: any non-nullable column plus a null map
//   - Array: variable-length lists over a nested column
//   - Const: one value repeated Size() times
//   - Decimal: scaled 128-bit integers
//   - Sparse[T]: non-default values plus their positions
//   - AggregateFunction: opaque per-row aggregation states
//   - Dummy: a row count with no data
//
// # Access
//
// FieldAt and Get return an owned field.Field. DataAt returns a StringRef
// over the bytes of one element: string-like variants return a view into
// column storage, numeric variants return their little-endian encoding.
// Uint64At, Float64At and Float32At are defined for Vector and Decimal
// only.
//
// Every accessor validates its index. A bad access returns an *errors.Error
// of type UnsupportedOperation, IndexOutOfBounds or TypeMismatch and never
// panics.
//
// # Lifecycle
//
// Columns are built by one goroutine through their Insert methods and are
// read-only once shared. Clone returns an independent deep copy.
// ToFullColumn is the only operation whose cost grows with the logical size
// of a Const or Sparse column.
//
// # Blocks and scans
//
// A Block groups named columns of equal length. Scan splits one column into
// row ranges and processes them concurrently:
//
//	err := columnar.Scan(ctx, col, columnar.ScanOptions{Workers: 4}, func(ctx context.Context, lo, hi int) error {
//	    for n := lo; n < hi; n++ {
//	        v, err := col.Float64At(n)
//	        if err != nil {
//	            return err
//	        }
//	        sum.Add(v)
//	    }
//	    return nil
//	})
package columnar

// Package pool provides typed object pooling for proton's hot read paths.
//
// Operators that walk a Block row by row extract one Field per column for
// every row. Allocating a fresh slice per row dominates that loop, so rows
// are drawn from a pool and handed back when the caller is done with them.
//
// Core Types:
//
//   - Pool[T]: generic pool built on sync.Pool with usage statistics
//   - Row: a reusable buffer holding one field.Field per column
//   - BufferPool: byte buffers in size buckets, used when encoding rows
//
// Usage Patterns
//
// Reading rows from a block:
//
//	row := pool.GetRow(block.ColumnCount())
//	defer pool.PutRow(row)
//
//	for n := 0; n < block.RowCount(); n++ {
//	    if err := block.ReadRow(n, row); err != nil {
//	        return err
//	    }
//	    process(row.Fields)
//	}
//
// Custom pools:
//
//	scratch := pool.New(
//	    func() *[]byte { b := make([]byte, 0, 64); return &b },
//	    func(b *[]byte) { *b = (*b)[:0] },
//	)
//
// All pools are safe for concurrent use. A pooled object must not be used
// after it has been returned.
package pool

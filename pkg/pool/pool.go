package pool

import (
	"sync"
	"sync/atomic"

	"github.com/protondb/proton/pkg/field"
)

// Pool is a generic object pool with type safety.
// It wraps sync.Pool with statistics tracking and an optional reset hook.
// The pool is safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
	stats struct {
		gets   int64
		inUse  int64
		misses int64
	}
}

// New creates a new typed pool. The new function is called when the pool
// is empty. The reset function, if any, is called on every object handed
// back with Put.
//
// Example:
//
//	p := New(
//	    func() *Buffer { return &Buffer{data: make([]byte, 0, 1024)} },
//	    func(b *Buffer) { b.data = b.data[:0] },
//	)
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.misses, 1)
		return new()
	}
	return p
}

// Get retrieves an object from the pool, allocating one if the pool is
// empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.gets, 1)
	atomic.AddInt64(&p.stats.inUse, 1)
	return p.pool.Get().(T)
}

// Put resets obj and returns it to the pool.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[T]) Stats() Stats {
	gets := atomic.LoadInt64(&p.stats.gets)
	misses := atomic.LoadInt64(&p.stats.misses)
	return Stats{
		Allocated: misses,
		InUse:     atomic.LoadInt64(&p.stats.inUse),
		Hits:      gets - misses,
		Misses:    misses,
	}
}

// Stats represents pool statistics for monitoring.
type Stats struct {
	// Allocated is the total number of objects created by the pool
	Allocated int64
	// InUse is the current number of objects checked out from the pool
	InUse int64
	// Hits is the number of Get calls served by a recycled object
	Hits int64
	// Misses is the number of times a new object had to be created
	Misses int64
}

// HitRate returns hits as a fraction of all gets.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Row is a reusable buffer holding one field per column.
type Row struct {
	Fields []field.Field
}

// Reset clears the row and sets its width, keeping the backing array when
// it is large enough.
func (r *Row) Reset(width int) {
	if cap(r.Fields) < width {
		r.Fields = make([]field.Field, width)
		return
	}
	r.Fields = r.Fields[:width]
	clear(r.Fields)
}

// Width returns the number of fields.
func (r *Row) Width() int { return len(r.Fields) }

var (
	// RowPool recycles Row buffers across scans.
	RowPool = New(
		func() *Row { return &Row{Fields: make([]field.Field, 0, 16)} },
		func(r *Row) { r.Reset(0) },
	)

	// Buffers is the shared byte buffer pool.
	Buffers = NewBufferPool()
)

// GetRow returns a pooled row of the given width with every field NULL.
func GetRow(width int) *Row {
	r := RowPool.Get()
	r.Reset(width)
	return r
}

// PutRow returns r to the pool. It is safe to pass nil.
func PutRow(r *Row) {
	if r == nil {
		return
	}
	RowPool.Put(r)
}

// BufferPool manages byte buffers in size buckets. It selects the smallest
// bucket that fits a request; larger requests are allocated directly.
type BufferPool struct {
	pools []*Pool[*[]byte]
	sizes []int
}

// NewBufferPool creates a buffer pool with buckets from 64B to 1MB.
// Column elements are small, so the buckets start well below a page.
func NewBufferPool() *BufferPool {
	sizes := []int{
		64,
		512,
		4096,
		65536,
		1048576,
	}

	pools := make([]*Pool[*[]byte], len(sizes))
	for i, size := range sizes {
		pools[i] = New(
			func() *[]byte {
				b := make([]byte, 0, size)
				return &b
			},
			func(b *[]byte) { *b = (*b)[:0] },
		)
	}
	return &BufferPool{pools: pools, sizes: sizes}
}

// Get returns an empty buffer with capacity of at least size.
func (p *BufferPool) Get(size int) []byte {
	for i, s := range p.sizes {
		if s >= size {
			return (*p.pools[i].Get())[:0]
		}
	}
	return make([]byte, 0, size)
}

// Put returns buf to the largest bucket it can serve, so buffers that grew
// past their bucket are still recycled. Buffers smaller than the first
// bucket or larger than four times the last are left to the garbage
// collector.
func (p *BufferPool) Put(buf []byte) {
	if cap(buf) > 4*p.sizes[len(p.sizes)-1] {
		return
	}
	for i := len(p.sizes) - 1; i >= 0; i-- {
		if cap(buf) >= p.sizes[i] {
			buf = buf[:0]
			p.pools[i].Put(&buf)
			return
		}
	}
}

// Stats sums the statistics of every bucket.
func (p *BufferPool) Stats() Stats {
	var total Stats
	for _, bucket := range p.pools {
		s := bucket.Stats()
		total.Allocated += s.Allocated
		total.InUse += s.InUse
		total.Hits += s.Hits
		total.Misses += s.Misses
	}
	return total
}

package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protondb/proton/pkg/field"
)

func TestPoolStats(t *testing.T) {
	p := New(func() *int { v := 0; return &v }, func(v *int) { *v = 0 })

	a := p.Get()
	*a = 5
	stats := p.Stats()
	assert.Equal(t, int64(1), stats.InUse)
	assert.Equal(t, int64(1), stats.Misses)

	p.Put(a)
	assert.Equal(t, 0, *a)
	assert.Equal(t, int64(0), p.Stats().InUse)
}

func TestRowReset(t *testing.T) {
	r := &Row{}
	r.Reset(3)
	require.Len(t, r.Fields, 3)
	for _, f := range r.Fields {
		assert.True(t, f.IsNull())
	}

	r.Fields[1] = field.Int(9)
	r.Reset(2)
	require.Equal(t, 2, r.Width())
	assert.True(t, r.Fields[1].IsNull())
}

func TestGetRowIsCleared(t *testing.T) {
	r := GetRow(2)
	r.Fields[0] = field.String("x")
	PutRow(r)

	r = GetRow(2)
	defer PutRow(r)
	assert.True(t, r.Fields[0].IsNull())
	assert.True(t, r.Fields[1].IsNull())

	PutRow(nil)
}

func TestBufferPool(t *testing.T) {
	p := NewBufferPool()

	buf := p.Get(100)
	assert.Empty(t, buf)
	assert.Equal(t, 512, cap(buf))
	buf = append(buf, "abc"...)
	p.Put(buf)

	big := p.Get(2 << 20)
	assert.GreaterOrEqual(t, cap(big), 2<<20)
	p.Put(big)
}

func TestBufferPoolKeepsGrownBuffers(t *testing.T) {
	p := NewBufferPool()

	buf := p.Get(100)
	require.Equal(t, 512, cap(buf))
	buf = append(buf, make([]byte, 600)...)
	require.Greater(t, cap(buf), 512)
	assert.Equal(t, int64(1), p.Stats().InUse)

	p.Put(buf)
	assert.Equal(t, int64(0), p.Stats().InUse)

	for _, size := range []int{64, 512, 4096} {
		got := p.Get(size)
		assert.GreaterOrEqual(t, cap(got), size)
		assert.Empty(t, got)
		p.Put(got)
	}
	assert.Equal(t, int64(0), p.Stats().InUse)

	p.Put(make([]byte, 0, 16))
	p.Put(make([]byte, 0, 8<<20))
	assert.Equal(t, int64(0), p.Stats().InUse)
}

func TestStatsHitRate(t *testing.T) {
	assert.Zero(t, Stats{}.HitRate())
	assert.InDelta(t, 0.75, Stats{Hits: 3, Misses: 1}.HitRate(), 1e-9)
}

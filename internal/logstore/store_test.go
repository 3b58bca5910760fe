package logstore

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/protondb/proton/pkg/errors"
)

func TestAppendGetRemove(t *testing.T) {
	s := New(nil)

	s.Append(1, Entry{Term: 1, Data: "Log entry data"})
	assert.Equal(t, 1, s.Size())

	e, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, int32(1), e.Term)
	assert.Equal(t, "Log entry data", e.Data)

	_, ok = s.Get(2)
	assert.False(t, ok)

	assert.True(t, s.Remove(1))
	assert.False(t, s.Remove(1))
	assert.Equal(t, 0, s.Size())
}

func TestAppendReplaces(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := New(zap.New(core))

	s.Append(7, Entry{Term: 1, Data: "a"})
	s.Append(7, Entry{Term: 2, Data: "b"})

	e, _ := s.Get(7)
	assert.Equal(t, Entry{Term: 2, Data: "b"}, e)
	assert.Equal(t, 1, s.Size())

	appended := logs.FilterMessage("log entry appended").All()
	require.Len(t, appended, 2)
	assert.Equal(t, true, appended[1].ContextMap()["replaced"])
}

func TestIndexesSorted(t *testing.T) {
	s := New(nil)
	for _, i := range []int32{5, -1, 3} {
		s.Append(i, Entry{Term: i})
	}
	assert.Equal(t, []int32{-1, 3, 5}, s.Indexes())
}

func TestConcurrentAccess(t *testing.T) {
	s := New(nil)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				index := int32(w*100 + i)
				s.Append(index, Entry{Term: int32(w)})
				_, _ = s.Get(index)
				_ = s.Size()
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, 800, s.Size())
}

func TestEncodeDecode(t *testing.T) {
	s := New(nil)
	s.Append(2, Entry{Term: 1, Data: "second"})
	s.Append(1, Entry{Term: 1, Data: "first"})

	var buf bytes.Buffer
	require.NoError(t, s.Encode(&buf))
	assert.JSONEq(t,
		`{"entries":[{"index":1,"term":1,"data":"first"},{"index":2,"term":1,"data":"second"}]}`,
		buf.String())

	restored := New(nil)
	restored.Append(9, Entry{Data: "stale"})
	require.NoError(t, restored.Decode(&buf))
	assert.Equal(t, []int32{1, 2}, restored.Indexes())
	e, _ := restored.Get(2)
	assert.Equal(t, "second", e.Data)
}

func TestDecodeRejectsBadSnapshots(t *testing.T) {
	s := New(nil)
	s.Append(1, Entry{Data: "keep"})

	err := s.Decode(strings.NewReader(`{"entries":[{"index":1},{"index":1}]}`))
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	err = s.Decode(strings.NewReader(`not json`))
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	e, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "keep", e.Data)
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")

	s := New(nil)
	s.Append(4, Entry{Term: 3, Data: "x"})
	require.NoError(t, s.SaveFile(path))

	loaded := New(nil)
	require.NoError(t, loaded.LoadFile(path))
	e, ok := loaded.Get(4)
	require.True(t, ok)
	assert.Equal(t, Entry{Term: 3, Data: "x"}, e)

	empty := New(nil)
	require.NoError(t, empty.LoadFile(filepath.Join(t.TempDir(), "missing.json")))
	assert.Equal(t, 0, empty.Size())
}

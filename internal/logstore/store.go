// Package logstore provides an in-memory, index-addressed store of log
// entries with JSON snapshots.
package logstore

import (
	"io"
	"os"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/json"
	"github.com/protondb/proton/pkg/logger"
)

// Entry is one replicated log record.
type Entry struct {
	Term int32  `json:"term"`
	Data string `json:"data"`
}

// Store maps log indexes to entries. It is safe for concurrent use.
type Store struct {
	entries map[int32]Entry
	mu      sync.RWMutex
	logger  *zap.Logger
}

// New creates an empty store. A nil logger discards events.
func New(log *zap.Logger) *Store {
	return &Store{
		entries: make(map[int32]Entry),
		logger:  logger.OrNop(log),
	}
}

// Append stores e at index, replacing any entry already there.
func (s *Store) Append(index int32, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, replaced := s.entries[index]
	s.entries[index] = e
	s.logger.Debug("log entry appended",
		zap.Int32("index", index),
		zap.Int32("term", e.Term),
		zap.Bool("replaced", replaced))
}

// Get returns the entry at index.
func (s *Store) Get(index int32) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[index]
	return e, ok
}

// Remove deletes the entry at index and reports whether there was one.
func (s *Store) Remove(index int32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[index]
	delete(s.entries, index)
	return ok
}

// Size returns the number of stored entries.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Indexes returns the stored indexes in increasing order.
func (s *Store) Indexes() []int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int32, 0, len(s.entries))
	for index := range s.entries {
		out = append(out, index)
	}
	slices.Sort(out)
	return out
}

type snapshotEntry struct {
	Index int32 `json:"index"`
	Entry
}

type snapshot struct {
	Entries []snapshotEntry `json:"entries"`
}

// Encode writes the store as a JSON snapshot ordered by index.
func (s *Store) Encode(w io.Writer) error {
	s.mu.RLock()
	snap := snapshot{Entries: make([]snapshotEntry, 0, len(s.entries))}
	for index, e := range s.entries {
		snap.Entries = append(snap.Entries, snapshotEntry{Index: index, Entry: e})
	}
	s.mu.RUnlock()

	slices.SortFunc(snap.Entries, func(a, b snapshotEntry) int { return int(a.Index) - int(b.Index) })
	if err := json.MarshalToWriter(w, snap); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "encode log snapshot")
	}
	return nil
}

// Decode replaces the contents of the store with a snapshot written by
// Encode.
func (s *Store) Decode(r io.Reader) error {
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "decode log snapshot")
	}

	entries := make(map[int32]Entry, len(snap.Entries))
	for _, se := range snap.Entries {
		if _, dup := entries[se.Index]; dup {
			return errors.Newf(errors.ErrorTypeValidation, "duplicate log index %d in snapshot", se.Index)
		}
		entries[se.Index] = se.Entry
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// SaveFile writes a snapshot to path.
func (s *Store) SaveFile(path string) error {
	f, err := os.Create(path) //nolint:gosec // G304: path comes from configuration
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "create log snapshot")
	}
	if err := s.Encode(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "close log snapshot")
	}
	s.logger.Info("log snapshot saved", zap.String("path", path), zap.Int("entries", s.Size()))
	return nil
}

// LoadFile restores the store from the snapshot at path. A missing file
// leaves the store empty.
func (s *Store) LoadFile(path string) error {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from configuration
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "open log snapshot")
	}
	defer f.Close()

	if err := s.Decode(f); err != nil {
		return err
	}
	s.logger.Info("log snapshot loaded", zap.String("path", path), zap.Int("entries", s.Size()))
	return nil
}

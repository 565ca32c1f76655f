// Package history holds the bounded, deduplicated, most-recently-used list of
// clipboard entries.
//
// A Store is not safe for concurrent use. It is owned by a single goroutine
// (the daemon engine loop) which performs every mutation.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/berrythewa/clipstack/internal/types"
)

// DefaultCapacity is the number of entries kept when no capacity is configured
const DefaultCapacity = 10

// Store is the ordered history; index 0 is the most recently used entry.
type Store struct {
	entries  []types.ClipEntry
	capacity int

	newID func() string
	now   func() time.Time
}

// New creates a store with the given capacity, hydrated from initial.
// Initial entries are deduplicated (first occurrence wins) and truncated.
func New(capacity int, initial []types.ClipEntry) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{
		entries:  make([]types.ClipEntry, 0, capacity+1),
		capacity: capacity,
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, e := range initial {
		if len(s.entries) == capacity {
			break
		}
		if s.indexOf(e.Payload) >= 0 {
			continue
		}
		if e.ID == "" {
			e.ID = s.newID()
		}
		s.entries = append(s.entries, e)
	}
	return s
}

// Capacity returns the maximum number of entries
func (s *Store) Capacity() int {
	return s.capacity
}

// Len returns the current number of entries
func (s *Store) Len() int {
	return len(s.entries)
}

// Insert removes any entry content-equal to p, prepends a new entry for p and
// truncates the tail to capacity. It returns the new entry.
func (s *Store) Insert(p types.ClipPayload) types.ClipEntry {
	if i := s.indexOf(p); i >= 0 {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
	}

	entry := types.ClipEntry{
		ID:       s.newID(),
		Payload:  p,
		Captured: s.now(),
	}
	s.entries = append(s.entries, types.ClipEntry{})
	copy(s.entries[1:], s.entries)
	s.entries[0] = entry

	if len(s.entries) > s.capacity {
		clear(s.entries[s.capacity:])
		s.entries = s.entries[:s.capacity]
	}
	return entry
}

// Promote moves the first entry content-equal to e to index 0.
// It reports whether the order changed.
func (s *Store) Promote(e types.ClipEntry) bool {
	i := s.indexOf(e.Payload)
	if i <= 0 {
		return false
	}
	moved := s.entries[i]
	copy(s.entries[1:i+1], s.entries[:i])
	s.entries[0] = moved
	return true
}

// Clear removes every entry
func (s *Store) Clear() {
	clear(s.entries)
	s.entries = s.entries[:0]
}

// Snapshot returns a copy of the entries in MRU order
func (s *Store) Snapshot() []types.ClipEntry {
	out := make([]types.ClipEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// At returns the entry at index i
func (s *Store) At(i int) (types.ClipEntry, bool) {
	if i < 0 || i >= len(s.entries) {
		return types.ClipEntry{}, false
	}
	return s.entries[i], true
}

// Find returns the entry with the given ID
func (s *Store) Find(id string) (types.ClipEntry, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return types.ClipEntry{}, false
}

func (s *Store) indexOf(p types.ClipPayload) int {
	for i, e := range s.entries {
		if e.Payload.SameContent(p) {
			return i
		}
	}
	return -1
}

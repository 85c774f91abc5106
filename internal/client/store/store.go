// Package store holds the client's authoritative in-memory view of the
// dive entry collection and the deterministic merge rules that keep it
// consistent under optimistic writes and pushed snapshots.
package store

import (
	"sort"
	"sync"

	"github.com/orcadive/divelog/internal/client/models"
)

// Listener is notified after every mutation that changed store contents.
type Listener func()

// Store is the reconciliation store. It is not a network client; the sync
// controller is the only writer, the presentation layer only reads.
//
// Snapshot deliveries are tagged with a monotonically increasing sequence
// number at the controller boundary. ReplaceAll discards any snapshot whose
// sequence is not strictly greater than the last applied one, so a slow,
// out-of-order delivery can never overwrite newer state.
type Store struct {
	mu        sync.Mutex
	entries   map[string]*models.DiveEntry
	lastSeq   uint64
	listeners map[int]Listener
	nextLisID int
}

func New() *Store {
	return &Store{
		entries:   make(map[string]*models.DiveEntry),
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers a listener and returns its unsubscribe function.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextLisID
	s.nextLisID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notifyLocked() []Listener {
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	return ls
}

// ReplaceAll applies a full snapshot: after it returns true, store contents
// equal exactly the given set by id. Malformed entries are filtered out
// rather than admitted. Returns false if the snapshot is stale (sequence
// not strictly greater than the last applied) and was discarded.
func (s *Store) ReplaceAll(seq uint64, entries []*models.DiveEntry) bool {
	s.mu.Lock()
	if seq <= s.lastSeq {
		s.mu.Unlock()
		return false
	}
	s.lastSeq = seq

	next := make(map[string]*models.DiveEntry, len(entries))
	for _, e := range entries {
		if e == nil || e.Validate() != nil {
			continue
		}
		// First occurrence of an id wins within a single snapshot.
		if _, ok := next[e.ID]; ok {
			continue
		}
		next[e.ID] = e.Clone()
	}
	s.entries = next
	ls := s.notifyLocked()
	s.mu.Unlock()

	for _, l := range ls {
		l()
	}
	return true
}

// ApplyOptimisticInsert inserts immediately, before network confirmation.
// If an entry with the same id already exists (a same-tick snapshot got
// there first), the insert is a no-op: first writer by id wins locally.
func (s *Store) ApplyOptimisticInsert(e *models.DiveEntry) bool {
	s.mu.Lock()
	if _, ok := s.entries[e.ID]; ok {
		s.mu.Unlock()
		return false
	}
	s.entries[e.ID] = e.Clone()
	ls := s.notifyLocked()
	s.mu.Unlock()

	for _, l := range ls {
		l()
	}
	return true
}

// ApplyOptimisticUpdate replaces the entry with the same id in place.
// No-op if the id is absent.
func (s *Store) ApplyOptimisticUpdate(e *models.DiveEntry) bool {
	s.mu.Lock()
	if _, ok := s.entries[e.ID]; !ok {
		s.mu.Unlock()
		return false
	}
	s.entries[e.ID] = e.Clone()
	ls := s.notifyLocked()
	s.mu.Unlock()

	for _, l := range ls {
		l()
	}
	return true
}

// ApplyOptimisticDelete removes the entry by id. No-op if absent.
func (s *Store) ApplyOptimisticDelete(id string) bool {
	s.mu.Lock()
	if _, ok := s.entries[id]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.entries, id)
	ls := s.notifyLocked()
	s.mu.Unlock()

	for _, l := range ls {
		l()
	}
	return true
}

// Rollback reverts an optimistic mutation after its network request failed.
// previous == nil removes the speculative record (failed insert); otherwise
// the pre-optimistic value is restored (failed update or delete). Rollback
// never fires merely because a snapshot has not caught up yet.
func (s *Store) Rollback(id string, previous *models.DiveEntry) {
	s.mu.Lock()
	if previous == nil {
		delete(s.entries, id)
	} else {
		s.entries[id] = previous.Clone()
	}
	ls := s.notifyLocked()
	s.mu.Unlock()

	for _, l := range ls {
		l()
	}
}

// Clear empties the store and resets the snapshot sequence. Used on
// identity change so no residual entries of a previous user survive.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]*models.DiveEntry)
	s.lastSeq = 0
	ls := s.notifyLocked()
	s.mu.Unlock()

	for _, l := range ls {
		l()
	}
}

// Get returns a copy of the entry with the given id.
func (s *Store) Get(id string) (*models.DiveEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return e.Clone(), true
}

// Entries returns copies of all entries, newest first by CreatedAt
// (ties broken by id for a stable order).
func (s *Store) Entries() []*models.DiveEntry {
	s.mu.Lock()
	out := make([]*models.DiveEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Clone())
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Len returns the number of entries currently held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// LastSeq returns the sequence number of the last applied snapshot.
func (s *Store) LastSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeq
}

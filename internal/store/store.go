// Package store holds the process-lifetime, append-only sequence of records.
package store

import (
	"slices"
	"sync"

	"recordbook/internal/model"
)

// Subscriber receives the full snapshot taken right after an append. The
// appended record is the last element.
type Subscriber func(snapshot []model.Record)

// Store is an ordered, append-only record accumulator safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records []model.Record
	subs    map[uint64]Subscriber
	nextID  uint64
}

// New returns an empty Store.
func New() *Store {
	return &Store{subs: make(map[uint64]Subscriber)}
}

// Append adds rec to the end of the sequence and notifies every subscriber.
// No validation happens here.
func (s *Store) Append(rec model.Record) {
	s.mu.Lock()
	s.records = append(s.records, rec)
	snapshot := slices.Clone(s.records)
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	// Callbacks run unlocked so they may read the store back.
	for _, fn := range subs {
		fn(snapshot)
	}
}

// All returns a copy of the current sequence in insertion order.
func (s *Store) All() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Subscribe registers fn for append notifications. The returned function
// removes it and may be called more than once.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

package stepper

import (
	"fmt"
	"strings"
	"sync"
)

// Listener receives a snapshot after every store mutation.
type Listener func(FormState)

// Store is plain storage for tab field values. It performs no validation.
// Every mutation builds a new FormState and hands the listener a private
// copy, so callers never alias the stored maps.
type Store struct {
	mu       sync.RWMutex
	state    FormState
	listener Listener
}

// NewStore seeds the store with a copy of initial.
func NewStore(initial FormState, listener Listener) *Store {
	return &Store{state: initial.Clone(), listener: listener}
}

// Len reports the number of tabs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() FormState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Get returns a field value, or "" when the field was never written.
func (s *Store) Get(tab int, name string) any {
	value, ok := s.Lookup(tab, name)
	if !ok {
		return ""
	}
	return value
}

// Lookup returns a field value and whether it was ever written.
func (s *Store) Lookup(tab int, name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Lookup(tab, name)
}

// Set writes one field and returns the new state.
func (s *Store) Set(tab int, name string, value any) (FormState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyField
	}
	s.mu.Lock()
	if tab < 0 || tab >= len(s.state) {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", ErrOutOfRange, tab)
	}
	s.state = s.state.with(tab, name, value)
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.notify(snapshot)
	return snapshot, nil
}

// Replace swaps in a copy of state.
func (s *Store) Replace(state FormState) FormState {
	s.mu.Lock()
	s.state = state.Clone()
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.notify(snapshot)
	return snapshot
}

// Reset empties every tab while keeping the tab count.
func (s *Store) Reset() FormState {
	s.mu.Lock()
	s.state = NewFormState(len(s.state))
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.notify(snapshot)
	return snapshot
}

// mutate applies fn to the current state under the write lock. fn must not
// modify its argument in place.
func (s *Store) mutate(fn func(FormState) FormState) FormState {
	s.mu.Lock()
	s.state = fn(s.state)
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.notify(snapshot)
	return snapshot
}

func (s *Store) notify(snapshot FormState) {
	if s.listener != nil {
		s.listener(snapshot)
	}
}

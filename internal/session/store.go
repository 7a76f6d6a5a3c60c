// Package session holds the single source of truth for "who is logged in"
// within one browser session.
package session

import (
	"sync"

	"github.com/handson-community/handson-web/internal/domain"
)

// Listener receives every identity change, including transitions to nil
// (signed out).
type Listener func(*domain.Identity)

// Store caches the current authenticated identity and notifies subscribers
// on every change. All identity mutation in the application goes through
// Set; nothing else writes identity state.
type Store struct {
	mu        sync.Mutex
	current   *domain.Identity
	listeners map[int]Listener
	nextID    int
}

func New() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// Current returns the cached identity, nil when signed out.
func (s *Store) Current() *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the cached identity and notifies every subscriber with the
// exact value. Listeners run synchronously under the store lock so that all
// subscribers observe the same sequence of values; they must not call back
// into the store.
func (s *Store) Set(identity *domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = identity
	for _, l := range s.listeners {
		l(identity)
	}
}

// Subscribe registers a listener and returns its unsubscribe func. The
// listener is invoked immediately with the current value, so a late
// subscriber never starts from stale state.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	l(s.current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

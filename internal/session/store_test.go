package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handson-community/handson-web/internal/domain"
)

func TestStore_SetNotifiesExactSequence(t *testing.T) {
	s := New()

	var seen []*domain.Identity
	unsubscribe := s.Subscribe(func(id *domain.Identity) {
		seen = append(seen, id)
	})
	defer unsubscribe()

	alice := &domain.Identity{ID: "u1", Email: "alice@example.com"}
	bob := &domain.Identity{ID: "u2", Email: "bob@example.com"}

	s.Set(alice)
	s.Set(bob)
	s.Set(nil) // sign-out is a real event, not a drop

	require.Len(t, seen, 4) // initial nil + three changes
	assert.Nil(t, seen[0])
	assert.Equal(t, alice, seen[1])
	assert.Equal(t, bob, seen[2])
	assert.Nil(t, seen[3])
}

func TestStore_LateSubscriberSeesCurrentValue(t *testing.T) {
	s := New()
	alice := &domain.Identity{ID: "u1"}
	s.Set(alice)

	var first *domain.Identity
	called := false
	unsubscribe := s.Subscribe(func(id *domain.Identity) {
		if !called {
			first = id
			called = true
		}
	})
	defer unsubscribe()

	require.True(t, called)
	assert.Equal(t, alice, first)
}

func TestStore_UnsubscribeStopsNotifications(t *testing.T) {
	s := New()

	count := 0
	unsubscribe := s.Subscribe(func(*domain.Identity) { count++ })
	require.Equal(t, 1, count) // initial emission

	unsubscribe()
	s.Set(&domain.Identity{ID: "u1"})

	assert.Equal(t, 1, count)
}

func TestStore_CurrentReflectsLastSet(t *testing.T) {
	s := New()
	assert.Nil(t, s.Current())

	id := &domain.Identity{ID: "u1"}
	s.Set(id)
	assert.Equal(t, id, s.Current())

	s.Set(nil)
	assert.Nil(t, s.Current())
}

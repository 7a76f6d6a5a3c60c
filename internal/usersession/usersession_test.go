package usersession

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handson-community/handson-web/internal/dashboard"
	"github.com/handson-community/handson-web/internal/session"
)

func testFactory() Factory {
	return func(id string) *UserSession {
		return &UserSession{ID: id, Store: session.New(), Reg: dashboard.NewState()}
	}
}

func TestManagerGetCreatesAndReuses(t *testing.T) {
	m := NewManager(testFactory(), time.Hour, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	first := m.Get(w, r)
	require.NotNil(t, first)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, first.ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	// same cookie, same aggregate
	r2 := httptest.NewRequest("GET", "/", nil)
	r2.AddCookie(cookies[0])
	second := m.Get(httptest.NewRecorder(), r2)
	assert.Same(t, first, second)
	assert.Equal(t, 1, m.Len())
}

func TestManagerPeek(t *testing.T) {
	m := NewManager(testFactory(), time.Hour, false)

	r := httptest.NewRequest("GET", "/", nil)
	_, ok := m.Peek(r)
	assert.False(t, ok, "peek must not create sessions")

	w := httptest.NewRecorder()
	sess := m.Get(w, r)

	r2 := httptest.NewRequest("GET", "/", nil)
	r2.AddCookie(w.Result().Cookies()[0])
	got, ok := m.Peek(r2)
	require.True(t, ok)
	assert.Same(t, sess, got)
}

func TestManagerDrop(t *testing.T) {
	m := NewManager(testFactory(), time.Hour, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	sess := m.Get(w, r)
	require.Equal(t, 1, m.Len())

	m.Drop(sess.ID)
	assert.Equal(t, 0, m.Len())

	// stale cookie now yields a fresh aggregate
	r2 := httptest.NewRequest("GET", "/", nil)
	r2.AddCookie(w.Result().Cookies()[0])
	fresh := m.Get(httptest.NewRecorder(), r2)
	assert.NotSame(t, sess, fresh)
	assert.NotEqual(t, sess.ID, fresh.ID)
}

func TestManagerSweep(t *testing.T) {
	m := NewManager(testFactory(), 10*time.Millisecond, false)

	m.Get(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	m.Get(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	require.Equal(t, 2, m.Len())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, m.sweep())
	assert.Equal(t, 0, m.Len())
}

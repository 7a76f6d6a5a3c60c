// Package usersession keeps one auth/API aggregate per browser session.
//
// The backend API is consumed on behalf of individual visitors, so every
// browser gets its own apiclient (own cookie jar), its own credential
// provider and its own session store, looked up by an opaque cookie.
package usersession

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/handson-community/handson-web/internal/apiclient"
	"github.com/handson-community/handson-web/internal/authgw"
	"github.com/handson-community/handson-web/internal/dashboard"
	"github.com/handson-community/handson-web/internal/logger"
	"github.com/handson-community/handson-web/internal/session"
)

const CookieName = "hs_session"

// UserSession is the per-visitor aggregate: credential provider, session
// store, API client and the registration state for the dashboard.
type UserSession struct {
	ID       string
	Store    *session.Store
	Provider *authgw.Provider
	API      *apiclient.Client
	Reg      *dashboard.State
}

// Factory builds a fresh aggregate. Split out so handler tests can
// substitute one backed by httptest servers.
type Factory func(id string) *UserSession

// NewFactory wires a production aggregate against the given backends.
func NewFactory(apiBaseURL, authBaseURL, anonKey string) Factory {
	return func(id string) *UserSession {
		api := apiclient.New(apiBaseURL)
		store := session.New()
		auth := authgw.NewGoTrueClient(authBaseURL, anonKey)
		provider := authgw.NewProvider(auth, api, store)
		api.SetCredentialSource(provider)
		provider.Init(context.Background())

		return &UserSession{
			ID:       id,
			Store:    store,
			Provider: provider,
			API:      api,
			Reg:      dashboard.NewState(),
		}
	}
}

type entry struct {
	sess     *UserSession
	lastSeen time.Time
}

// Manager is the in-memory registry of live browser sessions.
type Manager struct {
	factory Factory
	ttl     time.Duration
	secure  bool

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewManager(factory Factory, ttl time.Duration, secureCookies bool) *Manager {
	return &Manager{
		factory:  factory,
		ttl:      ttl,
		secure:   secureCookies,
		sessions: make(map[string]*entry),
	}
}

// Get returns the aggregate for the request's session cookie, creating
// both when missing. It always refreshes the cookie and the idle timer.
func (m *Manager) Get(w http.ResponseWriter, r *http.Request) *UserSession {
	var id string
	if c, err := r.Cookie(CookieName); err == nil {
		id = c.Value
	}

	m.mu.Lock()
	if e, ok := m.sessions[id]; ok {
		e.lastSeen = time.Now()
		m.mu.Unlock()
		m.setCookie(w, id)
		return e.sess
	}
	m.mu.Unlock()

	// build outside the lock, backends may be slow
	id = uuid.NewString()
	sess := m.factory(id)

	m.mu.Lock()
	m.sessions[id] = &entry{sess: sess, lastSeen: time.Now()}
	m.mu.Unlock()

	m.setCookie(w, id)
	return sess
}

// Peek returns the existing aggregate without creating one.
func (m *Manager) Peek(r *http.Request) (*UserSession, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[c.Value]
	if !ok {
		return nil, false
	}
	e.lastSeen = time.Now()
	return e.sess, true
}

// Drop removes a session from the registry, e.g. after sign-out.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *Manager) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
}

// StartBackgroundSweep evicts idle sessions until ctx is cancelled.
func (m *Manager) StartBackgroundSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.sweep(); n > 0 {
					logger.Log.Debug("evicted idle sessions", "count", n)
				}
			}
		}
	}()
}

func (m *Manager) sweep() int {
	cutoff := time.Now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	var evicted int
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Len reports how many sessions are live, used by metrics.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

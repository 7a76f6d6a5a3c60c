package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handson-community/handson-web/internal/domain"
	"github.com/handson-community/handson-web/internal/middleware"
)

func futureEvent(id string) domain.Event {
	start := time.Now().Add(48 * time.Hour)
	end := start.Add(2 * time.Hour)
	return domain.Event{
		ID:        id,
		Title:     "Park cleanup",
		Category:  "environment",
		CreatedBy: "organizer-1",
		StartTime: &start,
		EndTime:   &end,
	}
}

func TestEventsGetRendersList(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/events", r.URL.Path)
		assert.Equal(t, "environment", r.URL.Query().Get("category"))
		json.NewEncoder(w).Encode(map[string]any{
			"events": []domain.Event{futureEvent("e1"), futureEvent("e2")},
		})
	})
	ha := newHarness(t, backend, true)

	r := httptest.NewRequest("GET", "/events?category=environment", nil)
	w := ha.serve(ha.handler.EventsGetHandler, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "events n=2")
}

func TestEventGetShowsOwnership(t *testing.T) {
	event := futureEvent("e1")
	event.CreatedBy = "u1" // the signed-in test user
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/events/e1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"event": event})
	})
	ha := newHarness(t, backend, true)

	router := chi.NewRouter()
	router.Use(middleware.WithSession(ha.sessions))
	router.Get("/events/{id}", ha.handler.EventGetHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/events/e1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "canedit=true")
}

func TestEventRegisterReconcilesDashboard(t *testing.T) {
	event := futureEvent("e1")
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/events/e1/register", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusOK)
	})
	ha := newHarness(t, backend, true)

	router := chi.NewRouter()
	router.Use(middleware.WithSession(ha.sessions))
	router.Post("/events/{id}/register", ha.handler.EventRegisterPostHandler)

	// seed the session's collections the way a prior dashboard load would
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/events/e1/register", nil)
	router.ServeHTTP(w, r)

	sessCookie := w.Result().Cookies()
	require.NotEmpty(t, sessCookie)
	sess, ok := ha.sessions.Peek(requestWithCookies(sessCookie))
	require.True(t, ok)

	sess.Reg.Load(nil, nil, []domain.Event{event})

	// replay with the same browser session so state accumulates
	w2 := httptest.NewRecorder()
	r2 := httptest.NewRequest("POST", "/events/e1/register", nil)
	for _, c := range sessCookie {
		r2.AddCookie(c)
	}
	router.ServeHTTP(w2, r2)

	require.Equal(t, http.StatusSeeOther, w2.Code)
	assert.Equal(t, "/events/e1", w2.Result().Header.Get("Location"))
	require.Len(t, sess.Reg.Upcoming, 1)
	assert.Equal(t, "e1", sess.Reg.Upcoming[0].ID)
}

func TestEventCancelRemovesRegistration(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/events/e1/cancel", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	ha := newHarness(t, backend, true)

	router := chi.NewRouter()
	router.Use(middleware.WithSession(ha.sessions))
	router.Post("/events/{id}/cancel", ha.handler.EventCancelPostHandler)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/events/e1/cancel", nil)
	router.ServeHTTP(w, r)

	sess, ok := ha.sessions.Peek(requestWithCookies(w.Result().Cookies()))
	require.True(t, ok)
	sess.Reg.Load([]domain.Event{futureEvent("e1")}, nil, []domain.Event{futureEvent("e1")})

	w2 := httptest.NewRecorder()
	r2 := httptest.NewRequest("POST", "/events/e1/cancel", nil)
	for _, c := range w.Result().Cookies() {
		r2.AddCookie(c)
	}
	router.ServeHTTP(w2, r2)

	require.Equal(t, http.StatusSeeOther, w2.Code)
	assert.Empty(t, sess.Reg.Upcoming)
	assert.Len(t, sess.Reg.All, 1, "the unfiltered listing is left alone")
}

func TestEventHandlerAuthExpiredRedirectsToLogin(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// both the original call and the retry get 401
		w.WriteHeader(http.StatusUnauthorized)
	})
	ha := newHarness(t, backend, true)

	router := chi.NewRouter()
	router.Use(middleware.WithSession(ha.sessions))
	router.Get("/events/{id}", ha.handler.EventGetHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/events/e1", nil))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Result().Header.Get("Location"))
}

func requestWithCookies(cookies []*http.Cookie) *http.Request {
	r := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

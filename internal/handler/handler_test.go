package handler

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/handson-community/handson-web/internal/apiclient"
	"github.com/handson-community/handson-web/internal/authgw"
	"github.com/handson-community/handson-web/internal/config"
	"github.com/handson-community/handson-web/internal/dashboard"
	"github.com/handson-community/handson-web/internal/domain"
	"github.com/handson-community/handson-web/internal/markdown"
	"github.com/handson-community/handson-web/internal/middleware"
	"github.com/handson-community/handson-web/internal/session"
	"github.com/handson-community/handson-web/internal/usersession"
)

type stubAuthBackend struct{}

func (stubAuthBackend) SignUp(context.Context, string, string) (*authgw.Session, error) {
	return nil, nil
}
func (stubAuthBackend) PasswordGrant(context.Context, string, string) (*authgw.Session, error) {
	return nil, nil
}
func (stubAuthBackend) RefreshGrant(context.Context, string) (*authgw.Session, error) {
	return nil, errors.New("refresh unavailable")
}
func (stubAuthBackend) Logout(context.Context, string) error { return nil }

// testTemplates are just enough to prove what reached the template.
var testTemplateSources = map[string]string{
	"index.html":          `index events={{len .Data.Events}}`,
	"login.html":          `login error={{.Common.Error}} email={{.Common.EmailPlaceholder}}`,
	"register.html":       `register`,
	"google_callback.html": `google`,
	"events.html":         `events n={{len .Data.Events}}`,
	"event.html":          `event {{.Data.Title}} registered={{.Data.Registered}} canedit={{.Data.CanEdit}}`,
	"event_form.html":     `form action={{.Data.Action}}`,
	"help_requests.html":  `requests n={{len .Data.Requests}}`,
	"help_request.html":   `request {{.Data.Request.Title}}`,
	"help_request_form.html": `hrform`,
	"dashboard.html":      `dashboard tab={{.Data.Tab}} n={{len .Data.Events}} hours={{.Data.Stats.Hours}} points={{.Data.Stats.Points}}`,
}

func testTemplates(t *testing.T) map[string]*template.Template {
	t.Helper()
	out := make(map[string]*template.Template)
	for name, src := range testTemplateSources {
		out[name] = template.Must(template.New(name).Parse(src))
	}
	return out
}

// harness wires a handler whose per-session API client talks to the given
// backend stub.
type harness struct {
	handler  *Handler
	sessions *usersession.Manager
	server   *httptest.Server
	identity *domain.Identity
}

func newHarness(t *testing.T, backend http.Handler, signedIn bool) *harness {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	identity := &domain.Identity{ID: "u1", Email: "alice@example.com", DisplayName: "Alice"}

	factory := func(id string) *usersession.UserSession {
		api := apiclient.New(server.URL)
		store := session.New()
		provider := authgw.NewProvider(stubAuthBackend{}, api, store)
		if signedIn {
			provider.RestoreSession(&authgw.Session{
				Credential: domain.Credential{
					AccessToken:  "at",
					RefreshToken: "rt",
					ExpiresAt:    time.Now().Add(time.Hour),
				},
				Identity: *identity,
			})
			store.Set(identity)
		}
		api.SetCredentialSource(provider)
		return &usersession.UserSession{
			ID:       id,
			Store:    store,
			Provider: provider,
			API:      api,
			Reg:      dashboard.NewState(),
		}
	}

	sessions := usersession.NewManager(factory, time.Hour, false)
	h := New(testTemplates(t), config.Public{EventsPerPage: 10}, markdown.New(), sessions)

	return &harness{handler: h, sessions: sessions, server: server, identity: identity}
}

// serve runs the request through the session middleware the way the
// router does.
func (ha *harness) serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	middleware.WithSession(ha.sessions)(h).ServeHTTP(w, r)
	return w
}

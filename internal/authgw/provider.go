package authgw

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/handson-community/handson-web/internal/domain"
	"github.com/handson-community/handson-web/internal/lib/sl"
	"github.com/handson-community/handson-web/internal/logger"
	"github.com/handson-community/handson-web/internal/session"
)

// ErrNoSession is returned by Refresh when there is nothing to refresh.
var ErrNoSession = errors.New("no session to refresh")

// ChangeEvent tells listeners why the session changed. InitialSession is
// emitted once at startup and reports the pre-existing session (possibly
// none); it is deliberately distinct from SignedOut so listeners never
// mistake a cold start for a logout.
type ChangeEvent string

const (
	EventInitialSession ChangeEvent = "initial_session"
	EventSignedIn       ChangeEvent = "signed_in"
	EventTokenRefreshed ChangeEvent = "token_refreshed"
	EventSignedOut      ChangeEvent = "signed_out"
)

type ChangeListener func(ChangeEvent, *Session)

// AuthBackend is the consumed surface of the hosted auth backend.
type AuthBackend interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	PasswordGrant(ctx context.Context, email, password string) (*Session, error)
	RefreshGrant(ctx context.Context, refreshToken string) (*Session, error)
	Logout(ctx context.Context, accessToken string) error
}

// PlatformAPI is the slice of the backend API the provider needs for the
// cookie session and profile bootstrap. Implemented by apiclient.Client.
type PlatformAPI interface {
	Login(ctx context.Context, email, password, bearer string) error
	Logout(ctx context.Context) error
	GoogleLogin(ctx context.Context, bearer string) error
	RegisterProfile(ctx context.Context, bearer string, profile domain.Profile) error
	Profile(ctx context.Context) (*domain.Identity, error)
}

// Provider owns the credential for one browser session and keeps the
// session store in sync. It implements apiclient.CredentialSource.
type Provider struct {
	auth  AuthBackend
	api   PlatformAPI
	store *session.Store

	mu      sync.Mutex
	session *Session
	flight  *refreshCall // in-flight refresh shared by concurrent 401s

	listenersMu sync.Mutex
	listeners   map[int]ChangeListener
	nextID      int
}

type refreshCall struct {
	done  chan struct{}
	token string
	err   error
}

func NewProvider(auth AuthBackend, api PlatformAPI, store *session.Store) *Provider {
	return &Provider{
		auth:      auth,
		api:       api,
		store:     store,
		listeners: make(map[int]ChangeListener),
	}
}

// Init announces whatever session already exists (possibly none). Call it
// once after construction, after any session restore.
func (p *Provider) Init(ctx context.Context) {
	p.mu.Lock()
	sess := p.session
	p.mu.Unlock()

	if sess != nil {
		identity := sess.Identity
		p.store.Set(&identity)
		p.mergeProfile(ctx)
	}
	p.emit(EventInitialSession, sess)
}

// Session returns the current session, nil when not authenticated. Callers
// must treat nil as "not signed in", not as an error.
func (p *Provider) Session() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

// OnChange subscribes to session lifecycle events and returns an
// unsubscribe func.
func (p *Provider) OnChange(l ChangeListener) (unsubscribe func()) {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = l

	return func() {
		p.listenersMu.Lock()
		defer p.listenersMu.Unlock()
		delete(p.listeners, id)
	}
}

func (p *Provider) emit(event ChangeEvent, sess *Session) {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()
	for _, l := range p.listeners {
		l(event, sess)
	}
}

// SignUp creates the account, bootstraps the profile record and signs the
// user in. Profile bootstrap failure is logged but never fails the
// sign-up: the account exists and is usable.
func (p *Provider) SignUp(ctx context.Context, email, password, displayName string) (*domain.Identity, error) {
	sess, err := p.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile := domain.Profile{
		UserID:      sess.Identity.ID,
		DisplayName: displayName,
		Username:    usernameFromEmail(email),
		CreatedAt:   time.Now(),
	}
	if err := p.api.RegisterProfile(ctx, sess.Credential.AccessToken, profile); err != nil {
		logger.Log.Error("saving profile after sign-up", "user_id", sess.Identity.ID, sl.Err(err))
	}

	// Sign in right away so the new account is immediately usable.
	signed, err := p.auth.PasswordGrant(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("signing in after sign-up: %w", err)
	}
	signed.Identity.DisplayName = displayName

	p.adopt(signed, EventSignedIn)
	return p.store.Current(), nil
}

// SignIn establishes both the auth backend session and the server-side
// cookie session. If the cookie login fails the whole operation fails and
// the partial backend session is discarded as unusable.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	sess, err := p.auth.PasswordGrant(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := p.api.Login(ctx, email, password, sess.Credential.AccessToken); err != nil {
		return nil, fmt.Errorf("server login failed: %w", err)
	}

	p.adopt(sess, EventSignedIn)
	p.mergeProfile(ctx)
	return p.store.Current(), nil
}

// GoogleSignIn completes an OAuth redirect: the auth backend already issued
// tokens, the server-side cookie session still has to be established.
func (p *Provider) GoogleSignIn(ctx context.Context, accessToken, refreshToken string) (*domain.Identity, error) {
	if accessToken == "" {
		return nil, errors.New("missing access token in auth callback")
	}
	sess := SessionFromTokens(accessToken, refreshToken)

	if err := p.api.GoogleLogin(ctx, accessToken); err != nil {
		return nil, fmt.Errorf("server login failed: %w", err)
	}

	p.adopt(sess, EventSignedIn)
	p.mergeProfile(ctx)
	return p.store.Current(), nil
}

// SignOut invalidates the cookie session and the auth backend session.
// Both are attempted even if one fails, and local identity state is always
// cleared, so the UI can never strand in a logged-in-but-broken state.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	sess := p.session
	p.mu.Unlock()

	var errs []error
	if err := p.api.Logout(ctx); err != nil {
		logger.Log.Error("server logout", sl.Err(err))
		errs = append(errs, err)
	}
	if sess != nil {
		if err := p.auth.Logout(ctx, sess.Credential.AccessToken); err != nil {
			logger.Log.Error("auth backend logout", sl.Err(err))
			errs = append(errs, err)
		}
	}

	p.clearLocal()
	return errors.Join(errs...)
}

// Token implements apiclient.CredentialSource. An expired credential is
// renewed before being handed out.
func (p *Provider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	sess := p.session
	p.mu.Unlock()

	if sess == nil {
		return "", nil
	}
	if sess.Credential.Expired(time.Now()) {
		return p.Refresh(ctx)
	}
	return sess.Credential.AccessToken, nil
}

// Refresh implements apiclient.CredentialSource. Concurrent callers (N
// parallel requests all hitting 401) coalesce behind a single in-flight
// renewal. On failure local identity is cleared.
func (p *Provider) Refresh(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.flight != nil {
		call := p.flight
		p.mu.Unlock()
		<-call.done
		return call.token, call.err
	}
	call := &refreshCall{done: make(chan struct{})}
	p.flight = call
	sess := p.session
	p.mu.Unlock()

	call.token, call.err = p.doRefresh(ctx, sess)

	p.mu.Lock()
	p.flight = nil
	p.mu.Unlock()
	close(call.done)

	return call.token, call.err
}

func (p *Provider) doRefresh(ctx context.Context, sess *Session) (string, error) {
	if sess == nil || sess.Credential.RefreshToken == "" {
		p.clearLocal()
		return "", ErrNoSession
	}

	next, err := p.auth.RefreshGrant(ctx, sess.Credential.RefreshToken)
	if err != nil {
		p.clearLocal()
		return "", err
	}
	if next.Identity.DisplayName == "" {
		next.Identity.DisplayName = sess.Identity.DisplayName
	}
	if next.Identity.Username == "" {
		next.Identity.Username = sess.Identity.Username
	}

	p.adopt(next, EventTokenRefreshed)
	return next.Credential.AccessToken, nil
}

// adopt makes sess the current session, updates the store and notifies
// listeners.
func (p *Provider) adopt(sess *Session, event ChangeEvent) {
	p.mu.Lock()
	p.session = sess
	p.mu.Unlock()

	identity := sess.Identity
	p.store.Set(&identity)
	p.emit(event, sess)
}

// clearLocal drops the session and identity. SignedOut is only emitted
// when there actually was a session, so a cold-start refresh miss never
// looks like a logout.
func (p *Provider) clearLocal() {
	p.mu.Lock()
	had := p.session != nil
	p.session = nil
	p.mu.Unlock()

	p.store.Set(nil)
	if had {
		p.emit(EventSignedOut, nil)
	}
}

// mergeProfile pulls the profile record and merges its fields into the
// stored identity. Failures are non-fatal: the user stays authenticated
// with base identity fields only.
func (p *Provider) mergeProfile(ctx context.Context) {
	profile, err := p.api.Profile(ctx)
	if err != nil {
		logger.Log.Warn("fetching user profile", sl.Err(err))
		return
	}

	current := p.store.Current()
	if current == nil || profile == nil {
		return
	}
	merged := *current
	if profile.DisplayName != "" {
		merged.DisplayName = profile.DisplayName
	}
	if profile.Username != "" {
		merged.Username = profile.Username
	}

	p.mu.Lock()
	if p.session != nil {
		p.session.Identity = merged
	}
	p.mu.Unlock()
	p.store.Set(&merged)
}

// RestoreSession seeds the provider with an existing session before Init,
// e.g. tokens carried by an OAuth callback.
func (p *Provider) RestoreSession(sess *Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.session = sess
}

// usernameFromEmail derives the default username from the email
// local-part.
func usernameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

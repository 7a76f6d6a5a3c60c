// Package authgw bridges the application to the hosted auth backend and
// owns the credential lifecycle: sign-up, sign-in, refresh, sign-out and
// change notifications.
package authgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/handson-community/handson-web/internal/domain"
)

const (
	signUpPath  = "/auth/v1/signup"
	tokenPath   = "/auth/v1/token"
	logoutPath  = "/auth/v1/logout"
	authTimeout = 10 * time.Second
)

// Session pairs the credential with the identity it proves.
type Session struct {
	Credential domain.Credential
	Identity   domain.Identity
}

// GoTrueClient speaks the auth backend's HTTP API (GoTrue-compatible).
// It is stateless and safe to share; sessions live in the Provider.
type GoTrueClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

func NewGoTrueClient(baseURL, anonKey string) *GoTrueClient {
	return &GoTrueClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: authTimeout},
	}
}

// tokenResponse is the backend's shape for signup and both token grants.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type authError struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

// SignUp creates a new account. The backend signs the user in as part of
// signup, so a full session comes back.
func (c *GoTrueClient) SignUp(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	return c.tokenRequest(ctx, signUpPath, body)
}

// PasswordGrant exchanges email and password for a session.
func (c *GoTrueClient) PasswordGrant(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	return c.tokenRequest(ctx, tokenPath+"?grant_type=password", body)
}

// RefreshGrant renews the credential using the refresh token.
func (c *GoTrueClient) RefreshGrant(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	return c.tokenRequest(ctx, tokenPath+"?grant_type=refresh_token", body)
}

// Logout revokes the session on the backend.
func (c *GoTrueClient) Logout(ctx context.Context, accessToken string) error {
	req, err := c.newRequest(ctx, logoutPath, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth backend unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("auth logout failed: %s", readAuthError(resp.Body, resp.Status))
	}
	return nil
}

func (c *GoTrueClient) tokenRequest(ctx context.Context, path string, body any) (*Session, error) {
	req, err := c.newRequest(ctx, path, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth backend unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("auth request failed: %s", readAuthError(resp.Body, resp.Status))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("unexpected auth response: %w", err)
	}
	return sessionFromToken(tr, time.Now()), nil
}

func (c *GoTrueClient) newRequest(ctx context.Context, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	return req, nil
}

func readAuthError(r io.Reader, fallback string) string {
	raw, err := io.ReadAll(io.LimitReader(r, 16<<10))
	if err != nil || len(raw) == 0 {
		return fallback
	}
	var ae authError
	if err := json.Unmarshal(raw, &ae); err == nil {
		if ae.Message != "" {
			return ae.Message
		}
		if ae.ErrorDescription != "" {
			return ae.ErrorDescription
		}
	}
	return strings.TrimSpace(string(raw))
}

// sessionFromToken builds a Session from a token response, falling back to
// the JWT claims for anything the response body leaves out.
func sessionFromToken(tr tokenResponse, now time.Time) *Session {
	s := &Session{
		Credential: domain.Credential{
			AccessToken:  tr.AccessToken,
			RefreshToken: tr.RefreshToken,
		},
		Identity: domain.Identity{
			ID:    tr.User.ID,
			Email: tr.User.Email,
		},
	}
	if tr.ExpiresIn > 0 {
		s.Credential.ExpiresAt = now.Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	// The token is parsed unverified: this client holds no signing key and
	// only needs claims for bookkeeping. Verification is the API server's
	// job.
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tr.AccessToken, claims); err == nil {
		if s.Credential.ExpiresAt.IsZero() {
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				s.Credential.ExpiresAt = exp.Time
			}
		}
		if s.Identity.ID == "" {
			if sub, err := claims.GetSubject(); err == nil {
				s.Identity.ID = sub
			}
		}
		if s.Identity.Email == "" {
			if email, ok := claims["email"].(string); ok {
				s.Identity.Email = email
			}
		}
	}
	return s
}

// SessionFromTokens rebuilds a session from raw tokens, e.g. the ones a
// Google sign-in redirect carries in its URL fragment.
func SessionFromTokens(accessToken, refreshToken string) *Session {
	return sessionFromToken(tokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, time.Now())
}

// Package apiclient handles all communication with the HandsOn backend API.
//
// Every request goes through a single pipeline that attaches the bearer
// credential, retries once after a token refresh on 401 and maps failures
// onto the apperr taxonomy. Resource operations live in one file per
// resource (events.go, helprequests.go, users.go).
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/handson-community/handson-web/internal/apperr"
	"github.com/handson-community/handson-web/internal/lib/sl"
	"github.com/handson-community/handson-web/internal/logger"
)

const defaultTimeout = 15 * time.Second

// identityEndpoints never get an auto-attached bearer header. Matched by
// path substring.
var identityEndpoints = []string{
	"/users/login",
	"/users/register",
	"/users/google-login",
}

// CredentialSource supplies and renews the bearer credential for outbound
// requests. Implemented by authgw.Provider.
type CredentialSource interface {
	// Token returns the current access token, empty when signed out.
	Token(ctx context.Context) (string, error)
	// Refresh forces a credential renewal and returns the new access
	// token. Implementations clear local identity state when renewal
	// fails, so a failed Refresh means the session is gone.
	Refresh(ctx context.Context) (string, error)
}

// Client talks to the backend API on behalf of one browser session. The
// cookie jar carries the server-side cookie session, so clients are never
// shared between users.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialSource
}

func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
	}
}

// SetCredentialSource wires the credential provider in. Kept as a setter
// because the provider itself needs the client for the cookie-session
// round trips.
func (c *Client) SetCredentialSource(src CredentialSource) {
	c.creds = src
}

func isIdentityEndpoint(path string) bool {
	for _, e := range identityEndpoints {
		if strings.Contains(path, e) {
			return true
		}
	}
	return false
}

// call dispatches a JSON request and decodes the response into out (out may
// be nil). It is the single entry point for resource operations.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	return c.callBearer(ctx, method, path, "", body, out)
}

// callBearer is call with an explicitly supplied bearer token. Identity
// endpoints use it during sign-in, before the credential provider has a
// session to hand out.
func (c *Client) callBearer(ctx context.Context, method, path, bearer string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return apperr.Server("failed to marshal request body: "+err.Error(), 0)
		}
	}

	token := bearer
	if token == "" && !isIdentityEndpoint(path) && c.creds != nil {
		t, err := c.creds.Token(ctx)
		if err != nil {
			// Proceed without a credential: the server rejects the
			// request, not the client.
			logger.Log.Warn("could not obtain credential", "path", path, sl.Err(err))
		} else {
			token = t
		}
	}

	resp, err := c.send(ctx, method, path, payload, token)
	if err != nil {
		return apperr.Network(err)
	}

	if resp.StatusCode == http.StatusUnauthorized && !isIdentityEndpoint(path) && c.creds != nil {
		drain(resp)

		newToken, err := c.creds.Refresh(ctx)
		if err != nil {
			return apperr.AuthExpired("session expired", err)
		}

		// Exactly one retry with the renewed credential.
		resp, err = c.send(ctx, method, path, payload, newToken)
		if err != nil {
			return apperr.Network(err)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			drain(resp)
			return apperr.AuthExpired("session expired after refresh", nil)
		}
	}

	return decodeResponse(resp, out)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, bearer string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return c.httpClient.Do(req)
}

// decodeResponse is the single validation boundary at the pipeline exit:
// 2xx decodes into the operation's typed contract, everything else maps
// onto the error taxonomy.
func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperr.Server("unexpected response shape: "+err.Error(), resp.StatusCode)
		}
		return nil
	}

	msg := errorMessage(resp.Body)
	switch {
	case resp.StatusCode == http.StatusForbidden:
		if msg == "" {
			msg = "you do not have permission to do that"
		}
		return apperr.Forbidden(msg)
	case resp.StatusCode == http.StatusNotFound:
		if msg == "" {
			msg = "not found"
		}
		return apperr.NotFound(msg)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// Includes 401 on identity endpoints (bad credentials) - surfaced
		// verbatim to the form layer.
		if msg == "" {
			msg = resp.Status
		}
		return apperr.Validation(msg, resp.StatusCode)
	default:
		if msg == "" {
			msg = resp.Status
		}
		return apperr.Server(msg, resp.StatusCode)
	}
}

// errorMessage pulls a human readable message out of an error body. The
// API uses both {"message": ...} and {"error": ...}.
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	resp.Body.Close()
}

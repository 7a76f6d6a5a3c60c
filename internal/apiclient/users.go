package apiclient

import (
	"context"
	"net/http"

	"github.com/handson-community/handson-web/internal/domain"
)

// Login establishes the server-side cookie session. The bearer token from
// the auth backend is passed explicitly because login is an identity
// endpoint and never gets one auto-attached.
func (c *Client) Login(ctx context.Context, email, password, bearer string) error {
	body := map[string]string{"email": email, "password": password}
	return c.callBearer(ctx, http.MethodPost, "/api/users/login", bearer, body, nil)
}

// Logout invalidates the server-side cookie session.
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/api/users/logout", nil, nil)
}

// GoogleLogin completes a Google sign-in by exchanging the auth backend's
// token for a server-side cookie session.
func (c *Client) GoogleLogin(ctx context.Context, bearer string) error {
	return c.callBearer(ctx, http.MethodPost, "/api/users/google-login", bearer, nil, nil)
}

// RegisterProfile creates the user's profile record after sign-up. Identity
// endpoint: the freshly issued bearer is passed explicitly.
func (c *Client) RegisterProfile(ctx context.Context, bearer string, profile domain.Profile) error {
	return c.callBearer(ctx, http.MethodPost, "/api/users/register", bearer, profile, nil)
}

// Profile fetches the merged profile fields of the signed-in user.
func (c *Client) Profile(ctx context.Context) (*domain.Identity, error) {
	var out struct {
		User domain.Identity `json:"user"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/users/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

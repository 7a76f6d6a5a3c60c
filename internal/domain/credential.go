package domain

import "time"

// Credential is the bearer token proving the identity to the remote API.
// It is held by the credential provider only; the request pipeline sees it
// transiently per outbound request.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token is past (or within a small
// margin of) its expiry. The margin avoids sending a token that dies in
// flight.
func (c Credential) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(30 * time.Second).Before(c.ExpiresAt)
}

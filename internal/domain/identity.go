package domain

import "time"

// Identity is the authenticated user as known to the session store. ID is
// the one canonical user id; profile fields are merged in after a profile
// fetch and may stay empty if that fetch fails.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"full_name,omitempty"`
	Username    string `json:"username,omitempty"`
}

// MergeProfile returns a copy of the identity with profile fields filled in.
// The canonical ID and email never change here.
func (i Identity) MergeProfile(p Profile) Identity {
	if p.DisplayName != "" {
		i.DisplayName = p.DisplayName
	}
	if p.Username != "" {
		i.Username = p.Username
	}
	return i
}

// Profile is the record kept in the platform's profile storage, created
// out-of-band during sign-up.
type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"full_name"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"created_at"`
}

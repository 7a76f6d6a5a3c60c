package handler

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postFormRequest(target string, values url.Values) *http.Request {
	r := httptest.NewRequest("POST", target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func flashValue(t *testing.T, cookies []*http.Cookie, name string) string {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name && c.MaxAge >= 0 {
			decoded, err := base64.StdEncoding.DecodeString(c.Value)
			require.NoError(t, err)
			return string(decoded)
		}
	}
	return ""
}

func TestLoginPostRejectsInvalidForm(t *testing.T) {
	ha := newHarness(t, http.NotFoundHandler(), false)

	w := ha.serve(ha.handler.LoginPostHandler, postFormRequest("/login", url.Values{
		"email":    {"not-an-email"},
		"password": {"x"},
	}))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Result().Header.Get("Location"))
	assert.Contains(t, flashValue(t, w.Result().Cookies(), flashCookieError), "email address is not valid")
}

func TestLoginGetShowsFlashAndPrefill(t *testing.T) {
	ha := newHarness(t, http.NotFoundHandler(), false)

	r := httptest.NewRequest("GET", "/login", nil)
	r.AddCookie(&http.Cookie{
		Name:  flashCookieError,
		Value: base64.StdEncoding.EncodeToString([]byte("Invalid login credentials")),
	})
	r.AddCookie(&http.Cookie{
		Name:  emailPrefillCookie,
		Value: base64.StdEncoding.EncodeToString([]byte("alice@example.com")),
	})
	w := ha.serve(ha.handler.LoginGetHandler, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "error=Invalid login credentials")
	assert.Contains(t, w.Body.String(), "email=alice@example.com")

	// both flash cookies must be expired after consumption
	var expired int
	for _, c := range w.Result().Cookies() {
		if (c.Name == flashCookieError || c.Name == emailPrefillCookie) && c.MaxAge < 0 {
			expired++
		}
	}
	assert.Equal(t, 2, expired)
}

func TestLogoutDropsBrowserSession(t *testing.T) {
	ha := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), true)

	// create the session first
	w := ha.serve(ha.handler.DashboardGetHandler, httptest.NewRequest("GET", "/dashboard", nil))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	r := postFormRequest("/logout", url.Values{})
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w2 := ha.serve(ha.handler.LogoutPostHandler, r)

	require.Equal(t, http.StatusSeeOther, w2.Code)
	assert.Equal(t, "/login", w2.Result().Header.Get("Location"))

	_, ok := ha.sessions.Peek(requestWithCookies(cookies))
	assert.False(t, ok, "registry entry must be gone after logout")
}

func TestGoogleCompleteRequiresTokens(t *testing.T) {
	ha := newHarness(t, http.NotFoundHandler(), false)

	w := ha.serve(ha.handler.GoogleCompletePostHandler, postFormRequest("/auth/google/complete", url.Values{}))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Result().Header.Get("Location"))
	assert.Contains(t, flashValue(t, w.Result().Cookies(), flashCookieError), "did not complete")
}

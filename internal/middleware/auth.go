package middleware

import (
	"encoding/base64"
	"net/http"
)

const flashCookieError = "flash_error"

// RequireAuth redirects anonymous visitors to the login page with a flash
// message instead of serving the page.
func RequireAuth(secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r)
			if sess == nil || sess.Provider.Session() == nil {
				redirectToLogin(w, r, secureCookies, "Please log in to continue")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, secureCookies bool, errorMsg string) {
	// base64 so the message survives cookie value restrictions
	encoded := base64.StdEncoding.EncodeToString([]byte(errorMsg))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieError,
		Value:    encoded,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/handson-community/handson-web/internal/apperr"
	"github.com/handson-community/handson-web/internal/lib/sl"
	"github.com/handson-community/handson-web/internal/logger"
)

const (
	flashCookieError   = "flash_error"
	flashCookieSuccess = "flash_success"
	emailPrefillCookie = "email_prefill"
)

func (h *Handler) setFlash(w http.ResponseWriter, name, value string) {
	// base64 so arbitrary text survives cookie value restrictions
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    base64.StdEncoding.EncodeToString([]byte(value)),
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   h.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) consumeFlash(w http.ResponseWriter, r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := base64.StdEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(decoded)
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, targetURL, cookieName, message string) {
	h.setFlash(w, cookieName, message)
	http.Redirect(w, r, targetURL, http.StatusSeeOther)
}

// flashMessage turns a pipeline error into something a visitor can act on.
// Validation messages come from the backend verbatim.
func flashMessage(err error) string {
	switch {
	case apperr.Is(err, apperr.KindValidation):
		if appErr, ok := apperr.From(err); ok && appErr.Message != "" {
			return appErr.Message
		}
		return "The submitted data was not accepted."
	case apperr.Is(err, apperr.KindForbidden):
		return "You don't have permission to do that."
	case apperr.Is(err, apperr.KindNotFound):
		return "That page no longer exists."
	case apperr.Is(err, apperr.KindNetwork):
		return "The service is unreachable, please try again."
	default:
		return "Something went wrong, please try again."
	}
}

// handleAPIError redirects expired sessions to the login page and
// everything else back to fallbackURL with a flash message.
func (h *Handler) handleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackURL string) {
	logger.Log.Error("backend call failed", "path", r.URL.Path, sl.Err(err))

	if apperr.Is(err, apperr.KindAuthExpired) {
		h.redirectWithFlash(w, r, "/login", flashCookieError, "Your session expired, please log in again")
		return
	}
	h.redirectWithFlash(w, r, fallbackURL, flashCookieError, flashMessage(err))
}

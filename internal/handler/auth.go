package handler

import (
	"net/http"

	"github.com/handson-community/handson-web/internal/forms"
	"github.com/handson-community/handson-web/internal/lib/sl"
	"github.com/handson-community/handson-web/internal/logger"
	"github.com/handson-community/handson-web/internal/middleware"
	"github.com/handson-community/handson-web/internal/usersession"
)

func (h *Handler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "login.html", nil)
}

func (h *Handler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)

	form, err := forms.ParseSignIn(r)
	if err != nil {
		h.setFlash(w, flashCookieError, err.Error())
		h.setFlash(w, emailPrefillCookie, r.FormValue("email"))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if _, err := sess.Provider.SignIn(r.Context(), form.Email, form.Password); err != nil {
		logger.Log.Warn("sign-in failed", "email", form.Email, sl.Err(err))
		h.setFlash(w, flashCookieError, flashMessage(err))
		h.setFlash(w, emailPrefillCookie, form.Email)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) RegisterGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "register.html", nil)
}

func (h *Handler) RegisterPostHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)

	form, err := forms.ParseSignUp(r)
	if err != nil {
		h.setFlash(w, flashCookieError, err.Error())
		h.setFlash(w, emailPrefillCookie, r.FormValue("email"))
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	if _, err := sess.Provider.SignUp(r.Context(), form.Email, form.Password, form.FullName); err != nil {
		logger.Log.Warn("sign-up failed", "email", form.Email, sl.Err(err))
		h.setFlash(w, flashCookieError, flashMessage(err))
		h.setFlash(w, emailPrefillCookie, form.Email)
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	h.redirectWithFlash(w, r, "/dashboard", flashCookieSuccess, "Welcome to HandsOn!")
}

func (h *Handler) LogoutPostHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)

	if err := sess.Provider.SignOut(r.Context()); err != nil {
		// local state is already cleared, the remote failure is log-only
		logger.Log.Warn("sign-out cleanup failed", sl.Err(err))
	}
	h.Sessions.Drop(sess.ID)

	http.SetCookie(w, &http.Cookie{
		Name:     usersession.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// GoogleCallbackGetHandler serves the page that picks the OAuth tokens out
// of the URL fragment. The fragment never reaches the server, so a small
// script posts the tokens back to /auth/google/complete.
func (h *Handler) GoogleCallbackGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "google_callback.html", nil)
}

func (h *Handler) GoogleCompletePostHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)

	accessToken := r.FormValue("access_token")
	refreshToken := r.FormValue("refresh_token")
	if accessToken == "" {
		h.redirectWithFlash(w, r, "/login", flashCookieError, "Google sign-in did not complete, please try again")
		return
	}

	if _, err := sess.Provider.GoogleSignIn(r.Context(), accessToken, refreshToken); err != nil {
		logger.Log.Warn("google sign-in failed", sl.Err(err))
		h.redirectWithFlash(w, r, "/login", flashCookieError, flashMessage(err))
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

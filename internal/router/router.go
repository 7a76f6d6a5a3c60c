// Package router wires the handlers and middleware into the chi router.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/handson-community/handson-web/internal/handler"
	"github.com/handson-community/handson-web/internal/middleware"
	"github.com/handson-community/handson-web/internal/setup"
)

func SetupRouter(deps *setup.Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders(deps.Public.SecureCookies))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/favicon.ico", handler.FaviconHandler)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	h := deps.Handler
	formLimiter := deps.FormLimiter

	// Everything below gets a browser session and a CSRF token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.WithSession(deps.Sessions))
		r.Use(middleware.GenerateCSRFToken(deps.Public.SecureCookies))
		r.Use(middleware.ValidateCSRFToken())

		r.Get("/", h.IndexGetHandler)

		r.Get("/login", h.LoginGetHandler)
		r.Get("/register", h.RegisterGetHandler)
		r.Get("/auth/google/callback", h.GoogleCallbackGetHandler)

		// form submissions are rate limited per IP
		r.Group(func(r chi.Router) {
			r.Use(formLimiter.Middleware)
			r.Post("/login", h.LoginPostHandler)
			r.Post("/register", h.RegisterPostHandler)
			r.Post("/auth/google/complete", h.GoogleCompletePostHandler)
		})

		r.Get("/events", h.EventsGetHandler)
		r.Get("/events/{id}", h.EventGetHandler)
		r.Get("/help-requests", h.HelpRequestsGetHandler)
		r.Get("/help-requests/{id}", h.HelpRequestGetHandler)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(deps.Public.SecureCookies))

			r.Post("/logout", h.LogoutPostHandler)

			r.Get("/events/new", h.EventNewGetHandler)
			r.Post("/events/new", h.EventCreatePostHandler)
			r.Get("/events/{id}/edit", h.EventEditGetHandler)
			r.Post("/events/{id}/edit", h.EventUpdatePostHandler)
			r.Post("/events/{id}/delete", h.EventDeletePostHandler)
			r.Post("/events/{id}/register", h.EventRegisterPostHandler)
			r.Post("/events/{id}/cancel", h.EventCancelPostHandler)

			r.Get("/help-requests/new", h.HelpRequestNewGetHandler)
			r.Post("/help-requests/new", h.HelpRequestCreatePostHandler)
			r.Get("/help-requests/{id}/edit", h.HelpRequestEditGetHandler)
			r.Post("/help-requests/{id}/edit", h.HelpRequestUpdatePostHandler)
			r.Post("/help-requests/{id}/delete", h.HelpRequestDeletePostHandler)
			r.Post("/help-requests/{id}/offer", h.HelpRequestOfferPostHandler)
			r.Post("/help-requests/{id}/comments", h.HelpRequestCommentPostHandler)

			r.Get("/dashboard", h.DashboardGetHandler)

			// JSON fragments for page scripts, CORS-limited to the
			// configured dev origins
			r.Group(func(r chi.Router) {
				r.Use(cors.Handler(cors.Options{
					AllowedOrigins:   deps.Public.AllowedOrigins,
					AllowedMethods:   []string{http.MethodGet},
					AllowCredentials: true,
				}))
				r.Get("/fragments/registrations", h.RegistrationsFragmentHandler)
				r.Get("/fragments/stats", h.StatsFragmentHandler)
			})
		})
	})

	return r
}

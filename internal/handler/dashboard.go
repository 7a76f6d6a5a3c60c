package handler

import (
	"encoding/json"
	"net/http"

	"github.com/handson-community/handson-web/internal/dashboard"
	"github.com/handson-community/handson-web/internal/domain"
	"github.com/handson-community/handson-web/internal/lib/sl"
	"github.com/handson-community/handson-web/internal/logger"
	"github.com/handson-community/handson-web/internal/middleware"
	"github.com/handson-community/handson-web/internal/usersession"
)

var dashboardTabs = map[string]bool{"profile": true, "upcoming": true, "past": true, "all": true}

func (h *Handler) DashboardGetHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)

	tab := r.URL.Query().Get("tab")
	if !dashboardTabs[tab] {
		tab = "upcoming"
	}

	if err := h.loadRegistrations(r, sess); err != nil {
		h.handleAPIError(w, r, err, "/")
		return
	}

	var source []domain.Event
	switch tab {
	case "profile":
		source = nil
	case "past":
		source = sess.Reg.Past
	case "all":
		source = sess.Reg.All
	default:
		source = sess.Reg.Upcoming
	}

	user := sess.Store.Current()
	views := make([]EventView, len(source))
	for i, e := range source {
		views[i] = h.eventView(e, user)
	}

	h.renderTemplate(w, r, "dashboard.html", struct {
		Tab    string
		Events []EventView
		Stats  dashboard.Stats
	}{tab, views, sess.Reg.ComputeStats()})
}

// loadRegistrations refetches the three registration collections. The
// "all" listing uses no status filter.
func (h *Handler) loadRegistrations(r *http.Request, sess *usersession.UserSession) error {
	upcoming, err := sess.API.UserEvents(r.Context(), "upcoming")
	if err != nil {
		return err
	}
	past, err := sess.API.UserEvents(r.Context(), "past")
	if err != nil {
		return err
	}
	all, err := sess.API.UserEvents(r.Context(), "")
	if err != nil {
		return err
	}
	sess.Reg.Load(upcoming, past, all)
	return nil
}

// RegistrationsFragmentHandler serves the reconciled collections as JSON
// for the dashboard page script.
func (h *Handler) RegistrationsFragmentHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"upcoming": sess.Reg.Upcoming,
		"past":     sess.Reg.Past,
		"all":      sess.Reg.All,
		"stats":    sess.Reg.ComputeStats(),
	})
	if err != nil {
		logger.Log.Error("encoding registrations fragment", sl.Err(err))
	}
}

// StatsFragmentHandler serves the volunteering stats as JSON.
func (h *Handler) StatsFragmentHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sess.Reg.ComputeStats()); err != nil {
		logger.Log.Error("encoding stats fragment", sl.Err(err))
	}
}

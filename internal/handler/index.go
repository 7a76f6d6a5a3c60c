package handler

import (
	"net/http"

	"github.com/handson-community/handson-web/internal/apiclient"
	"github.com/handson-community/handson-web/internal/lib/sl"
	"github.com/handson-community/handson-web/internal/logger"
	"github.com/handson-community/handson-web/internal/middleware"
)

func (h *Handler) IndexGetHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)

	// the landing page is best-effort, it renders without the teaser list
	events, err := sess.API.ListEvents(r.Context(), apiclient.EventFilters{Status: "upcoming"})
	if err != nil {
		logger.Log.Warn("loading landing page events", sl.Err(err))
		events = nil
	}
	if max := h.Public.EventsPerPage; max > 0 && len(events) > max {
		events = events[:max]
	}

	user := sess.Store.Current()
	views := make([]EventView, len(events))
	for i, e := range events {
		views[i] = h.eventView(e, user)
	}

	h.renderTemplate(w, r, "index.html", struct {
		Events []EventView
	}{views})
}

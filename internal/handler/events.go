package handler

import (
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/handson-community/handson-web/internal/apiclient"
	"github.com/handson-community/handson-web/internal/dashboard"
	"github.com/handson-community/handson-web/internal/domain"
	"github.com/handson-community/handson-web/internal/forms"
	"github.com/handson-community/handson-web/internal/middleware"
)

// EventView is the template model for one event card or detail page.
type EventView struct {
	domain.Event
	DescriptionHTML template.HTML
	Registered      bool
	CanEdit         bool
	SpotsLeft       int
	HasSpotsLeft    bool
}

func (h *Handler) eventView(e domain.Event, user *domain.Identity) EventView {
	view := EventView{
		Event:           e,
		DescriptionHTML: h.Markdown.Render(e.Description),
	}
	if user != nil {
		view.Registered = e.IsRegistered(user.ID)
		view.CanEdit = e.CreatedBy == user.ID
	}
	if e.Capacity != nil {
		view.HasSpotsLeft = true
		view.SpotsLeft = *e.Capacity - e.RegisteredCount()
		if view.SpotsLeft < 0 {
			view.SpotsLeft = 0
		}
	}
	return view
}

func (h *Handler) EventsGetHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)
	q := r.URL.Query()

	filters := apiclient.EventFilters{
		Category: q.Get("category"),
		Location: q.Get("location"),
		Status:   q.Get("status"),
		Search:   q.Get("search"),
	}

	events, err := sess.API.ListEvents(r.Context(), filters)
	if err != nil {
		h.handleAPIError(w, r, err, "/")
		return
	}

	user := sess.Store.Current()
	views := make([]EventView, len(events))
	for i, e := range events {
		views[i] = h.eventView(e, user)
	}

	h.renderTemplate(w, r, "events.html", struct {
		Events  []EventView
		Filters apiclient.EventFilters
	}{views, filters})
}

func (h *Handler) EventGetHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)
	id := chi.URLParam(r, "id")

	event, err := sess.API.GetEvent(r.Context(), id)
	if err != nil {
		h.handleAPIError(w, r, err, "/events")
		return
	}

	h.renderTemplate(w, r, "event.html", h.eventView(*event, sess.Store.Current()))
}

func (h *Handler) EventNewGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "event_form.html", struct {
		Event  *EventView
		Action string
	}{nil, "/events/new"})
}

func (h *Handler) EventCreatePostHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)

	form, err := forms.ParseEvent(r)
	if err != nil {
		h.redirectWithFlash(w, r, "/events/new", flashCookieError, err.Error())
		return
	}

	event, err := sess.API.CreateEvent(r.Context(), eventInput(form))
	if err != nil {
		h.handleAPIError(w, r, err, "/events/new")
		return
	}

	h.redirectWithFlash(w, r, "/events/"+event.ID, flashCookieSuccess, "Event created")
}

func (h *Handler) EventEditGetHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)
	id := chi.URLParam(r, "id")

	event, err := sess.API.GetEvent(r.Context(), id)
	if err != nil {
		h.handleAPIError(w, r, err, "/events")
		return
	}

	view := h.eventView(*event, sess.Store.Current())
	if !view.CanEdit {
		h.redirectWithFlash(w, r, "/events/"+id, flashCookieError, "Only the organizer can edit this event")
		return
	}

	h.renderTemplate(w, r, "event_form.html", struct {
		Event  *EventView
		Action string
	}{&view, "/events/" + id + "/edit"})
}

func (h *Handler) EventUpdatePostHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)
	id := chi.URLParam(r, "id")

	form, err := forms.ParseEvent(r)
	if err != nil {
		h.redirectWithFlash(w, r, "/events/"+id+"/edit", flashCookieError, err.Error())
		return
	}

	if _, err := sess.API.UpdateEvent(r.Context(), id, eventInput(form)); err != nil {
		h.handleAPIError(w, r, err, "/events/"+id+"/edit")
		return
	}

	h.redirectWithFlash(w, r, "/events/"+id, flashCookieSuccess, "Event updated")
}

func (h *Handler) EventDeletePostHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)
	id := chi.URLParam(r, "id")

	if err := sess.API.DeleteEvent(r.Context(), id); err != nil {
		h.handleAPIError(w, r, err, "/events/"+id)
		return
	}

	h.redirectWithFlash(w, r, "/events", flashCookieSuccess, "Event deleted")
}

func (h *Handler) EventRegisterPostHandler(w http.ResponseWriter, r *http.Request) {
	h.changeRegistration(w, r, true)
}

func (h *Handler) EventCancelPostHandler(w http.ResponseWriter, r *http.Request) {
	h.changeRegistration(w, r, false)
}

// changeRegistration performs the API call and reconciles the session's
// dashboard collections so the next dashboard view is consistent without a
// refetch.
func (h *Handler) changeRegistration(w http.ResponseWriter, r *http.Request, register bool) {
	sess := middleware.SessionFromContext(r)
	id := chi.URLParam(r, "id")

	var err error
	if register {
		err = sess.API.RegisterForEvent(r.Context(), id)
	} else {
		err = sess.API.CancelRegistration(r.Context(), id)
	}
	if err != nil {
		h.handleAPIError(w, r, err, "/events/"+id)
		return
	}

	sess.Reg.Apply(dashboard.Change{EventID: id, Registered: register})

	msg := "You are registered, see you there!"
	if !register {
		msg = "Registration canceled"
	}
	h.redirectWithFlash(w, r, "/events/"+id, flashCookieSuccess, msg)
}

func eventInput(form forms.EventForm) apiclient.EventInput {
	input := apiclient.EventInput{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Location:    form.Location,
		IsOngoing:   form.IsOngoing,
		Capacity:    form.Capacity,
	}
	// errors were already caught by form validation
	if start, _ := form.ParsedStart(); start != nil {
		s := start.Format(time.RFC3339)
		input.StartTime = &s
	}
	if end, _ := form.ParsedEnd(); end != nil {
		s := end.Format(time.RFC3339)
		input.EndTime = &s
	}
	return input
}

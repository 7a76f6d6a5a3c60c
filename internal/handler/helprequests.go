package handler

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/handson-community/handson-web/internal/apiclient"
	"github.com/handson-community/handson-web/internal/domain"
	"github.com/handson-community/handson-web/internal/forms"
	"github.com/handson-community/handson-web/internal/middleware"
)

// HelpRequestView is the template model for a help request.
type HelpRequestView struct {
	domain.HelpRequest
	DescriptionHTML template.HTML
	IsHelping       bool
	CanEdit         bool
}

func (h *Handler) helpRequestView(hr domain.HelpRequest, user *domain.Identity) HelpRequestView {
	view := HelpRequestView{
		HelpRequest:     hr,
		DescriptionHTML: h.Markdown.Render(hr.Description),
	}
	if user != nil {
		view.IsHelping = hr.IsHelper(user.ID)
		view.CanEdit = hr.CreatedBy == user.ID
	}
	return view
}

func (h *Handler) HelpRequestsGetHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)
	q := r.URL.Query()

	filters := apiclient.HelpRequestFilters{
		Urgency:  q.Get("urgency"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
	}

	requests, err := sess.API.ListHelpRequests(r.Context(), filters)
	if err != nil {
		h.handleAPIError(w, r, err, "/")
		return
	}

	user := sess.Store.Current()
	views := make([]HelpRequestView, len(requests))
	for i, hr := range requests {
		views[i] = h.helpRequestView(hr, user)
	}

	h.renderTemplate(w, r, "help_requests.html", struct {
		Requests []HelpRequestView
		Filters  apiclient.HelpRequestFilters
	}{views, filters})
}

func (h *Handler) HelpRequestGetHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)
	id := chi.URLParam(r, "id")

	request, err := sess.API.GetHelpRequest(r.Context(), id)
	if err != nil {
		h.handleAPIError(w, r, err, "/help-requests")
		return
	}

	// helpers and comments are secondary, the page still renders without them
	helpers, err := sess.API.Helpers(r.Context(), id)
	if err != nil {
		helpers = nil
	}
	comments, err := sess.API.Comments(r.Context(), id)
	if err != nil {
		comments = nil
	}

	h.renderTemplate(w, r, "help_request.html", struct {
		Request  HelpRequestView
		Helpers  []domain.Helper
		Comments []domain.Comment
	}{h.helpRequestView(*request, sess.Store.Current()), helpers, comments})
}

func (h *Handler) HelpRequestNewGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "help_request_form.html", struct {
		Request *HelpRequestView
		Action  string
	}{nil, "/help-requests/new"})
}

func (h *Handler) HelpRequestCreatePostHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)

	form, err := forms.ParseHelpRequest(r)
	if err != nil {
		h.redirectWithFlash(w, r, "/help-requests/new", flashCookieError, err.Error())
		return
	}

	request, err := sess.API.CreateHelpRequest(r.Context(), helpRequestInput(form))
	if err != nil {
		h.handleAPIError(w, r, err, "/help-requests/new")
		return
	}

	h.redirectWithFlash(w, r, "/help-requests/"+request.ID, flashCookieSuccess, "Help request posted")
}

func (h *Handler) HelpRequestEditGetHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)
	id := chi.URLParam(r, "id")

	request, err := sess.API.GetHelpRequest(r.Context(), id)
	if err != nil {
		h.handleAPIError(w, r, err, "/help-requests")
		return
	}

	view := h.helpRequestView(*request, sess.Store.Current())
	if !view.CanEdit {
		h.redirectWithFlash(w, r, "/help-requests/"+id, flashCookieError, "Only the author can edit this request")
		return
	}

	h.renderTemplate(w, r, "help_request_form.html", struct {
		Request *HelpRequestView
		Action  string
	}{&view, "/help-requests/" + id + "/edit"})
}

func (h *Handler) HelpRequestUpdatePostHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)
	id := chi.URLParam(r, "id")

	form, err := forms.ParseHelpRequest(r)
	if err != nil {
		h.redirectWithFlash(w, r, "/help-requests/"+id+"/edit", flashCookieError, err.Error())
		return
	}

	if _, err := sess.API.UpdateHelpRequest(r.Context(), id, helpRequestInput(form)); err != nil {
		h.handleAPIError(w, r, err, "/help-requests/"+id+"/edit")
		return
	}

	h.redirectWithFlash(w, r, "/help-requests/"+id, flashCookieSuccess, "Help request updated")
}

func (h *Handler) HelpRequestDeletePostHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)
	id := chi.URLParam(r, "id")

	if err := sess.API.DeleteHelpRequest(r.Context(), id); err != nil {
		h.handleAPIError(w, r, err, "/help-requests/"+id)
		return
	}

	h.redirectWithFlash(w, r, "/help-requests", flashCookieSuccess, "Help request deleted")
}

func (h *Handler) HelpRequestOfferPostHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)
	id := chi.URLParam(r, "id")

	if err := sess.API.OfferHelp(r.Context(), id); err != nil {
		h.handleAPIError(w, r, err, "/help-requests/"+id)
		return
	}

	h.redirectWithFlash(w, r, "/help-requests/"+id, flashCookieSuccess, "Thanks for offering to help!")
}

func (h *Handler) HelpRequestCommentPostHandler(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r)
	id := chi.URLParam(r, "id")

	form, err := forms.ParseComment(r)
	if err != nil {
		h.redirectWithFlash(w, r, "/help-requests/"+id, flashCookieError, err.Error())
		return
	}

	if _, err := sess.API.AddComment(r.Context(), id, form.Content); err != nil {
		h.handleAPIError(w, r, err, "/help-requests/"+id)
		return
	}

	http.Redirect(w, r, "/help-requests/"+id, http.StatusSeeOther)
}

func helpRequestInput(form forms.HelpRequestForm) apiclient.HelpRequestInput {
	return apiclient.HelpRequestInput{
		Title:       form.Title,
		Description: form.Description,
		Urgency:     form.Urgency,
		Category:    form.Category,
		Location:    form.Location,
		IsOngoing:   form.IsOngoing,
	}
}

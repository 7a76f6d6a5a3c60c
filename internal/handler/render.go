package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/handson-community/handson-web/internal/domain"
	"github.com/handson-community/handson-web/internal/logger"
	"github.com/handson-community/handson-web/internal/middleware"
)

// CommonTemplateData holds fields shared by all page templates, available
// as .Common via the TemplateData wrapper.
type CommonTemplateData struct {
	Error            string
	Success          string
	User             *domain.Identity
	CSRFToken        string
	EmailPlaceholder string
}

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common CommonTemplateData
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	h.renderTemplateWithError(w, r, name, data, "")
}

func (h *Handler) renderTemplateWithError(w http.ResponseWriter, r *http.Request, name string, data any, errMsg string) {
	tmpl, ok := h.getTemplate(name)
	if !ok {
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	common := h.initCommonTemplateData(w, r)
	if errMsg != "" {
		common.Error = errMsg
	}

	wrapped := TemplateData{
		Data:   data,
		Common: common,
	}

	// render to a buffer first so template failures don't emit half a page
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, wrapped); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	_, _ = buf.WriteTo(w)
}

// initCommonTemplateData consumes the flash cookies and resolves the
// current user, once per rendered page.
func (h *Handler) initCommonTemplateData(w http.ResponseWriter, r *http.Request) CommonTemplateData {
	common := CommonTemplateData{
		Error:            h.consumeFlash(w, r, flashCookieError),
		Success:          h.consumeFlash(w, r, flashCookieSuccess),
		EmailPlaceholder: h.consumeFlash(w, r, emailPrefillCookie),
		CSRFToken:        middleware.CSRFTokenFromContext(r),
	}

	if sess := middleware.SessionFromContext(r); sess != nil {
		common.User = sess.Store.Current()
	}
	return common
}

// Package handler contains the HTTP handlers of the web frontend. Pages
// are server-rendered; a small set of /fragments endpoints serves JSON to
// page scripts.
package handler

import (
	"html/template"
	"net/http"

	"github.com/handson-community/handson-web/internal/config"
	"github.com/handson-community/handson-web/internal/markdown"
	"github.com/handson-community/handson-web/internal/usersession"
)

type Handler struct {
	Templates map[string]*template.Template
	Public    config.Public
	Markdown  *markdown.Renderer
	Sessions  *usersession.Manager
}

func New(templates map[string]*template.Template, publicCfg config.Public, md *markdown.Renderer, sessions *usersession.Manager) *Handler {
	return &Handler{
		Templates: templates,
		Public:    publicCfg,
		Markdown:  md,
		Sessions:  sessions,
	}
}

func (h *Handler) getTemplate(name string) (*template.Template, bool) {
	tmpl, ok := h.Templates[name]
	return tmpl, ok
}

func FaviconHandler(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, "static/favicon.ico")
}

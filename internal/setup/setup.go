// Package setup builds the application dependency graph.
package setup

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"os"
	"path"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/handson-community/handson-web/internal/config"
	"github.com/handson-community/handson-web/internal/handler"
	"github.com/handson-community/handson-web/internal/markdown"
	"github.com/handson-community/handson-web/internal/middleware"
	"github.com/handson-community/handson-web/internal/usersession"
)

const (
	baseTemplate           = "base.html"
	tmplPath               = "templates"
	templateReloadInterval = 5 * time.Second
	sessionSweepInterval   = 5 * time.Minute

	// form submission budget per client IP
	formRateLimit = rate.Limit(1)
	formRateBurst = 10
)

type Dependencies struct {
	Handler     *handler.Handler
	Sessions    *usersession.Manager
	FormLimiter *middleware.RateLimiter
	Public      config.Public
	CancelFunc  context.CancelFunc
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	if cfg.Public.APIBaseURL == "" {
		return nil, fmt.Errorf("api_base_url is required")
	}
	if cfg.Public.AuthBaseURL == "" {
		return nil, fmt.Errorf("auth_base_url is required")
	}
	if cfg.AuthAnonKey() == "" {
		return nil, fmt.Errorf("auth_anon_key is required")
	}

	ctx, cancel := context.WithCancel(context.Background())

	sessionTTL := cfg.Public.SessionTTL
	if sessionTTL == 0 {
		sessionTTL = 12 * time.Hour
	}

	factory := usersession.NewFactory(cfg.Public.APIBaseURL, cfg.Public.AuthBaseURL, cfg.AuthAnonKey())
	sessions := usersession.NewManager(factory, sessionTTL, cfg.Public.SecureCookies)
	sessions.StartBackgroundSweep(ctx, sessionSweepInterval)
	middleware.RegisterSessionGauge(sessions.Len)

	formLimiter := middleware.NewRateLimiter(formRateLimit, formRateBurst)
	formLimiter.StartCleanupLoop(sessionSweepInterval, ctx.Done())

	templates := mustLoadTemplates(tmplPath)
	h := handler.New(templates, cfg.Public, markdown.New(), sessions)
	startTemplateReloader(h, tmplPath)

	return &Dependencies{
		Handler:     h,
		Sessions:    sessions,
		FormLimiter: formLimiter,
		Public:      cfg.Public,
		CancelFunc:  cancel,
	}, nil
}

func sub(a, b int) int { return a - b }
func add(a, b int) int { return a + b }

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("Mon, Jan 2 2006 15:04")
}

func formatInputTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02T15:04")
}

func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("invalid dict call: number of arguments must be even")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings")
		}
		m[key] = values[i+1]
	}
	return m, nil
}

func mustLoadTemplates(tmplPath string) map[string]*template.Template {
	templates := make(map[string]*template.Template)
	files, err := os.ReadDir(tmplPath)
	if err != nil {
		log.Fatal(err)
	}

	for _, f := range files {
		if filepath.Ext(f.Name()) == ".html" && f.Name() != baseTemplate && f.Name() != "partials.html" {
			templates[f.Name()] = template.Must(template.New(baseTemplate).Funcs(
				template.FuncMap{
					"sub":             sub,
					"add":             add,
					"dict":            dict,
					"formatTime":      formatTime,
					"formatInputTime": formatInputTime,
				},
			).ParseFiles(
				path.Join(tmplPath, baseTemplate),
				path.Join(tmplPath, f.Name()),
				path.Join(tmplPath, "partials.html"),
			))
		}
	}
	return templates
}

func startTemplateReloader(h *handler.Handler, tmplPath string) {
	if os.Getenv("ENV") == "development" {
		ticker := time.NewTicker(templateReloadInterval)
		go func() {
			for range ticker.C {
				h.Templates = mustLoadTemplates(tmplPath)
			}
		}()
	}
}

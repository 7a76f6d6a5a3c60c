package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/handson-community/handson-web/internal/domain"
)

// EventFilters are the supported query parameters of GET /api/events.
// Empty fields are omitted.
type EventFilters struct {
	Category string
	Location string
	Status   string
	Search   string
}

func (f EventFilters) values() url.Values {
	v := url.Values{}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.Location != "" {
		v.Set("location", f.Location)
	}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	return v
}

// EventInput is the request body for creating and updating events.
type EventInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Location    string  `json:"location"`
	StartTime   *string `json:"start_time,omitempty"` // RFC 3339
	EndTime     *string `json:"end_time,omitempty"`
	IsOngoing   bool    `json:"is_ongoing"`
	Capacity    *int    `json:"capacity,omitempty"`
}

func withQuery(path string, v url.Values) string {
	if q := v.Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

// ListEvents returns all events matching the filters.
func (c *Client) ListEvents(ctx context.Context, filters EventFilters) ([]domain.Event, error) {
	var out struct {
		Events []domain.Event `json:"events"`
	}
	err := c.call(ctx, http.MethodGet, withQuery("/api/events", filters.values()), nil, &out)
	if err != nil {
		return nil, err
	}
	return out.Events, nil
}

// GetEvent fetches a single event by id.
func (c *Client) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	var out struct {
		Event domain.Event `json:"event"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/events/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Event, nil
}

func (c *Client) CreateEvent(ctx context.Context, input EventInput) (*domain.Event, error) {
	var out struct {
		Event domain.Event `json:"event"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/events", input, &out); err != nil {
		return nil, err
	}
	return &out.Event, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, input EventInput) (*domain.Event, error) {
	var out struct {
		Event domain.Event `json:"event"`
	}
	if err := c.call(ctx, http.MethodPut, "/api/events/"+url.PathEscape(id), input, &out); err != nil {
		return nil, err
	}
	return &out.Event, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/events/"+url.PathEscape(id), nil, nil)
}

// RegisterForEvent signs the current user up for the event.
func (c *Client) RegisterForEvent(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodPost, "/api/events/"+url.PathEscape(id)+"/register", nil, nil)
}

// CancelRegistration withdraws the current user's registration.
func (c *Client) CancelRegistration(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodPost, "/api/events/"+url.PathEscape(id)+"/cancel", nil, nil)
}

// RegistrationStatus reports whether the current user is registered for the
// event.
func (c *Client) RegistrationStatus(ctx context.Context, id string) (bool, error) {
	var out struct {
		Registered bool `json:"registered"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/events/"+url.PathEscape(id)+"/registration-status", nil, &out); err != nil {
		return false, err
	}
	return out.Registered, nil
}

// UserEvents returns the events the current user registered for, optionally
// narrowed by status ("upcoming", "past").
func (c *Client) UserEvents(ctx context.Context, status string) ([]domain.Event, error) {
	v := url.Values{}
	if status != "" {
		v.Set("status", status)
	}
	var out struct {
		Events []domain.Event `json:"events"`
	}
	err := c.call(ctx, http.MethodGet, withQuery("/api/events/user/registered", v), nil, &out)
	if err != nil {
		return nil, err
	}
	return out.Events, nil
}

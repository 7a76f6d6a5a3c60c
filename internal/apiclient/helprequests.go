package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/handson-community/handson-web/internal/domain"
)

// HelpRequestFilters are the supported query parameters of
// GET /api/help-requests.
type HelpRequestFilters struct {
	Urgency  string
	Category string
	Status   string
}

func (f HelpRequestFilters) values() url.Values {
	v := url.Values{}
	if f.Urgency != "" {
		v.Set("urgency", f.Urgency)
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	return v
}

type HelpRequestInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Urgency     string  `json:"urgency"`
	Category    string  `json:"category"`
	Location    string  `json:"location"`
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	IsOngoing   bool    `json:"is_ongoing"`
}

func (c *Client) ListHelpRequests(ctx context.Context, filters HelpRequestFilters) ([]domain.HelpRequest, error) {
	var out struct {
		HelpRequests []domain.HelpRequest `json:"helpRequests"`
	}
	err := c.call(ctx, http.MethodGet, withQuery("/api/help-requests", filters.values()), nil, &out)
	if err != nil {
		return nil, err
	}
	return out.HelpRequests, nil
}

func (c *Client) GetHelpRequest(ctx context.Context, id string) (*domain.HelpRequest, error) {
	var out struct {
		HelpRequest domain.HelpRequest `json:"helpRequest"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/help-requests/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.HelpRequest, nil
}

func (c *Client) CreateHelpRequest(ctx context.Context, input HelpRequestInput) (*domain.HelpRequest, error) {
	var out struct {
		HelpRequest domain.HelpRequest `json:"helpRequest"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/help-requests", input, &out); err != nil {
		return nil, err
	}
	return &out.HelpRequest, nil
}

func (c *Client) UpdateHelpRequest(ctx context.Context, id string, input HelpRequestInput) (*domain.HelpRequest, error) {
	var out struct {
		HelpRequest domain.HelpRequest `json:"helpRequest"`
	}
	if err := c.call(ctx, http.MethodPut, "/api/help-requests/"+url.PathEscape(id), input, &out); err != nil {
		return nil, err
	}
	return &out.HelpRequest, nil
}

func (c *Client) DeleteHelpRequest(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/help-requests/"+url.PathEscape(id), nil, nil)
}

// OfferHelp registers the current user as a helper.
func (c *Client) OfferHelp(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodPost, "/api/help-requests/"+url.PathEscape(id)+"/offer", nil, nil)
}

func (c *Client) Helpers(ctx context.Context, id string) ([]domain.Helper, error) {
	var out struct {
		Helpers []domain.Helper `json:"helpers"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/help-requests/"+url.PathEscape(id)+"/helpers", nil, &out); err != nil {
		return nil, err
	}
	return out.Helpers, nil
}

func (c *Client) Comments(ctx context.Context, id string) ([]domain.Comment, error) {
	var out struct {
		Comments []domain.Comment `json:"comments"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/help-requests/"+url.PathEscape(id)+"/comments", nil, &out); err != nil {
		return nil, err
	}
	return out.Comments, nil
}

func (c *Client) AddComment(ctx context.Context, id, content string) (*domain.Comment, error) {
	body := map[string]string{"content": content}
	var out struct {
		Comment domain.Comment `json:"comment"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/help-requests/"+url.PathEscape(id)+"/comments", body, &out); err != nil {
		return nil, err
	}
	return &out.Comment, nil
}

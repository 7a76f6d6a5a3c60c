package forms

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignUp(t *testing.T) {
	r := httptest.NewRequest("POST", "/register", strings.NewReader(url.Values{
		"email":     {"alice@example.com"},
		"password":  {"secret1"},
		"full_name": {"  Alice Lidell  "},
	}.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	f, err := ParseSignUp(r)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", f.Email)
	assert.Equal(t, "Alice Lidell", f.FullName)
}

func TestParseSignUpInvalid(t *testing.T) {
	r := httptest.NewRequest("POST", "/register", strings.NewReader(url.Values{
		"email":    {"not-an-email"},
		"password": {"123"},
	}.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, err := ParseSignUp(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email address is not valid")
	assert.Contains(t, err.Error(), "password must be at least 6 characters")
	assert.Contains(t, err.Error(), "full name is required")
}

func TestParseEventSchedule(t *testing.T) {
	tests := []struct {
		name    string
		values  url.Values
		wantErr string
	}{
		{
			name: "valid scheduled event",
			values: url.Values{
				"title":      {"Park cleanup"},
				"category":   {"environment"},
				"start_time": {"2025-06-01T10:00"},
				"end_time":   {"2025-06-01T12:00"},
			},
		},
		{
			name: "end before start",
			values: url.Values{
				"title":      {"Park cleanup"},
				"category":   {"environment"},
				"start_time": {"2025-06-01T12:00"},
				"end_time":   {"2025-06-01T10:00"},
			},
			wantErr: "end time cannot be before start time",
		},
		{
			name: "ongoing with times",
			values: url.Values{
				"title":      {"Food bank"},
				"category":   {"community"},
				"is_ongoing": {"on"},
				"start_time": {"2025-06-01T10:00"},
			},
			wantErr: "ongoing event cannot have start or end times",
		},
		{
			name: "bad capacity",
			values: url.Values{
				"title":    {"Food bank"},
				"category": {"community"},
				"capacity": {"lots"},
			},
			wantErr: "capacity must be a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/events/new", strings.NewReader(tt.values.Encode()))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			_, err := ParseEvent(r)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParseHelpRequestUrgency(t *testing.T) {
	r := httptest.NewRequest("POST", "/help-requests/new", strings.NewReader(url.Values{
		"title":    {"Need groceries delivered"},
		"urgency":  {"critical"},
		"category": {"errands"},
	}.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, err := ParseHelpRequest(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "urgency must be one of")
}

func TestParsedStart(t *testing.T) {
	f := EventForm{StartTime: "2025-06-01T10:30"}
	got, err := f.ParsedStart()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Hour())
	assert.Equal(t, 30, got.Minute())

	f = EventForm{}
	got, err = f.ParsedStart()
	require.NoError(t, err)
	assert.Nil(t, got)
}

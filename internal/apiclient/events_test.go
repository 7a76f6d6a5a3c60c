package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEvents_FiltersBecomeQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"events":[{"id":"e1","title":"Park cleanup"},{"id":"e2","title":"Food drive"}]}`))
	}))
	defer server.Close()

	c := New(server.URL)
	events, err := c.ListEvents(context.Background(), EventFilters{
		Category: "environment",
		Status:   "open",
	})
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, []string{"environment"}, gotQuery["category"])
	assert.Equal(t, []string{"open"}, gotQuery["status"])
	assert.NotContains(t, gotQuery, "location", "empty filters are omitted")
}

func TestRegistrationStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/events/e1/registration-status", r.URL.Path)
		_, _ = w.Write([]byte(`{"registered":true}`))
	}))
	defer server.Close()

	c := New(server.URL)
	registered, err := c.RegistrationStatus(context.Background(), "e1")
	require.NoError(t, err)
	assert.True(t, registered)
}

func TestRegisterAndCancelHitExpectedPaths(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL)
	require.NoError(t, c.RegisterForEvent(context.Background(), "e1"))
	require.NoError(t, c.CancelRegistration(context.Background(), "e1"))

	assert.Equal(t, []string{
		"POST /api/events/e1/register",
		"POST /api/events/e1/cancel",
	}, paths)
}

func TestUserEvents_StatusParam(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/events/user/registered", r.URL.Path)
		assert.Equal(t, "upcoming", r.URL.Query().Get("status"))
		_, _ = w.Write([]byte(`{"events":[{"id":"e1"}]}`))
	}))
	defer server.Close()

	c := New(server.URL)
	events, err := c.UserEvents(context.Background(), "upcoming")
	require.NoError(t, err)
	require.Len(t, events, 1)
}

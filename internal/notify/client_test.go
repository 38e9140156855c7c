package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmcts/et-case-api/pkg/platform/sentinel"
)

func TestSendEmail(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/notifications/email", r.URL.Path)
		assert.Equal(t, "Bearer api-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "dispatch-1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "api-key", srv.Client())
	id, err := c.SendEmail(context.Background(), "tmpl-1", "claimant@example.com",
		map[string]any{"caseNumber": "6000001/2026"}, "1646225213651590")

	require.NoError(t, err)
	assert.Equal(t, "dispatch-1", id)
	assert.Equal(t, "tmpl-1", got["template_id"])
	assert.Equal(t, "claimant@example.com", got["email_address"])
	assert.Equal(t, "1646225213651590", got["reference"])
}

func TestSendEmail_FailureIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "api-key", srv.Client())
	_, err := c.SendEmail(context.Background(), "tmpl-1", "x@example.com", nil, "ref")

	var ne *Error
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, "tmpl-1", ne.TemplateID)
}

func TestSendEmail_BreakerOpensAfterOutage(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	opened := false
	c := NewClient(srv.URL, "api-key", srv.Client(), WithBreakerOpenedHook(func() { opened = true }))

	for i := 0; i < 5; i++ {
		_, err := c.SendEmail(context.Background(), "tmpl", "x@example.com", nil, "ref")
		require.Error(t, err)
	}
	assert.True(t, opened)
	assert.Equal(t, 5, calls)

	// Circuit open: the gateway is not called again.
	_, err := c.SendEmail(context.Background(), "tmpl", "x@example.com", nil, "ref")
	var ne *Error
	require.ErrorAs(t, err, &ne)
	assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
	assert.Equal(t, 5, calls)
}

func TestSendEmail_ClientErrorDoesNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "api-key", srv.Client())
	for i := 0; i < 10; i++ {
		_, err := c.SendEmail(context.Background(), "tmpl", "x@example.com", nil, "ref")
		require.Error(t, err)
	}
	assert.False(t, c.breaker.IsOpen())
}

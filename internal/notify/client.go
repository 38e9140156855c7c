// Package notify dispatches templated emails through the notification
// gateway. Dispatch failures are part of the contract with the claimant, so
// they are always surfaced as typed errors rather than swallowed.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hmcts/et-case-api/pkg/platform/circuit"
	"github.com/hmcts/et-case-api/pkg/platform/sentinel"
)

// Error marks a notification dispatch failure. Callers after a committed
// case mutation must propagate it as partial success, never roll back.
type Error struct {
	TemplateID string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("send email (template %s): %v", e.TemplateID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client talks to the gateway. A circuit breaker sheds calls during a
// gateway outage so submissions fail fast instead of stacking timeouts.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	breaker *circuit.Breaker
	onOpen  func()
}

// Option configures the client.
type Option func(*Client)

// WithBreakerOpenedHook registers a callback fired when the breaker opens.
func WithBreakerOpenedHook(fn func()) Option {
	return func(c *Client) { c.onOpen = fn }
}

func NewClient(baseURL, apiKey string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
		breaker: circuit.New("notify", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendEmail dispatches one templated email and returns the gateway's
// dispatch id.
func (c *Client) SendEmail(ctx context.Context, templateID, address string, personalisation map[string]any, reference string) (string, error) {
	if c.breaker.IsOpen() {
		return "", &Error{TemplateID: templateID, Err: fmt.Errorf("notification gateway circuit open: %w", sentinel.ErrUnavailable)}
	}

	payload, err := json.Marshal(map[string]any{
		"email_address":   address,
		"template_id":     templateID,
		"personalisation": personalisation,
		"reference":       reference,
	})
	if err != nil {
		return "", &Error{TemplateID: templateID, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/notifications/email", bytes.NewReader(payload))
	if err != nil {
		return "", &Error{TemplateID: templateID, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.recordFailure()
		return "", &Error{TemplateID: templateID, Err: fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode >= 500 {
			c.recordFailure()
		}
		return "", &Error{TemplateID: templateID, Err: fmt.Errorf("gateway status %d", resp.StatusCode)}
	}
	c.breaker.RecordSuccess()

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{TemplateID: templateID, Err: err}
	}
	return out.ID, nil
}

func (c *Client) recordFailure() {
	if _, change := c.breaker.RecordFailure(); change.Opened && c.onOpen != nil {
		c.onOpen()
	}
}

// PrepareUpload wraps document bytes in the personalisation shape the
// gateway expects for file links.
func PrepareUpload(data []byte, retention string) map[string]any {
	return map[string]any{
		"file":                          data,
		"confirm_email_before_download": true,
		"retention_period":              retention,
	}
}

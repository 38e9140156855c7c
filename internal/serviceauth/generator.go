// Package serviceauth leases service-to-service tokens from the service auth
// provider. Every case store and document store call carries one alongside
// the citizen's own token.
package serviceauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hmcts/et-case-api/pkg/platform/retry"
	"github.com/hmcts/et-case-api/pkg/platform/sentinel"
)

// Generator leases tokens for this microservice identity.
type Generator struct {
	baseURL      string
	microservice string
	http         *http.Client
	policy       retry.Policy
}

func NewGenerator(baseURL, microservice string, httpClient *http.Client) *Generator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Generator{
		baseURL:      strings.TrimRight(baseURL, "/"),
		microservice: microservice,
		http:         httpClient,
		policy:       retry.DefaultPolicy,
	}
}

// Generate leases a fresh service token. Tokens are short-lived and cheap;
// no local caching.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	payload, err := json.Marshal(map[string]string{"microservice": g.microservice})
	if err != nil {
		return "", err
	}

	var token string
	err = g.policy.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/lease", bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := g.http.Do(req)
		if err != nil {
			return fmt.Errorf("service auth request: %w: %w", sentinel.ErrUnavailable, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
		case resp.StatusCode >= 500:
			return fmt.Errorf("status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
		default:
			return fmt.Errorf("service auth rejected lease: status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if err != nil {
			return err
		}
		token = "Bearer " + strings.TrimSpace(string(body))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("lease service token: %w", err)
	}
	return token, nil
}

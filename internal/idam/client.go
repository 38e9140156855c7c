// Package idam resolves users against the identity provider. The API trusts
// the provider for authentication; this client only exchanges tokens for
// user details and leases elevated tokens for system operations.
package idam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hmcts/et-case-api/pkg/platform/retry"
	"github.com/hmcts/et-case-api/pkg/platform/sentinel"
)

// UserDetails identifies the citizen behind an authorization token.
type UserDetails struct {
	ID         string `json:"uid"`
	Email      string `json:"sub"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// Client calls the identity provider.
type Client struct {
	baseURL string
	http    *http.Client
	policy  retry.Policy
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		policy:  retry.DefaultPolicy,
	}
}

// UserDetails resolves the user owning authToken.
func (c *Client) UserDetails(ctx context.Context, authToken string) (UserDetails, error) {
	var out UserDetails
	err := c.policy.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/o/userinfo", nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", authToken)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("identity provider request: %w: %w", sentinel.ErrUnavailable, err)
		}
		defer resp.Body.Close()
		if err := classify(resp.StatusCode); err != nil {
			return err
		}
		return json.NewDecoder(resp.Body).Decode(&out)
	})
	if err != nil {
		return UserDetails{}, fmt.Errorf("resolve user details: %w", err)
	}
	return out, nil
}

// AccessToken leases a token for a system account, used where operations run
// with elevated rather than citizen credentials.
func (c *Client) AccessToken(ctx context.Context, username, password string) (string, error) {
	form := url.Values{
		"grant_type": {"password"},
		"username":   {username},
		"password":   {password},
		"scope":      {"openid profile roles"},
	}

	var token string
	err := c.policy.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/o/token",
			strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("identity provider request: %w: %w", sentinel.ErrUnavailable, err)
		}
		defer resp.Body.Close()
		if err := classify(resp.StatusCode); err != nil {
			return err
		}
		var body struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return err
		}
		token = "Bearer " + body.AccessToken
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("lease system access token: %w", err)
	}
	return token, nil
}

func classify(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return sentinel.ErrUnauthorized
	case status >= 500:
		return fmt.Errorf("status %d: %w", status, sentinel.ErrUnavailable)
	default:
		return fmt.Errorf("identity provider rejected request: status %d", status)
	}
}

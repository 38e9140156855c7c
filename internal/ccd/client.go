// Package ccd talks to the external case-management platform. All mutations
// go through its start/submit event protocol; the event token returned by a
// start call is the platform's optimistic-concurrency handle.
package ccd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hmcts/et-case-api/pkg/platform/retry"
	"github.com/hmcts/et-case-api/pkg/platform/sentinel"
)

const (
	serviceAuthorizationHeader = "ServiceAuthorization"

	// Jurisdiction is fixed for this service; both supported case types
	// live under it.
	Jurisdiction = "EMPLOYMENT"

	CaseTypeEnglandWales = "ET_EnglandWales"
	CaseTypeScotland     = "ET_Scotland"
)

// Client is the HTTP client for the case store. Start, read and search calls
// are retried per the transport policy; submit calls share the same policy
// because the store treats a resubmitted token idempotently at the transport
// level while business rejections are never retried.
type Client struct {
	baseURL string
	http    *http.Client
	policy  retry.Policy
	tracer  trace.Tracer
}

// NewClient builds a case store client against baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		policy:  retry.DefaultPolicy,
		tracer:  otel.Tracer("et-case-api/ccd"),
	}
}

// StartEventForCitizen begins a named event against an existing case,
// returning the event token and the current snapshot.
func (c *Client) StartEventForCitizen(ctx context.Context, authToken, s2sToken, userID, caseType, caseID, eventName string) (StartEventResponse, error) {
	ctx, span := c.tracer.Start(ctx, "ccd.start_event", trace.WithAttributes(
		attribute.String("ccd.case_type", caseType),
		attribute.String("ccd.event", eventName),
	))
	defer span.End()

	path := fmt.Sprintf("/citizens/%s/jurisdictions/%s/case-types/%s/cases/%s/event-triggers/%s/token",
		url.PathEscape(userID), Jurisdiction, url.PathEscape(caseType), url.PathEscape(caseID), url.PathEscape(eventName))

	var out StartEventResponse
	err := c.policy.Do(ctx, func() error {
		return c.doJSON(ctx, http.MethodGet, path, authToken, s2sToken, nil, &out)
	})
	if err != nil {
		span.RecordError(err)
		return StartEventResponse{}, fmt.Errorf("start event %s on case %s: %w", eventName, caseID, err)
	}
	return out, nil
}

// StartCaseForCitizen begins the case-creation event; no case id exists yet.
func (c *Client) StartCaseForCitizen(ctx context.Context, authToken, s2sToken, userID, caseType, eventName string) (StartEventResponse, error) {
	ctx, span := c.tracer.Start(ctx, "ccd.start_case", trace.WithAttributes(
		attribute.String("ccd.case_type", caseType),
		attribute.String("ccd.event", eventName),
	))
	defer span.End()

	path := fmt.Sprintf("/citizens/%s/jurisdictions/%s/case-types/%s/event-triggers/%s/token",
		url.PathEscape(userID), Jurisdiction, url.PathEscape(caseType), url.PathEscape(eventName))

	var out StartEventResponse
	err := c.policy.Do(ctx, func() error {
		return c.doJSON(ctx, http.MethodGet, path, authToken, s2sToken, nil, &out)
	})
	if err != nil {
		span.RecordError(err)
		return StartEventResponse{}, fmt.Errorf("start case event %s: %w", eventName, err)
	}
	return out, nil
}

// SubmitEventForCitizen commits a started event. The content's event token is
// consumed by the platform whether or not warnings are ignored.
func (c *Client) SubmitEventForCitizen(ctx context.Context, authToken, s2sToken, userID, caseType, caseID string, ignoreWarning bool, content CaseDataContent) (CaseDetails, error) {
	ctx, span := c.tracer.Start(ctx, "ccd.submit_event", trace.WithAttributes(
		attribute.String("ccd.case_type", caseType),
		attribute.String("ccd.event", content.Event.ID),
	))
	defer span.End()

	content.IgnoreWarning = ignoreWarning
	path := fmt.Sprintf("/citizens/%s/jurisdictions/%s/case-types/%s/cases/%s/events?ignore-warning=%t",
		url.PathEscape(userID), Jurisdiction, url.PathEscape(caseType), url.PathEscape(caseID), ignoreWarning)

	var out CaseDetails
	err := c.policy.Do(ctx, func() error {
		return c.doJSON(ctx, http.MethodPost, path, authToken, s2sToken, content, &out)
	})
	if err != nil {
		span.RecordError(err)
		return CaseDetails{}, fmt.Errorf("submit event %s on case %s: %w", content.Event.ID, caseID, err)
	}
	return out, nil
}

// SubmitCaseForCitizen commits the case-creation event.
func (c *Client) SubmitCaseForCitizen(ctx context.Context, authToken, s2sToken, userID, caseType string, ignoreWarning bool, content CaseDataContent) (CaseDetails, error) {
	ctx, span := c.tracer.Start(ctx, "ccd.submit_case", trace.WithAttributes(
		attribute.String("ccd.case_type", caseType),
	))
	defer span.End()

	content.IgnoreWarning = ignoreWarning
	path := fmt.Sprintf("/citizens/%s/jurisdictions/%s/case-types/%s/cases?ignore-warning=%t",
		url.PathEscape(userID), Jurisdiction, url.PathEscape(caseType), ignoreWarning)

	var out CaseDetails
	err := c.policy.Do(ctx, func() error {
		return c.doJSON(ctx, http.MethodPost, path, authToken, s2sToken, content, &out)
	})
	if err != nil {
		span.RecordError(err)
		return CaseDetails{}, fmt.Errorf("submit new case: %w", err)
	}
	return out, nil
}

// GetCase reads a single case snapshot.
func (c *Client) GetCase(ctx context.Context, authToken, s2sToken, caseID string) (CaseDetails, error) {
	ctx, span := c.tracer.Start(ctx, "ccd.get_case")
	defer span.End()

	var out CaseDetails
	err := c.policy.Do(ctx, func() error {
		return c.doJSON(ctx, http.MethodGet, "/cases/"+url.PathEscape(caseID), authToken, s2sToken, nil, &out)
	})
	if err != nil {
		span.RecordError(err)
		return CaseDetails{}, fmt.Errorf("get case %s: %w", caseID, err)
	}
	return out, nil
}

// SearchCases runs a search-index query against one case type.
func (c *Client) SearchCases(ctx context.Context, authToken, s2sToken, caseType, query string) (SearchResult, error) {
	ctx, span := c.tracer.Start(ctx, "ccd.search_cases", trace.WithAttributes(
		attribute.String("ccd.case_type", caseType),
	))
	defer span.End()

	path := "/searchCases?ctid=" + url.QueryEscape(caseType)
	var out SearchResult
	err := c.policy.Do(ctx, func() error {
		return c.doRaw(ctx, http.MethodPost, path, authToken, s2sToken, []byte(query), &out)
	})
	if err != nil {
		span.RecordError(err)
		return SearchResult{}, fmt.Errorf("search %s cases: %w", caseType, err)
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, authToken, s2sToken string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	return c.doRaw(ctx, method, path, authToken, s2sToken, body, out)
}

func (c *Client) doRaw(ctx context.Context, method, path, authToken, s2sToken string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", authToken)
	req.Header.Set(serviceAuthorizationHeader, s2sToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("case store request: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode case store response: %w", err)
	}
	return nil
}

func classifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return sentinel.ErrNotFound
	case status == http.StatusConflict:
		return sentinel.ErrConflict
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return sentinel.ErrUnauthorized
	case status >= 500:
		return fmt.Errorf("status %d: %w", status, sentinel.ErrUnavailable)
	default:
		return fmt.Errorf("case store rejected request: status %d", status)
	}
}

// Package docstore uploads and downloads case documents. Uploads are
// multipart posts against the case document API; the returned self link is
// the document reference stored on the case.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/hmcts/et-case-api/pkg/platform/retry"
	"github.com/hmcts/et-case-api/pkg/platform/sentinel"
)

const serviceAuthorizationHeader = "ServiceAuthorization"

// File is a document to be stored against a case.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// fileNamePattern rejects names that the document store itself would bounce.
var fileNamePattern = regexp.MustCompile(`^[\w\- ]{1,256}\.[A-Za-z]{3,4}$`)

// UploadedDocument is the subset of the upload response the case record
// keeps hold of.
type UploadedDocument struct {
	OriginalDocumentName string `json:"originalDocumentName"`
	Links                struct {
		Self struct {
			Href string `json:"href"`
		} `json:"self"`
		Binary struct {
			Href string `json:"href"`
		} `json:"binary"`
	} `json:"_links"`
}

type uploadResponse struct {
	Documents []UploadedDocument `json:"documents"`
}

// ServiceTokenGenerator supplies the s2s token attached to every call.
type ServiceTokenGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// Client is the document store client.
type Client struct {
	baseURL string
	s2s     ServiceTokenGenerator
	http    *http.Client
	policy  retry.Policy
}

func NewClient(baseURL string, s2s ServiceTokenGenerator, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		s2s:     s2s,
		http:    httpClient,
		policy:  retry.DefaultPolicy,
	}
}

// Upload stores file for the given case type and returns its document
// reference URI.
func (c *Client) Upload(ctx context.Context, authToken, caseType string, file File) (string, error) {
	if !fileNamePattern.MatchString(file.Name) {
		return "", fmt.Errorf("file %q does not pass validation", file.Name)
	}

	s2sToken, err := c.s2s.Generate(ctx)
	if err != nil {
		return "", err
	}

	body, contentType, err := multipartBody(caseType, file)
	if err != nil {
		return "", err
	}

	var uri string
	err = c.policy.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cases/documents", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", authToken)
		req.Header.Set(serviceAuthorizationHeader, s2sToken)
		req.Header.Set("Content-Type", contentType)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("document store request: %w: %w", sentinel.ErrUnavailable, err)
		}
		defer resp.Body.Close()
		if err := classify(resp.StatusCode); err != nil {
			return err
		}

		var out uploadResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return err
		}
		if len(out.Documents) == 0 {
			return fmt.Errorf("document store returned no documents for %q", file.Name)
		}
		uri = out.Documents[0].Links.Self.Href
		if uri == "" {
			return fmt.Errorf("document store returned no self link for %q", file.Name)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("upload document %q: %w", file.Name, err)
	}
	return uri, nil
}

// Download fetches the binary content of a stored document.
func (c *Client) Download(ctx context.Context, authToken, documentID string) ([]byte, error) {
	s2sToken, err := c.s2s.Generate(ctx)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = c.policy.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.baseURL+"/cases/documents/"+documentID+"/binary", nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", authToken)
		req.Header.Set(serviceAuthorizationHeader, s2sToken)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("document store request: %w: %w", sentinel.ErrUnavailable, err)
		}
		defer resp.Body.Close()
		if err := classify(resp.StatusCode); err != nil {
			return err
		}
		data, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("download document %s: %w", documentID, err)
	}
	return data, nil
}

// DocumentIDFromURI extracts the trailing document id from a reference URI.
func DocumentIDFromURI(uri string) string {
	trimmed := strings.TrimSuffix(uri, "/binary")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

func multipartBody(caseType string, file File) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("files", file.Name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	for key, val := range map[string]string{
		"classification": "PUBLIC",
		"caseTypeId":     caseType,
		"jurisdictionId": "EMPLOYMENT",
	} {
		if err := w.WriteField(key, val); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func classify(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return sentinel.ErrNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return sentinel.ErrUnauthorized
	case status >= 500:
		return fmt.Errorf("status %d: %w", status, sentinel.ErrUnavailable)
	default:
		return fmt.Errorf("document store rejected request: status %d", status)
	}
}

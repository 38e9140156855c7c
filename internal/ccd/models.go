package ccd

// Wire models for the case-management platform. Case data stays an opaque
// attribute bag at this level; typed views live in internal/cases/models.

// CaseDetails is the case snapshot returned by every read and event call.
type CaseDetails struct {
	ID           int64          `json:"id"`
	Jurisdiction string         `json:"jurisdiction,omitempty"`
	CaseTypeID   string         `json:"case_type_id,omitempty"`
	State        string         `json:"state,omitempty"`
	Data         map[string]any `json:"case_data,omitempty"`
}

// StartEventResponse carries the single-use event token plus the snapshot the
// mutation must be derived from.
type StartEventResponse struct {
	EventID     string      `json:"event_id"`
	Token       string      `json:"token"`
	CaseDetails CaseDetails `json:"case_details"`
}

// Event names the case event being submitted.
type Event struct {
	ID          string `json:"id"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
}

// CaseDataContent is the submit-event payload. EventToken must be the token
// from the paired start call.
type CaseDataContent struct {
	Event         Event          `json:"event"`
	EventToken    string         `json:"event_token"`
	IgnoreWarning bool           `json:"ignore_warning"`
	Data          map[string]any `json:"data"`
}

// SearchResult is the response of the search index endpoint.
type SearchResult struct {
	Total int           `json:"total"`
	Cases []CaseDetails `json:"cases"`
}

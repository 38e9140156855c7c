// Package applications implements the Tell Something Else workflow: new
// applications, claimant responses, status changes, viewed marking, and the
// stored (draft) application path. Every operation is one begin/commit cycle
// against the case store followed by its side effects.
package applications

import "github.com/hmcts/et-case-api/internal/cases/models"

// ClaimantApplicationRequest submits a new application on a case.
type ClaimantApplicationRequest struct {
	CaseID      string             `json:"case_id"`
	CaseTypeID  string             `json:"case_type_id"`
	ClaimantTse models.ClaimantTse `json:"claimant_tse"`
}

// RespondToApplicationRequest attaches a claimant response to an existing
// application. IsRespondingToRequestOrOrder is set when the response answers
// a tribunal request or order rather than a respondent's application.
type RespondToApplicationRequest struct {
	CaseID                       string                `json:"case_id"`
	CaseTypeID                   string                `json:"case_type_id"`
	ApplicationID                string                `json:"application_id"`
	Response                     string                `json:"response"`
	CopyToOtherParty             string                `json:"copy_to_other_party"`
	SupportingMaterial           []models.DocumentItem `json:"supporting_material,omitempty"`
	IsRespondingToRequestOrOrder bool                  `json:"is_responding_to_request_or_order"`
}

// ChangeApplicationStatusRequest overwrites an application's state.
type ChangeApplicationStatusRequest struct {
	CaseID        string `json:"case_id"`
	CaseTypeID    string `json:"case_type_id"`
	ApplicationID string `json:"application_id"`
	NewStatus     string `json:"new_status"`
}

// TribunalResponseViewedRequest marks one response on one application as
// seen by the claimant.
type TribunalResponseViewedRequest struct {
	CaseID        string `json:"case_id"`
	CaseTypeID    string `json:"case_type_id"`
	ApplicationID string `json:"application_id"`
	ResponseID    string `json:"response_id"`
}

// SubmitStoredApplicationRequest promotes a stored draft application.
type SubmitStoredApplicationRequest struct {
	CaseID        string `json:"case_id"`
	CaseTypeID    string `json:"case_type_id"`
	ApplicationID string `json:"application_id"`
}

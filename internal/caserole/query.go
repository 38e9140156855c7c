// Package caserole locates the case a respondent wants to be assigned to:
// an elevated search by submission reference and party names across both
// jurisdictions, returning the first accepted match.
package caserole

import (
	"encoding/json"
	"fmt"
)

// FindCaseRequest carries the identifying fields a respondent supplies when
// requesting access to a case.
type FindCaseRequest struct {
	CaseSubmissionReference string `json:"case_submission_reference"`
	RespondentName          string `json:"respondent_name"`
	ClaimantFirstNames      string `json:"claimant_first_names"`
	ClaimantLastName        string `json:"claimant_last_name"`
}

// searchQuery builds the search-index query: the submission reference is
// mandatory, and the respondent name and the claimant name must each match
// independently. Size 1 because any accepted match identifies the case.
func searchQuery(req FindCaseRequest) (string, error) {
	match := func(field, value string) map[string]any {
		return map[string]any{"match": map[string]any{field: value}}
	}
	anyOf := func(clauses ...map[string]any) map[string]any {
		return map[string]any{"bool": map[string]any{"should": clauses}}
	}

	// The stored respondent field holds the individual's name for individual
	// respondents and the organisation name otherwise, and sometimes the
	// first and last names joined, so all three fields are alternatives.
	respondent := anyOf(
		match("data.respondentCollection.value.respondentOrganisation.keyword", req.RespondentName),
		match("data.respondentCollection.value.respondent_name.keyword", req.RespondentName),
		match("data.respondent.keyword", req.RespondentName),
	)
	claimant := anyOf(
		map[string]any{"bool": map[string]any{"must": []map[string]any{
			match("data.claimantIndType.claimant_first_names.keyword", req.ClaimantFirstNames),
			match("data.claimantIndType.claimant_last_name.keyword", req.ClaimantLastName),
		}}},
		match("data.claimant.keyword", req.ClaimantFirstNames+" "+req.ClaimantLastName),
	)

	query := map[string]any{
		"size": 1,
		"query": map[string]any{
			"bool": map[string]any{
				"must": []map[string]any{
					match("reference.keyword", req.CaseSubmissionReference),
				},
				"filter": []map[string]any{respondent, claimant},
			},
		},
	}

	raw, err := json.Marshal(query)
	if err != nil {
		return "", fmt.Errorf("encoding case search query: %w", err)
	}
	return string(raw), nil
}

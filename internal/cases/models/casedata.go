// Package models holds the typed view of the case data bag. The case store
// owns the record; these structs exist only for the lifetime of a
// transaction, converted from and back to the opaque attribute map.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	Yes = "Yes"
	No  = "No"
)

// Application workflow states and statuses.
const (
	StateCreated               = "created"
	StateInProgress            = "inProgress"
	StateWaitingForTheTribunal = "waitingForTheTribunal"
	StateViewed                = "viewed"
	StateStored                = "stored"

	StatusOpen   = "Open"
	StatusStored = "Stored"
)

// The fixed enumeration of application types a claimant can raise.
const (
	AppTypeWithdraw            = "withdraw"
	AppTypeAmend               = "amend"
	AppTypeStrike              = "strike"
	AppTypePostpone            = "postpone"
	AppTypeVary                = "vary"
	AppTypeRespondent          = "respondent"
	AppTypePublicity           = "publicity"
	AppTypeNonCompliance       = "non-compliance"
	AppTypeWitness             = "witness"
	AppTypeChangeDetails       = "change-details"
	AppTypeReconsiderDecision  = "reconsider-decision"
	AppTypeReconsiderJudgement = "reconsider-judgement"
	AppTypeOther               = "other"
)

// ShortText maps an application type to the description used in emails and
// document labels.
var ShortText = map[string]string{
	AppTypeWithdraw:            "Withdraw all/part of claim",
	AppTypeAmend:               "Amend my claim",
	AppTypeStrike:              "Strike out all/part of response",
	AppTypePostpone:            "Postpone a hearing",
	AppTypeVary:                "Vary/revoke an order",
	AppTypeRespondent:          "Order respondent to do something",
	AppTypePublicity:           "Restrict publicity",
	AppTypeNonCompliance:       "Tell tribunal respondent not complied",
	AppTypeWitness:             "Order a witness to attend",
	AppTypeChangeDetails:       "Change my personal details",
	AppTypeReconsiderDecision:  "Reconsider a decision",
	AppTypeReconsiderJudgement: "Reconsider judgement",
	AppTypeOther:               "Contact about something else",
}

// CaseData is the typed subset of the case attribute bag this service reads
// and writes. Unknown attributes, top-level or nested, are preserved by
// MergeOver, which overlays this struct back onto the start snapshot.
type CaseData struct {
	EthosCaseReference          string               `json:"ethosCaseReference,omitempty"`
	ManagingOffice              string               `json:"managingOffice,omitempty"`
	TribunalCorrespondenceEmail string               `json:"tribunalCorrespondenceEmail,omitempty"`
	ClaimantIndType             *ClaimantIndType     `json:"claimantIndType,omitempty"`
	ClaimantType                *ClaimantType        `json:"claimantType,omitempty"`
	ClaimantTse                 *ClaimantTse         `json:"claimantTse,omitempty"`
	RespondentCollection        []RespondentItem     `json:"respondentCollection,omitempty"`
	TseApplicationCollection    []TseApplicationItem `json:"genericTseApplicationCollection,omitempty"`
	DocumentCollection          []DocumentItem       `json:"documentCollection,omitempty"`
	HearingCollection           []HearingItem        `json:"hearingCollection,omitempty"`
}

type ClaimantIndType struct {
	FirstNames string `json:"claimant_first_names,omitempty"`
	LastName   string `json:"claimant_last_name,omitempty"`
}

// FullName joins the claimant's names for correspondence.
func (c *ClaimantIndType) FullName() string {
	if c == nil {
		return ""
	}
	if c.FirstNames == "" {
		return c.LastName
	}
	return c.FirstNames + " " + c.LastName
}

type ClaimantType struct {
	EmailAddress string `json:"claimant_email_address,omitempty"`
}

// ClaimantTse is the claimant's Tell Something Else submission payload.
type ClaimantTse struct {
	ContactApplicationType  string       `json:"contactApplicationType,omitempty"`
	ContactApplicationText  string       `json:"contactApplicationText,omitempty"`
	ContactApplicationFile  *DocumentRef `json:"contactApplicationFile,omitempty"`
	CopyToOtherPartyYesOrNo string       `json:"copyToOtherPartyYesOrNo,omitempty"`
	CopyToOtherPartyText    string       `json:"copyToOtherPartyText,omitempty"`
	StoredApplication       string       `json:"storedApplication,omitempty"`
}

type RespondentItem struct {
	ID    string     `json:"id,omitempty"`
	Value Respondent `json:"value"`
}

type Respondent struct {
	Name         string `json:"respondent_name,omitempty"`
	Organisation string `json:"respondentOrganisation,omitempty"`
	Email        string `json:"respondent_email,omitempty"`
}

type DocumentItem struct {
	ID    string       `json:"id,omitempty"`
	Value DocumentType `json:"value"`
}

type DocumentType struct {
	TypeOfDocument   string       `json:"typeOfDocument,omitempty"`
	ShortDescription string       `json:"shortDescription,omitempty"`
	UploadedDocument *DocumentRef `json:"uploadedDocument,omitempty"`
}

type DocumentRef struct {
	URL       string `json:"document_url,omitempty"`
	BinaryURL string `json:"document_binary_url,omitempty"`
	Filename  string `json:"document_filename,omitempty"`
}

type HearingItem struct {
	ID    string  `json:"id,omitempty"`
	Value Hearing `json:"value"`
}

type Hearing struct {
	ListedDate string `json:"listedDate,omitempty"`
}

type TseApplicationItem struct {
	ID    string         `json:"id,omitempty"`
	Value TseApplication `json:"value"`
}

// TseApplication is one claimant or respondent application on the case.
// Applications are only ever appended and transitioned, never removed.
type TseApplication struct {
	Number                   string                 `json:"number,omitempty"`
	Type                     string                 `json:"type,omitempty"`
	Applicant                string                 `json:"applicant,omitempty"`
	Details                  string                 `json:"details,omitempty"`
	Date                     string                 `json:"date,omitempty"`
	DueDate                  string                 `json:"dueDate,omitempty"`
	ApplicationState         string                 `json:"applicationState,omitempty"`
	Status                   string                 `json:"status,omitempty"`
	CopyToOtherPartyYesOrNo  string                 `json:"copyToOtherPartyYesOrNo,omitempty"`
	ClaimantResponseRequired string                 `json:"claimantResponseRequired,omitempty"`
	ResponsesCount           string                 `json:"responsesCount,omitempty"`
	Document                 *DocumentRef           `json:"documentUpload,omitempty"`
	RespondCollection        []TseRespondItem       `json:"respondCollection,omitempty"`
	AdminDecisionCollection  []TseAdminDecisionItem `json:"adminDecision,omitempty"`
}

type TseRespondItem struct {
	ID    string     `json:"id,omitempty"`
	Value TseRespond `json:"value"`
}

// TseRespond is a single response attached to an application. Date, author
// and application type are stamped by the server on creation.
type TseRespond struct {
	From               string         `json:"from,omitempty"`
	Date               string         `json:"date,omitempty"`
	DateTime           string         `json:"dateTime,omitempty"`
	Response           string         `json:"response,omitempty"`
	ApplicationType    string         `json:"applicationType,omitempty"`
	CopyToOtherParty   string         `json:"copyToOtherParty,omitempty"`
	SupportingMaterial []DocumentItem `json:"supportingMaterial,omitempty"`
	ViewedByClaimant   string         `json:"viewedByClaimant,omitempty"`
}

type TseAdminDecisionItem struct {
	ID    string           `json:"id,omitempty"`
	Value TseAdminDecision `json:"value"`
}

type TseAdminDecision struct {
	Date     string `json:"date,omitempty"`
	Decision string `json:"decision,omitempty"`
	Details  string `json:"enterNotes,omitempty"`
}

// Date formats used on the case record.
const (
	ukDateLayout   = "02 Jan 2006"
	dateTimeLayout = "2006-01-02T15:04:05.000"
)

// FormatDate renders a date the way the tribunal record displays it.
func FormatDate(t time.Time) string {
	return t.Format(ukDateLayout)
}

// FormatDateTime renders a creation timestamp for response entries.
func FormatDateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

// FormatDatePlusDays stamps deadline fields such as an application due date.
func FormatDatePlusDays(t time.Time, days int) string {
	return t.AddDate(0, 0, days).Format(ukDateLayout)
}

// NearestHearingDate returns the earliest listed hearing after now, or
// fallback when none is scheduled.
func (d *CaseData) NearestHearingDate(now time.Time, fallback string) string {
	var nearest time.Time
	for _, item := range d.HearingCollection {
		listed, err := time.Parse(time.RFC3339, item.Value.ListedDate)
		if err != nil {
			if listed, err = time.Parse(dateTimeLayout, item.Value.ListedDate); err != nil {
				continue
			}
		}
		if listed.Before(now) {
			continue
		}
		if nearest.IsZero() || listed.Before(nearest) {
			nearest = listed
		}
	}
	if nearest.IsZero() {
		return fallback
	}
	return FormatDate(nearest)
}

// RespondentNames joins all respondent display names for email content.
func (d *CaseData) RespondentNames() string {
	names := ""
	for _, item := range d.RespondentCollection {
		name := item.Value.Name
		if name == "" {
			name = item.Value.Organisation
		}
		if name == "" {
			continue
		}
		if names != "" {
			names += ", "
		}
		names += name
	}
	return names
}

// ClaimantEmail returns the claimant's correspondence address, empty when
// none is held.
func (d *CaseData) ClaimantEmail() string {
	if d.ClaimantType == nil {
		return ""
	}
	return d.ClaimantType.EmailAddress
}

// MergeOver overlays the typed view onto the original attribute bag,
// preserving attributes this service does not model. The merge is deep:
// nested objects keep their unmodelled keys, and collection items are
// paired by id so attributes inside an application or document the structs
// do not carry survive a workflow commit.
func (d CaseData) MergeOver(original map[string]any) (map[string]any, error) {
	encoded, err := d.ToDataMap()
	if err != nil {
		return nil, err
	}
	return mergeMaps(original, encoded), nil
}

// mergeMaps returns base with overlay applied on top. Matching maps merge
// recursively; anything else the overlay value replaces outright.
func mergeMaps(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		if bm, ok := out[k].(map[string]any); ok {
			if om, ok := v.(map[string]any); ok {
				out[k] = mergeMaps(bm, om)
				continue
			}
		}
		if bl, ok := out[k].([]any); ok {
			if ol, ok := v.([]any); ok {
				out[k] = mergeList(bl, ol)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// mergeList pairs collection items by their id, falling back to position
// for items without one. Items only the overlay has, such as a freshly
// appended application or response, are carried through unchanged. The
// overlay drives the result; this service never removes items.
func mergeList(base, overlay []any) []any {
	out := make([]any, 0, len(overlay))
	for i, item := range overlay {
		om, ok := item.(map[string]any)
		if !ok {
			out = append(out, item)
			continue
		}
		if bm, ok := counterpart(base, om, i); ok {
			out = append(out, mergeMaps(bm, om))
			continue
		}
		out = append(out, om)
	}
	return out
}

func counterpart(base []any, item map[string]any, pos int) (map[string]any, bool) {
	if id, ok := item["id"].(string); ok && id != "" {
		for _, candidate := range base {
			if m, ok := candidate.(map[string]any); ok && m["id"] == id {
				return m, true
			}
		}
		return nil, false
	}
	if pos < len(base) {
		m, ok := base[pos].(map[string]any)
		return m, ok
	}
	return nil, false
}

// FromDataMap decodes the opaque case data bag into the typed view.
func FromDataMap(data map[string]any) (CaseData, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return CaseData{}, fmt.Errorf("encode case data: %w", err)
	}
	var out CaseData
	if err := json.Unmarshal(raw, &out); err != nil {
		return CaseData{}, fmt.Errorf("decode case data: %w", err)
	}
	return out, nil
}

// ToDataMap encodes the typed view back into an attribute map for submit.
func (d CaseData) ToDataMap() (map[string]any, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode case data: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode case data: %w", err)
	}
	return out, nil
}

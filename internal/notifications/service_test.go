package notifications

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmcts/et-case-api/internal/cases/models"
	"github.com/hmcts/et-case-api/internal/ccd"
)

type sentEmail struct {
	templateID string
	address    string
	params     map[string]any
}

type fakeSender struct {
	sent    []sentEmail
	failOn  string // template id that fails
	failErr error
}

func (f *fakeSender) SendEmail(_ context.Context, templateID, address string, p map[string]any, _ string) (string, error) {
	if templateID == f.failOn {
		return "", f.failErr
	}
	f.sent = append(f.sent, sentEmail{templateID: templateID, address: address, params: p})
	return "dispatch-1", nil
}

var testTemplates = Templates{
	CaseSubmitted:                    "t-submitted",
	ApplicationAcknowledgementTypeA:  "t-ack-a",
	ApplicationAcknowledgementTypeB:  "t-ack-b",
	ApplicationAcknowledgementTypeC:  "t-ack-c",
	ApplicationAcknowledgementNoCopy: "t-ack-nocopy",
	RespondentApplicationCopy:        "t-resp-copy",
	TribunalApplication:              "t-trib-app",
	ResponseAcknowledgement:          "t-response-ack",
	RespondentResponseCopy:           "t-resp-response",
	TribunalResponse:                 "t-trib-response",
	StoredApplicationConfirmation:    "t-stored",
}

func newTestData() models.CaseData {
	return models.CaseData{
		EthosCaseReference:          "6000001/2026",
		TribunalCorrespondenceEmail: "tribunal@example.com",
		ClaimantIndType:             &models.ClaimantIndType{FirstNames: "Jo", LastName: "Bloggs"},
		ClaimantType:                &models.ClaimantType{EmailAddress: "jo@example.com"},
		RespondentCollection: []models.RespondentItem{
			{Value: models.Respondent{Name: "Acme Ltd", Email: "acme@example.com"}},
			{Value: models.Respondent{Name: "No Email Ltd"}},
		},
	}
}

func newTestNotifications(sender *fakeSender) *Service {
	svc := NewService(sender, testTemplates, "https://tribunal.example/citizen-hub/", nil, slog.Default())
	svc.now = func() time.Time { return time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC) }
	return svc
}

func addresses(sent []sentEmail) []string {
	out := make([]string, 0, len(sent))
	for _, e := range sent {
		out = append(out, e.address)
	}
	return out
}

func TestTierOf(t *testing.T) {
	for _, tc := range []struct {
		appType string
		want    Tier
	}{
		{models.AppTypeAmend, TierA},
		{models.AppTypeStrike, TierA},
		{models.AppTypePostpone, TierA},
		{models.AppTypeWithdraw, TierB},
		{models.AppTypeChangeDetails, TierB},
		{models.AppTypeReconsiderJudgement, TierB},
		{models.AppTypeWitness, TierC},
	} {
		assert.Equal(t, tc.want, TierOf(tc.appType), tc.appType)
	}
}

func TestApplicationAcknowledgementsTypeACopied(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestNotifications(sender)

	err := svc.SendApplicationAcknowledgements(context.Background(), ccd.CaseDetails{ID: 1234}, newTestData(),
		models.ClaimantTse{ContactApplicationType: models.AppTypeAmend, CopyToOtherPartyYesOrNo: models.Yes})
	require.NoError(t, err)

	require.Len(t, sender.sent, 3)
	assert.Equal(t, "t-ack-a", sender.sent[0].templateID)
	assert.Equal(t, []string{"jo@example.com", "acme@example.com", "tribunal@example.com"}, addresses(sender.sent))
	assert.Equal(t, "Amend my claim", sender.sent[0].params["shortText"])
	assert.Equal(t, "6000001/2026", sender.sent[0].params["caseNumber"])
}

func TestApplicationAcknowledgementsCopySuppressed(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestNotifications(sender)

	err := svc.SendApplicationAcknowledgements(context.Background(), ccd.CaseDetails{ID: 1234}, newTestData(),
		models.ClaimantTse{ContactApplicationType: models.AppTypeAmend, CopyToOtherPartyYesOrNo: models.No})
	require.NoError(t, err)

	assert.Equal(t, []string{"jo@example.com", "tribunal@example.com"}, addresses(sender.sent))
	assert.Equal(t, "t-ack-nocopy", sender.sent[0].templateID)
}

func TestApplicationAcknowledgementsWitnessNeverCopied(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestNotifications(sender)

	err := svc.SendApplicationAcknowledgements(context.Background(), ccd.CaseDetails{ID: 1234}, newTestData(),
		models.ClaimantTse{ContactApplicationType: models.AppTypeWitness, CopyToOtherPartyYesOrNo: models.Yes})
	require.NoError(t, err)

	assert.Equal(t, []string{"jo@example.com", "tribunal@example.com"}, addresses(sender.sent))
	assert.Equal(t, "t-ack-c", sender.sent[0].templateID)
}

func TestApplicationAcknowledgementsStopAtFirstFailure(t *testing.T) {
	sender := &fakeSender{failOn: "t-resp-copy", failErr: errors.New("gateway down")}
	svc := newTestNotifications(sender)

	err := svc.SendApplicationAcknowledgements(context.Background(), ccd.CaseDetails{ID: 1234}, newTestData(),
		models.ClaimantTse{ContactApplicationType: models.AppTypeVary, CopyToOtherPartyYesOrNo: models.Yes})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "respondent")

	// Claimant leg delivered, tribunal leg never attempted.
	assert.Equal(t, []string{"jo@example.com"}, addresses(sender.sent))
}

func TestResponseAcknowledgementsTypeB(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestNotifications(sender)

	err := svc.SendResponseAcknowledgements(context.Background(), ccd.CaseDetails{ID: 1234}, newTestData(),
		models.AppTypeWithdraw, models.Yes)
	require.NoError(t, err)
	assert.Equal(t, []string{"jo@example.com", "acme@example.com", "tribunal@example.com"}, addresses(sender.sent))
}

func TestStoredConfirmationClaimantOnly(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestNotifications(sender)

	err := svc.SendStoredApplicationConfirmation(context.Background(), ccd.CaseDetails{ID: 1234}, newTestData(),
		models.AppTypeOther)
	require.NoError(t, err)
	assert.Equal(t, []string{"jo@example.com"}, addresses(sender.sent))
	assert.Equal(t, "t-stored", sender.sent[0].templateID)
}

func TestCaseSubmittedConfirmationSkipsWhenNoAddress(t *testing.T) {
	sender := &fakeSender{}
	svc := newTestNotifications(sender)

	data := newTestData()
	data.ClaimantType = nil
	err := svc.SendCaseSubmittedConfirmation(context.Background(), ccd.CaseDetails{ID: 1234}, data)
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

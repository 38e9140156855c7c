package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/hmcts/et-case-api/internal/cases/models"
	"github.com/hmcts/et-case-api/internal/ccd"
	"github.com/hmcts/et-case-api/internal/platform/metrics"
)

// Tier groups application types by the notice the other party receives.
type Tier int

const (
	// TierA applications open an objection window for the respondent.
	TierA Tier = iota
	// TierB applications expect no response from the respondent.
	TierB
	// TierC applications are never copied to the respondent.
	TierC
)

// TierOf classifies an application type. Witness orders are the only tier C
// type; the respondent is not told about them.
func TierOf(applicationType string) Tier {
	switch applicationType {
	case models.AppTypeWithdraw, models.AppTypeChangeDetails,
		models.AppTypeReconsiderDecision, models.AppTypeReconsiderJudgement:
		return TierB
	case models.AppTypeWitness:
		return TierC
	default:
		return TierA
	}
}

// EmailSender is the gateway slice this service needs.
type EmailSender interface {
	SendEmail(ctx context.Context, templateID, address string, personalisation map[string]any, reference string) (string, error)
}

// Service sends the emails around committed case mutations. Dispatch
// failures are never swallowed here; the caller decides how a post-commit
// failure is reported.
type Service struct {
	sender     EmailSender
	templates  Templates
	portalLink string
	metrics    *metrics.Metrics
	log        *slog.Logger
	now        func() time.Time
}

func NewService(sender EmailSender, templates Templates, portalLink string, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{
		sender:     sender,
		templates:  templates,
		portalLink: portalLink,
		metrics:    m,
		log:        log,
		now:        time.Now,
	}
}

// SendCaseSubmittedConfirmation tells the claimant their claim was received.
func (s *Service) SendCaseSubmittedConfirmation(ctx context.Context, details ccd.CaseDetails, data models.CaseData) error {
	address := data.ClaimantEmail()
	if address == "" {
		s.log.WarnContext(ctx, "no claimant email on record, skipping confirmation", "case_id", details.ID)
		return nil
	}
	return s.send(ctx, "claimant", s.templates.CaseSubmitted, address, s.basePersonalisation(details, data))
}

// SendApplicationAcknowledgements runs the post-commit emails for a new
// application: claimant first, then respondents (unless tier C or the
// claimant declined to copy them), then the tribunal. Dispatch stops at the
// first failure so the caller knows which leg was not delivered.
func (s *Service) SendApplicationAcknowledgements(ctx context.Context, details ccd.CaseDetails, data models.CaseData, app models.ClaimantTse) error {
	tier := TierOf(app.ContactApplicationType)
	p := s.basePersonalisation(details, data)
	p["shortText"] = models.ShortText[app.ContactApplicationType]

	if addr := data.ClaimantEmail(); addr != "" {
		if err := s.send(ctx, "claimant", s.claimantAckTemplate(tier, app.CopyToOtherPartyYesOrNo), addr, p); err != nil {
			return err
		}
	}

	if tier != TierC && app.CopyToOtherPartyYesOrNo == models.Yes {
		if err := s.sendToRespondents(ctx, data, s.templates.RespondentApplicationCopy, p); err != nil {
			return err
		}
	}

	return s.sendToTribunal(ctx, data, s.templates.TribunalApplication, p)
}

// SendResponseAcknowledgements runs the post-commit emails for a claimant's
// response to an existing application.
func (s *Service) SendResponseAcknowledgements(ctx context.Context, details ccd.CaseDetails, data models.CaseData, applicationType, copyToOtherParty string) error {
	p := s.basePersonalisation(details, data)
	p["shortText"] = models.ShortText[applicationType]

	if addr := data.ClaimantEmail(); addr != "" {
		if err := s.send(ctx, "claimant", s.templates.ResponseAcknowledgement, addr, p); err != nil {
			return err
		}
	}

	if TierOf(applicationType) != TierC && copyToOtherParty == models.Yes {
		if err := s.sendToRespondents(ctx, data, s.templates.RespondentResponseCopy, p); err != nil {
			return err
		}
	}

	return s.sendToTribunal(ctx, data, s.templates.TribunalResponse, p)
}

// SendStoredApplicationConfirmation acknowledges a submitted stored
// application to the claimant only; tribunal and respondent notification for
// this path is handled when the tribunal processes the application.
func (s *Service) SendStoredApplicationConfirmation(ctx context.Context, details ccd.CaseDetails, data models.CaseData, applicationType string) error {
	address := data.ClaimantEmail()
	if address == "" {
		s.log.WarnContext(ctx, "no claimant email on record, skipping stored confirmation", "case_id", details.ID)
		return nil
	}
	p := s.basePersonalisation(details, data)
	p["shortText"] = models.ShortText[applicationType]
	return s.send(ctx, "claimant", s.templates.StoredApplicationConfirmation, address, p)
}

func (s *Service) claimantAckTemplate(tier Tier, copyToOtherParty string) string {
	if tier == TierC {
		return s.templates.ApplicationAcknowledgementTypeC
	}
	if copyToOtherParty != models.Yes {
		return s.templates.ApplicationAcknowledgementNoCopy
	}
	if tier == TierA {
		return s.templates.ApplicationAcknowledgementTypeA
	}
	return s.templates.ApplicationAcknowledgementTypeB
}

func (s *Service) sendToRespondents(ctx context.Context, data models.CaseData, templateID string, p map[string]any) error {
	for _, item := range data.RespondentCollection {
		if item.Value.Email == "" {
			continue
		}
		if err := s.send(ctx, "respondent", templateID, item.Value.Email, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) sendToTribunal(ctx context.Context, data models.CaseData, templateID string, p map[string]any) error {
	if data.TribunalCorrespondenceEmail == "" {
		return nil
	}
	return s.send(ctx, "tribunal", templateID, data.TribunalCorrespondenceEmail, p)
}

func (s *Service) send(ctx context.Context, recipient, templateID, address string, p map[string]any) error {
	reference := fmt.Sprint(p["caseNumber"])
	if _, err := s.sender.SendEmail(ctx, templateID, address, p, reference); err != nil {
		if s.metrics != nil {
			s.metrics.EmailFailures.WithLabelValues(recipient).Inc()
		}
		return fmt.Errorf("sending %s email: %w", recipient, err)
	}
	if s.metrics != nil {
		s.metrics.EmailsSent.WithLabelValues(recipient).Inc()
	}
	return nil
}

func (s *Service) basePersonalisation(details ccd.CaseDetails, data models.CaseData) map[string]any {
	caseNumber := data.EthosCaseReference
	if caseNumber == "" {
		caseNumber = strconv.FormatInt(details.ID, 10)
	}
	return map[string]any{
		"caseNumber":       caseNumber,
		"claimant":         data.ClaimantIndType.FullName(),
		"respondentNames":  data.RespondentNames(),
		"hearingDate":      data.NearestHearingDate(s.now(), "Not set"),
		"date":             models.FormatDate(s.now()),
		"linkToCitizenHub": s.portalLink + strconv.FormatInt(details.ID, 10),
		"caseId":           strconv.FormatInt(details.ID, 10),
	}
}

package applications

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/hmcts/et-case-api/internal/cases"
	"github.com/hmcts/et-case-api/internal/cases/models"
	"github.com/hmcts/et-case-api/internal/cases/transactor"
	"github.com/hmcts/et-case-api/internal/ccd"
	"github.com/hmcts/et-case-api/internal/docstore"
	"github.com/hmcts/et-case-api/internal/platform/metrics"
	domainerrors "github.com/hmcts/et-case-api/pkg/domain-errors"
)

// Mutator runs begin/commit cycles against the case store.
type Mutator interface {
	Begin(ctx context.Context, authToken, caseID, caseType, eventName string) (*transactor.Transaction, error)
	Commit(ctx context.Context, authToken string, tx *transactor.Transaction, data map[string]any) (ccd.CaseDetails, error)
}

// DocumentUploader stores generated documents.
type DocumentUploader interface {
	Upload(ctx context.Context, authToken, caseType string, file docstore.File) (string, error)
}

// Renderer produces the summary documents for applications and responses.
type Renderer interface {
	ApplicationSummary(data models.CaseData, app models.ClaimantTse, caseID string) (docstore.File, error)
	ResponseSummary(data models.CaseData, appType, response, caseID string) (docstore.File, error)
}

// Notifier dispatches the post-commit emails.
type Notifier interface {
	SendApplicationAcknowledgements(ctx context.Context, details ccd.CaseDetails, data models.CaseData, app models.ClaimantTse) error
	SendResponseAcknowledgements(ctx context.Context, details ccd.CaseDetails, data models.CaseData, applicationType, copyToOtherParty string) error
	SendStoredApplicationConfirmation(ctx context.Context, details ccd.CaseDetails, data models.CaseData, applicationType string) error
}

// Service implements the application workflow transitions.
type Service struct {
	tx       Mutator
	docs     DocumentUploader
	pdf      Renderer
	notifier Notifier
	metrics  *metrics.Metrics
	log      *slog.Logger
	now      func() time.Time
	newID    func() string
}

func NewService(tx Mutator, docs DocumentUploader, pdf Renderer, notifier Notifier, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{
		tx:       tx,
		docs:     docs,
		pdf:      pdf,
		notifier: notifier,
		metrics:  m,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// SubmitApplication creates a new application on the case. The summary
// document is uploaded before the commit and its failure is swallowed; the
// acknowledgement emails run after the commit and their failure accompanies
// the committed case.
func (s *Service) SubmitApplication(ctx context.Context, authToken string, req ClaimantApplicationRequest) (ccd.CaseDetails, error) {
	tx, err := s.tx.Begin(ctx, authToken, req.CaseID, req.CaseTypeID, cases.EventSubmitClaimantTSE)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.FromInfra(err, "starting application submission")
	}
	data, err := models.FromDataMap(tx.Snapshot.Data)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "decoding case data")
	}

	claimantTse := req.ClaimantTse
	data.ClaimantTse = &claimantTse
	s.attachApplicationSummary(ctx, authToken, req.CaseID, req.CaseTypeID, &data, claimantTse)

	app := s.newApplication(&data, claimantTse)
	app.Value.ApplicationState = models.StateCreated
	app.Value.Status = models.StatusOpen
	data.TseApplicationCollection = append(data.TseApplicationCollection, app)

	committed, err := s.commit(ctx, authToken, tx, data)
	if err != nil {
		return ccd.CaseDetails{}, err
	}

	if err := s.notifier.SendApplicationAcknowledgements(ctx, committed, data, claimantTse); err != nil {
		return committed, domainerrors.Wrap(err, domainerrors.CodeNotification,
			"application submitted, acknowledgement not guaranteed")
	}
	return committed, nil
}

// StoreApplication saves an application as an un-submitted draft. Drafts are
// invisible to the tribunal and respondents; only the claimant gets a
// confirmation.
func (s *Service) StoreApplication(ctx context.Context, authToken string, req ClaimantApplicationRequest) (ccd.CaseDetails, error) {
	tx, err := s.tx.Begin(ctx, authToken, req.CaseID, req.CaseTypeID, cases.EventStoreClaimantTSE)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.FromInfra(err, "starting application store")
	}
	data, err := models.FromDataMap(tx.Snapshot.Data)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "decoding case data")
	}

	claimantTse := req.ClaimantTse
	claimantTse.StoredApplication = models.Yes
	data.ClaimantTse = &claimantTse

	app := s.newApplication(&data, claimantTse)
	app.Value.Date = ""
	app.Value.DueDate = ""
	app.Value.ApplicationState = models.StateStored
	app.Value.Status = models.StatusStored
	data.TseApplicationCollection = append(data.TseApplicationCollection, app)

	committed, err := s.commit(ctx, authToken, tx, data)
	if err != nil {
		return ccd.CaseDetails{}, err
	}

	if err := s.notifier.SendStoredApplicationConfirmation(ctx, committed, data, claimantTse.ContactApplicationType); err != nil {
		return committed, domainerrors.Wrap(err, domainerrors.CodeNotification,
			"application stored, confirmation not guaranteed")
	}
	return committed, nil
}

// ChangeApplicationStatus overwrites an application's state with the
// caller-supplied value. An unknown application id aborts before any commit.
func (s *Service) ChangeApplicationStatus(ctx context.Context, authToken string, req ChangeApplicationStatusRequest) (ccd.CaseDetails, error) {
	tx, err := s.tx.Begin(ctx, authToken, req.CaseID, req.CaseTypeID, cases.EventUpdateApplicationState)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.FromInfra(err, "starting status change")
	}
	data, err := models.FromDataMap(tx.Snapshot.Data)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "decoding case data")
	}

	app, err := findApplication(&data, req.ApplicationID)
	if err != nil {
		return ccd.CaseDetails{}, err
	}
	app.Value.ApplicationState = req.NewStatus

	return s.commit(ctx, authToken, tx, data)
}

// MarkResponseViewed flags one tribunal response as seen by the claimant.
// Both lookups must hit; either miss aborts before any commit.
func (s *Service) MarkResponseViewed(ctx context.Context, authToken string, req TribunalResponseViewedRequest) (ccd.CaseDetails, error) {
	tx, err := s.tx.Begin(ctx, authToken, req.CaseID, req.CaseTypeID, cases.EventUpdateNotificationState)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.FromInfra(err, "starting viewed mark")
	}
	data, err := models.FromDataMap(tx.Snapshot.Data)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "decoding case data")
	}

	app, err := findApplication(&data, req.ApplicationID)
	if err != nil {
		return ccd.CaseDetails{}, err
	}
	resp, err := findResponse(app, req.ResponseID)
	if err != nil {
		return ccd.CaseDetails{}, err
	}
	resp.Value.ViewedByClaimant = models.Yes

	return s.commit(ctx, authToken, tx, data)
}

// newApplication builds the collection entry for a fresh application. The
// sequence number is the collection size at call time plus one; entries are
// never removed, so numbers stay unique.
func (s *Service) newApplication(data *models.CaseData, claimantTse models.ClaimantTse) models.TseApplicationItem {
	now := s.now()
	return models.TseApplicationItem{
		ID: s.newID(),
		Value: models.TseApplication{
			Number:                  strconv.Itoa(len(data.TseApplicationCollection) + 1),
			Type:                    claimantTse.ContactApplicationType,
			Applicant:               "Claimant",
			Details:                 claimantTse.ContactApplicationText,
			Date:                    models.FormatDate(now),
			DueDate:                 models.FormatDatePlusDays(now, 7),
			CopyToOtherPartyYesOrNo: claimantTse.CopyToOtherPartyYesOrNo,
			Document:                claimantTse.ContactApplicationFile,
		},
	}
}

// attachApplicationSummary renders and uploads the check-your-answers
// document, appending it and any claimant-supplied file to the case's
// document collection. Failures are logged and swallowed.
func (s *Service) attachApplicationSummary(ctx context.Context, authToken, caseID, caseType string, data *models.CaseData, claimantTse models.ClaimantTse) {
	label := models.ShortText[claimantTse.ContactApplicationType]

	file, err := s.pdf.ApplicationSummary(*data, claimantTse, caseID)
	if err != nil {
		s.documentFailure(ctx, caseID, "rendering application summary", err)
	} else if url, err := s.docs.Upload(ctx, authToken, caseType, file); err != nil {
		s.documentFailure(ctx, caseID, "uploading application summary", err)
	} else {
		if s.metrics != nil {
			s.metrics.DocumentsUploaded.Inc()
		}
		data.DocumentCollection = append(data.DocumentCollection, models.DocumentItem{
			Value: models.DocumentType{
				TypeOfDocument:   label,
				ShortDescription: fmt.Sprintf("Application summary - %s", label),
				UploadedDocument: &models.DocumentRef{URL: url, BinaryURL: url + "/binary", Filename: file.Name},
			},
		})
	}

	if claimantTse.ContactApplicationFile != nil {
		data.DocumentCollection = append(data.DocumentCollection, models.DocumentItem{
			Value: models.DocumentType{
				TypeOfDocument:   label,
				ShortDescription: fmt.Sprintf("Supporting material - %s", label),
				UploadedDocument: claimantTse.ContactApplicationFile,
			},
		})
	}
}

func (s *Service) commit(ctx context.Context, authToken string, tx *transactor.Transaction, data models.CaseData) (ccd.CaseDetails, error) {
	merged, err := data.MergeOver(tx.Snapshot.Data)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "encoding case data")
	}
	committed, err := s.tx.Commit(ctx, authToken, tx, merged)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.FromInfra(err, fmt.Sprintf("committing %s", tx.EventName))
	}
	return committed, nil
}

func (s *Service) documentFailure(ctx context.Context, caseID, step string, err error) {
	if s.metrics != nil {
		s.metrics.DocumentUploadFailures.Inc()
	}
	s.log.ErrorContext(ctx, "document step failed, continuing",
		"case_id", caseID, "step", step, "error", err)
}

// Package cases exposes the case-level operations of the claim service:
// reading a citizen's cases, creating and updating drafts, and submitting a
// completed claim. Every mutation goes through the transactor's begin/commit
// cycle; the case store is the only source of truth.
package cases

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/hmcts/et-case-api/internal/cases/models"
	"github.com/hmcts/et-case-api/internal/cases/transactor"
	"github.com/hmcts/et-case-api/internal/ccd"
	"github.com/hmcts/et-case-api/internal/docstore"
	"github.com/hmcts/et-case-api/internal/platform/metrics"
	domainerrors "github.com/hmcts/et-case-api/pkg/domain-errors"
)

// CaseAPI is the read-side slice of the case store client.
type CaseAPI interface {
	GetCase(ctx context.Context, authToken, s2sToken, caseID string) (ccd.CaseDetails, error)
	SearchCases(ctx context.Context, authToken, s2sToken, caseType, query string) (ccd.SearchResult, error)
}

// Mutator runs begin/commit cycles against the case store.
type Mutator interface {
	Begin(ctx context.Context, authToken, caseID, caseType, eventName string) (*transactor.Transaction, error)
	BeginCreate(ctx context.Context, authToken, caseType, eventName string) (*transactor.Transaction, error)
	Commit(ctx context.Context, authToken string, tx *transactor.Transaction, data map[string]any) (ccd.CaseDetails, error)
}

// ServiceTokenGenerator leases s2s tokens for the read path.
type ServiceTokenGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// DocumentUploader stores generated documents against a case type.
type DocumentUploader interface {
	Upload(ctx context.Context, authToken, caseType string, file docstore.File) (string, error)
}

// SummaryRenderer produces the claim summary document for a submitted case.
type SummaryRenderer interface {
	ClaimSummary(data models.CaseData, caseID string) (docstore.File, error)
}

// Notifier sends the claimant the submission confirmation.
type Notifier interface {
	SendCaseSubmittedConfirmation(ctx context.Context, details ccd.CaseDetails, data models.CaseData) error
}

// Service implements the case operations.
type Service struct {
	store    CaseAPI
	tx       Mutator
	s2s      ServiceTokenGenerator
	docs     DocumentUploader
	renderer SummaryRenderer
	notifier Notifier
	metrics  *metrics.Metrics
	log      *slog.Logger
}

func NewService(store CaseAPI, tx Mutator, s2s ServiceTokenGenerator, docs DocumentUploader, renderer SummaryRenderer, notifier Notifier, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		tx:       tx,
		s2s:      s2s,
		docs:     docs,
		renderer: renderer,
		notifier: notifier,
		metrics:  m,
		log:      log,
	}
}

// GetUserCase fetches a single case by id.
func (s *Service) GetUserCase(ctx context.Context, authToken, caseID string) (ccd.CaseDetails, error) {
	s2sToken, err := s.s2s.Generate(ctx)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.FromInfra(err, "leasing service token")
	}
	details, err := s.store.GetCase(ctx, authToken, s2sToken, caseID)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.FromInfra(err, fmt.Sprintf("fetching case %s", caseID))
	}
	return details, nil
}

const allCasesQuery = `{"size":100,"sort":[{"created_date":{"order":"desc"}}],"query":{"match_all":{}}}`

// GetAllUserCases lists the citizen's cases across both jurisdictions. The
// two searches are independent, so they run concurrently.
func (s *Service) GetAllUserCases(ctx context.Context, authToken string) ([]ccd.CaseDetails, error) {
	s2sToken, err := s.s2s.Generate(ctx)
	if err != nil {
		return nil, domainerrors.FromInfra(err, "leasing service token")
	}

	results := make([][]ccd.CaseDetails, 2)
	g, gctx := errgroup.WithContext(ctx)
	for i, caseType := range []string{ccd.CaseTypeEnglandWales, ccd.CaseTypeScotland} {
		i, caseType := i, caseType
		g.Go(func() error {
			res, err := s.store.SearchCases(gctx, authToken, s2sToken, caseType, allCasesQuery)
			if err != nil {
				return fmt.Errorf("searching %s cases: %w", caseType, err)
			}
			results[i] = res.Cases
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domainerrors.FromInfra(err, "listing user cases")
	}
	return append(results[0], results[1]...), nil
}

// CreateCase initiates a draft case in the given jurisdiction.
func (s *Service) CreateCase(ctx context.Context, authToken, caseType string, data map[string]any) (ccd.CaseDetails, error) {
	tx, err := s.tx.BeginCreate(ctx, authToken, caseType, EventInitiateCaseDraft)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.FromInfra(err, "starting case creation")
	}
	created, err := s.tx.Commit(ctx, authToken, tx, data)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.FromInfra(err, "committing case creation")
	}
	return created, nil
}

// UpdateCase overwrites the draft's answers with the caller-supplied data.
func (s *Service) UpdateCase(ctx context.Context, authToken, caseID, caseType string, data map[string]any) (ccd.CaseDetails, error) {
	return s.TriggerEvent(ctx, authToken, caseID, caseType, EventUpdateCaseDraft,
		func(map[string]any) (map[string]any, error) { return data, nil })
}

// TriggerEvent runs one begin/mutate/commit cycle: the mutate callback
// receives the freshly started snapshot's data and returns the data to
// submit. A mutate error abandons the transaction; its token goes unused.
func (s *Service) TriggerEvent(ctx context.Context, authToken, caseID, caseType, eventName string, mutate func(map[string]any) (map[string]any, error)) (ccd.CaseDetails, error) {
	tx, err := s.tx.Begin(ctx, authToken, caseID, caseType, eventName)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.FromInfra(err, fmt.Sprintf("starting event %s", eventName))
	}
	data, err := mutate(tx.Snapshot.Data)
	if err != nil {
		return ccd.CaseDetails{}, err
	}
	committed, err := s.tx.Commit(ctx, authToken, tx, data)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.FromInfra(err, fmt.Sprintf("committing event %s", eventName))
	}
	return committed, nil
}

// SubmitCase submits a completed draft. The claim summary document is
// generated and attached before the commit; a document failure is logged and
// the submission proceeds without it. The confirmation email runs after the
// commit, and its failure surfaces alongside the committed case.
func (s *Service) SubmitCase(ctx context.Context, authToken, caseID, caseType string) (ccd.CaseDetails, error) {
	var caseData models.CaseData
	committed, err := s.TriggerEvent(ctx, authToken, caseID, caseType, EventSubmitCaseDraft,
		func(data map[string]any) (map[string]any, error) {
			decoded, err := models.FromDataMap(data)
			if err != nil {
				return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "decoding case data")
			}
			caseData = decoded
			s.attachClaimSummary(ctx, authToken, caseID, caseType, &caseData)
			return caseData.MergeOver(data)
		})
	if err != nil {
		return ccd.CaseDetails{}, err
	}

	if err := s.notifier.SendCaseSubmittedConfirmation(ctx, committed, caseData); err != nil {
		return committed, domainerrors.Wrap(err, domainerrors.CodeNotification, "case submitted, confirmation email failed")
	}
	return committed, nil
}

// attachClaimSummary renders and uploads the claim summary, appending it to
// the document collection. Failures are swallowed; the submission must not
// depend on the document store.
func (s *Service) attachClaimSummary(ctx context.Context, authToken, caseID, caseType string, data *models.CaseData) {
	file, err := s.renderer.ClaimSummary(*data, caseID)
	if err != nil {
		s.documentFailure(ctx, caseID, "rendering claim summary", err)
		return
	}
	url, err := s.docs.Upload(ctx, authToken, caseType, file)
	if err != nil {
		s.documentFailure(ctx, caseID, "uploading claim summary", err)
		return
	}
	if s.metrics != nil {
		s.metrics.DocumentsUploaded.Inc()
	}
	data.DocumentCollection = append(data.DocumentCollection, models.DocumentItem{
		Value: models.DocumentType{
			TypeOfDocument:   "ET1",
			ShortDescription: "Claim summary",
			UploadedDocument: &models.DocumentRef{
				URL:       url,
				BinaryURL: url + "/binary",
				Filename:  file.Name,
			},
		},
	})
}

func (s *Service) documentFailure(ctx context.Context, caseID, step string, err error) {
	if s.metrics != nil {
		s.metrics.DocumentUploadFailures.Inc()
	}
	s.log.ErrorContext(ctx, "document step failed, continuing",
		"case_id", caseID, "step", step, "error", err)
}

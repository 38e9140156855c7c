// Package transactor implements the two-phase mutation protocol against the
// case store: begin a named event, mutate the snapshot in memory, then
// commit. Concurrency control belongs to the store's event token; the
// transactor's job is to make sure each token is used exactly once.
package transactor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/hmcts/et-case-api/internal/ccd"
	"github.com/hmcts/et-case-api/internal/idam"
	"github.com/hmcts/et-case-api/internal/platform/metrics"
	"github.com/hmcts/et-case-api/pkg/platform/sentinel"
)

// Transaction is the ephemeral handle between a begin and its commit. The
// token inside is single-use: Commit consumes it, and a second Commit fails
// fast locally instead of reaching the store.
type Transaction struct {
	CaseID    string
	CaseType  string
	EventID   string
	EventName string
	Snapshot  ccd.CaseDetails

	token    string
	userID   string
	consumed atomic.Bool
}

// CaseAPI is the slice of the case store client the transactor needs.
type CaseAPI interface {
	StartEventForCitizen(ctx context.Context, authToken, s2sToken, userID, caseType, caseID, eventName string) (ccd.StartEventResponse, error)
	StartCaseForCitizen(ctx context.Context, authToken, s2sToken, userID, caseType, eventName string) (ccd.StartEventResponse, error)
	SubmitEventForCitizen(ctx context.Context, authToken, s2sToken, userID, caseType, caseID string, ignoreWarning bool, content ccd.CaseDataContent) (ccd.CaseDetails, error)
	SubmitCaseForCitizen(ctx context.Context, authToken, s2sToken, userID, caseType string, ignoreWarning bool, content ccd.CaseDataContent) (ccd.CaseDetails, error)
}

// IdentityAPI resolves the citizen behind an authorization token.
type IdentityAPI interface {
	UserDetails(ctx context.Context, authToken string) (idam.UserDetails, error)
}

// ServiceTokenGenerator leases s2s tokens.
type ServiceTokenGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// Auditor records committed mutations. Audit failures never affect the
// mutation outcome.
type Auditor interface {
	CaseEventCommitted(ctx context.Context, userID, caseID, caseType, eventName string)
}

// Transactor runs begin/commit cycles. It holds no per-case state; two
// concurrent transactions on the same case race at the store, and the loser
// surfaces the store's conflict.
type Transactor struct {
	ccd     CaseAPI
	idam    IdentityAPI
	s2s     ServiceTokenGenerator
	audit   Auditor
	metrics *metrics.Metrics
	log     *slog.Logger
}

func New(caseAPI CaseAPI, identity IdentityAPI, s2s ServiceTokenGenerator, audit Auditor, m *metrics.Metrics, log *slog.Logger) *Transactor {
	return &Transactor{ccd: caseAPI, idam: identity, s2s: s2s, audit: audit, metrics: m, log: log}
}

// Begin starts eventName against caseID and returns the transaction holding
// the store's event token and the snapshot the mutation must derive from.
// Begin does not examine case data.
func (t *Transactor) Begin(ctx context.Context, authToken, caseID, caseType, eventName string) (*Transaction, error) {
	user, err := t.idam.UserDetails(ctx, authToken)
	if err != nil {
		return nil, err
	}
	s2sToken, err := t.s2s.Generate(ctx)
	if err != nil {
		return nil, err
	}

	start, err := t.ccd.StartEventForCitizen(ctx, authToken, s2sToken, user.ID, caseType, caseID, eventName)
	if err != nil {
		return nil, err
	}
	if t.metrics != nil {
		t.metrics.EventsStarted.WithLabelValues(eventName).Inc()
	}

	return &Transaction{
		CaseID:    caseID,
		CaseType:  caseType,
		EventID:   start.EventID,
		EventName: eventName,
		Snapshot:  start.CaseDetails,
		token:     start.Token,
		userID:    user.ID,
	}, nil
}

// BeginCreate starts a case-creation event; no case id exists yet, so the
// resulting transaction commits through the case-creation endpoint.
func (t *Transactor) BeginCreate(ctx context.Context, authToken, caseType, eventName string) (*Transaction, error) {
	user, err := t.idam.UserDetails(ctx, authToken)
	if err != nil {
		return nil, err
	}
	s2sToken, err := t.s2s.Generate(ctx)
	if err != nil {
		return nil, err
	}

	start, err := t.ccd.StartCaseForCitizen(ctx, authToken, s2sToken, user.ID, caseType, eventName)
	if err != nil {
		return nil, err
	}
	if t.metrics != nil {
		t.metrics.EventsStarted.WithLabelValues(eventName).Inc()
	}

	return &Transaction{
		CaseType:  caseType,
		EventID:   start.EventID,
		EventName: eventName,
		Snapshot:  start.CaseDetails,
		token:     start.Token,
		userID:    user.ID,
	}, nil
}

// Commit submits the mutated data under the transaction's token. The token
// is consumed on first use; a failed commit leaves the store unchanged and
// the caller must restart from Begin rather than re-commit.
func (t *Transactor) Commit(ctx context.Context, authToken string, tx *Transaction, data map[string]any) (ccd.CaseDetails, error) {
	if tx.consumed.Swap(true) {
		return ccd.CaseDetails{}, fmt.Errorf("event token for case %s (%s): %w", tx.CaseID, tx.EventName, sentinel.ErrAlreadyUsed)
	}

	s2sToken, err := t.s2s.Generate(ctx)
	if err != nil {
		return ccd.CaseDetails{}, err
	}

	eventID := tx.EventID
	if eventID == "" {
		eventID = tx.EventName
	}
	content := ccd.CaseDataContent{
		Event:      ccd.Event{ID: eventID},
		EventToken: tx.token,
		Data:       data,
	}

	var committed ccd.CaseDetails
	if tx.CaseID == "" {
		committed, err = t.ccd.SubmitCaseForCitizen(ctx, authToken, s2sToken, tx.userID, tx.CaseType, true, content)
	} else {
		committed, err = t.ccd.SubmitEventForCitizen(ctx, authToken, s2sToken, tx.userID, tx.CaseType, tx.CaseID, true, content)
	}
	if err != nil {
		if t.metrics != nil && errors.Is(err, sentinel.ErrConflict) {
			t.metrics.EventConflicts.Inc()
		}
		return ccd.CaseDetails{}, err
	}

	if t.metrics != nil {
		t.metrics.EventsSubmitted.WithLabelValues(tx.EventName).Inc()
	}
	if t.audit != nil {
		t.audit.CaseEventCommitted(ctx, tx.userID, tx.CaseID, tx.CaseType, tx.EventName)
	}
	t.log.InfoContext(ctx, "case event committed",
		"case_id", tx.CaseID, "case_type", tx.CaseType, "event", tx.EventName)
	return committed, nil
}

package applications

import (
	"context"

	"github.com/hmcts/et-case-api/internal/cases"
	"github.com/hmcts/et-case-api/internal/cases/models"
	"github.com/hmcts/et-case-api/internal/ccd"
	domainerrors "github.com/hmcts/et-case-api/pkg/domain-errors"
)

// SubmitStoredApplication promotes a stored draft to a live application: it
// stamps the submission date and the seven-day due date, moves the
// application to inProgress/Open and commits. Only the claimant is notified
// on this path; tribunal and respondent notification happens when the
// tribunal picks the application up.
func (s *Service) SubmitStoredApplication(ctx context.Context, authToken string, req SubmitStoredApplicationRequest) (ccd.CaseDetails, error) {
	tx, err := s.tx.Begin(ctx, authToken, req.CaseID, req.CaseTypeID, cases.EventSubmitStoredClaimantTSE)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.FromInfra(err, "starting stored submission")
	}
	data, err := models.FromDataMap(tx.Snapshot.Data)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "decoding case data")
	}

	app, err := findApplication(&data, req.ApplicationID)
	if err != nil {
		return ccd.CaseDetails{}, err
	}

	now := s.now()
	app.Value.Date = models.FormatDate(now)
	app.Value.DueDate = models.FormatDatePlusDays(now, 7)
	app.Value.ApplicationState = models.StateInProgress
	app.Value.Status = models.StatusOpen

	committed, err := s.commit(ctx, authToken, tx, data)
	if err != nil {
		return ccd.CaseDetails{}, err
	}

	if err := s.notifier.SendStoredApplicationConfirmation(ctx, committed, data, app.Value.Type); err != nil {
		return committed, domainerrors.Wrap(err, domainerrors.CodeNotification,
			"application submitted, confirmation not guaranteed")
	}
	return committed, nil
}

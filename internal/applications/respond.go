package applications

import (
	"context"
	"strconv"

	"github.com/hmcts/et-case-api/internal/cases"
	"github.com/hmcts/et-case-api/internal/cases/models"
	"github.com/hmcts/et-case-api/internal/ccd"
	domainerrors "github.com/hmcts/et-case-api/pkg/domain-errors"
)

// RespondToApplication attaches a claimant response to an existing
// application.
//
// When the response answers a tribunal request or order, the application is
// first moved to inProgress and claimantResponseRequired is cleared; the
// attach step then performs the final state write, which is always
// waitingForTheTribunal. The attach write winning over the tribunal-branch
// write is intentional and must stay in this order.
func (s *Service) RespondToApplication(ctx context.Context, authToken string, req RespondToApplicationRequest) (ccd.CaseDetails, error) {
	tx, err := s.tx.Begin(ctx, authToken, req.CaseID, req.CaseTypeID, cases.EventClaimantTSERespond)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.FromInfra(err, "starting response")
	}
	data, err := models.FromDataMap(tx.Snapshot.Data)
	if err != nil {
		return ccd.CaseDetails{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "decoding case data")
	}

	app, err := findApplication(&data, req.ApplicationID)
	if err != nil {
		return ccd.CaseDetails{}, err
	}

	if req.IsRespondingToRequestOrOrder {
		app.Value.ApplicationState = models.StateInProgress
		app.Value.ClaimantResponseRequired = models.No
	}

	s.attachResponse(app, req)

	if req.CopyToOtherParty == models.Yes {
		s.attachResponseSummary(ctx, authToken, req, &data, app.Value.Type)
	}

	committed, err := s.commit(ctx, authToken, tx, data)
	if err != nil {
		return ccd.CaseDetails{}, err
	}

	if err := s.notifier.SendResponseAcknowledgements(ctx, committed, data, app.Value.Type, req.CopyToOtherParty); err != nil {
		return committed, domainerrors.Wrap(err, domainerrors.CodeNotification,
			"response recorded, acknowledgement not guaranteed")
	}
	return committed, nil
}

// attachResponse appends the response entry, recomputes the cached count and
// performs the final state write.
func (s *Service) attachResponse(app *models.TseApplicationItem, req RespondToApplicationRequest) {
	now := s.now()
	app.Value.RespondCollection = append(app.Value.RespondCollection, models.TseRespondItem{
		ID: s.newID(),
		Value: models.TseRespond{
			From:               "Claimant",
			Date:               models.FormatDate(now),
			DateTime:           models.FormatDateTime(now),
			Response:           req.Response,
			ApplicationType:    app.Value.Type,
			CopyToOtherParty:   req.CopyToOtherParty,
			SupportingMaterial: req.SupportingMaterial,
		},
	})
	app.Value.ResponsesCount = strconv.Itoa(len(app.Value.RespondCollection))
	app.Value.ApplicationState = models.StateWaitingForTheTribunal
}

// attachResponseSummary uploads the response document when the claimant
// copies the other party. Failure is logged and swallowed.
func (s *Service) attachResponseSummary(ctx context.Context, authToken string, req RespondToApplicationRequest, data *models.CaseData, appType string) {
	file, err := s.pdf.ResponseSummary(*data, appType, req.Response, req.CaseID)
	if err != nil {
		s.documentFailure(ctx, req.CaseID, "rendering response summary", err)
		return
	}
	url, err := s.docs.Upload(ctx, authToken, req.CaseTypeID, file)
	if err != nil {
		s.documentFailure(ctx, req.CaseID, "uploading response summary", err)
		return
	}
	if s.metrics != nil {
		s.metrics.DocumentsUploaded.Inc()
	}
	data.DocumentCollection = append(data.DocumentCollection, models.DocumentItem{
		Value: models.DocumentType{
			TypeOfDocument:   appType,
			ShortDescription: "Response to " + models.ShortText[appType],
			UploadedDocument: &models.DocumentRef{URL: url, BinaryURL: url + "/binary", Filename: file.Name},
		},
	})
}

package applications

import (
	"fmt"

	"github.com/hmcts/et-case-api/internal/cases/models"
	domainerrors "github.com/hmcts/et-case-api/pkg/domain-errors"
)

// findByID scans items for the first element whose id matches. Every
// workflow transition uses this rule: first match wins, a miss is always an
// error for the caller, never a no-op. The returned pointer aliases the
// slice element so the transition can mutate it in place.
func findByID[T any](items []T, idOf func(*T) string, want string) (*T, bool) {
	for i := range items {
		if idOf(&items[i]) == want {
			return &items[i], true
		}
	}
	return nil, false
}

func findApplication(data *models.CaseData, applicationID string) (*models.TseApplicationItem, error) {
	app, ok := findByID(data.TseApplicationCollection,
		func(item *models.TseApplicationItem) string { return item.ID }, applicationID)
	if !ok {
		return nil, domainerrors.New(domainerrors.CodeNotFound,
			fmt.Sprintf("application %s not found on case", applicationID))
	}
	return app, nil
}

func findResponse(app *models.TseApplicationItem, responseID string) (*models.TseRespondItem, error) {
	resp, ok := findByID(app.Value.RespondCollection,
		func(item *models.TseRespondItem) string { return item.ID }, responseID)
	if !ok {
		return nil, domainerrors.New(domainerrors.CodeNotFound,
			fmt.Sprintf("response %s not found on application %s", responseID, app.ID))
	}
	return resp, nil
}

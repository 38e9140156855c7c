package transactor

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmcts/et-case-api/internal/ccd"
	"github.com/hmcts/et-case-api/internal/idam"
	"github.com/hmcts/et-case-api/pkg/platform/sentinel"
)

type fakeCaseAPI struct {
	startResp   ccd.StartEventResponse
	startErr    error
	submitResp  ccd.CaseDetails
	submitErr   error
	submitCalls int
	gotToken    string
	gotEventID  string
	gotData     map[string]any
}

func (f *fakeCaseAPI) StartEventForCitizen(_ context.Context, _, _, _, _, _, _ string) (ccd.StartEventResponse, error) {
	return f.startResp, f.startErr
}

func (f *fakeCaseAPI) StartCaseForCitizen(_ context.Context, _, _, _, _, _ string) (ccd.StartEventResponse, error) {
	return f.startResp, f.startErr
}

func (f *fakeCaseAPI) SubmitEventForCitizen(_ context.Context, _, _, _, _, _ string, _ bool, content ccd.CaseDataContent) (ccd.CaseDetails, error) {
	f.submitCalls++
	f.gotToken = content.EventToken
	f.gotEventID = content.Event.ID
	f.gotData = content.Data
	return f.submitResp, f.submitErr
}

func (f *fakeCaseAPI) SubmitCaseForCitizen(_ context.Context, _, _, _, _ string, _ bool, content ccd.CaseDataContent) (ccd.CaseDetails, error) {
	f.submitCalls++
	f.gotToken = content.EventToken
	f.gotEventID = content.Event.ID
	f.gotData = content.Data
	return f.submitResp, f.submitErr
}

type fakeIdentity struct{ user idam.UserDetails }

func (f fakeIdentity) UserDetails(context.Context, string) (idam.UserDetails, error) {
	return f.user, nil
}

type fakeS2S struct{}

func (fakeS2S) Generate(context.Context) (string, error) { return "Bearer s2s", nil }

func newTestTransactor(api *fakeCaseAPI) *Transactor {
	return New(api, fakeIdentity{user: idam.UserDetails{ID: "user-1"}}, fakeS2S{}, nil, nil, slog.Default())
}

func TestBeginThenCommitRoundTripsToken(t *testing.T) {
	api := &fakeCaseAPI{
		startResp: ccd.StartEventResponse{
			EventID: "UPDATE_CASE_SUBMITTED",
			Token:   "token-abc",
			CaseDetails: ccd.CaseDetails{
				ID:   1234,
				Data: map[string]any{"ethosCaseReference": "6000001/2026"},
			},
		},
		submitResp: ccd.CaseDetails{ID: 1234, State: "Submitted"},
	}
	tr := newTestTransactor(api)

	tx, err := tr.Begin(context.Background(), "Bearer auth", "1234", ccd.CaseTypeEnglandWales, "UPDATE_CASE_SUBMITTED")
	require.NoError(t, err)
	assert.Equal(t, "6000001/2026", tx.Snapshot.Data["ethosCaseReference"])

	committed, err := tr.Commit(context.Background(), "Bearer auth", tx, map[string]any{"managingOffice": "Leeds"})
	require.NoError(t, err)

	assert.Equal(t, int64(1234), committed.ID)
	assert.Equal(t, "token-abc", api.gotToken, "commit must carry the token begin handed out")
	assert.Equal(t, "UPDATE_CASE_SUBMITTED", api.gotEventID)
	assert.Equal(t, "Leeds", api.gotData["managingOffice"])
}

func TestCommitConsumesTokenExactlyOnce(t *testing.T) {
	api := &fakeCaseAPI{
		startResp:  ccd.StartEventResponse{EventID: "ev", Token: "tok"},
		submitResp: ccd.CaseDetails{ID: 1},
	}
	tr := newTestTransactor(api)

	tx, err := tr.Begin(context.Background(), "Bearer auth", "1", ccd.CaseTypeEnglandWales, "ev")
	require.NoError(t, err)

	_, err = tr.Commit(context.Background(), "Bearer auth", tx, nil)
	require.NoError(t, err)

	_, err = tr.Commit(context.Background(), "Bearer auth", tx, nil)
	require.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
	assert.Equal(t, 1, api.submitCalls, "second commit must not reach the store")
}

func TestCommitAfterFailureStillConsumed(t *testing.T) {
	api := &fakeCaseAPI{
		startResp: ccd.StartEventResponse{EventID: "ev", Token: "tok"},
		submitErr: sentinel.ErrConflict,
	}
	tr := newTestTransactor(api)

	tx, err := tr.Begin(context.Background(), "Bearer auth", "1", ccd.CaseTypeScotland, "ev")
	require.NoError(t, err)

	_, err = tr.Commit(context.Background(), "Bearer auth", tx, nil)
	require.ErrorIs(t, err, sentinel.ErrConflict)

	// A failed commit still burns the token; the caller restarts from Begin.
	_, err = tr.Commit(context.Background(), "Bearer auth", tx, nil)
	require.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
	assert.Equal(t, 1, api.submitCalls)
}

func TestBeginCreateCommitsThroughCaseCreation(t *testing.T) {
	api := &fakeCaseAPI{
		startResp:  ccd.StartEventResponse{EventID: "INITIATE_CASE_DRAFT", Token: "tok"},
		submitResp: ccd.CaseDetails{ID: 99, State: "Draft"},
	}
	tr := newTestTransactor(api)

	tx, err := tr.BeginCreate(context.Background(), "Bearer auth", ccd.CaseTypeEnglandWales, "INITIATE_CASE_DRAFT")
	require.NoError(t, err)
	assert.Empty(t, tx.CaseID)

	created, err := tr.Commit(context.Background(), "Bearer auth", tx, map[string]any{"caseType": "Single"})
	require.NoError(t, err)
	assert.Equal(t, int64(99), created.ID)
	assert.Equal(t, "tok", api.gotToken)
}

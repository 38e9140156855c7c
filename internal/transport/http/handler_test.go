package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmcts/et-case-api/internal/applications"
	"github.com/hmcts/et-case-api/internal/caserole"
	"github.com/hmcts/et-case-api/internal/ccd"
	domainerrors "github.com/hmcts/et-case-api/pkg/domain-errors"
)

type stubCases struct {
	details ccd.CaseDetails
	all     []ccd.CaseDetails
	err     error
}

func (s stubCases) GetUserCase(context.Context, string, string) (ccd.CaseDetails, error) {
	return s.details, s.err
}

func (s stubCases) GetAllUserCases(context.Context, string) ([]ccd.CaseDetails, error) {
	return s.all, s.err
}

func (s stubCases) CreateCase(context.Context, string, string, map[string]any) (ccd.CaseDetails, error) {
	return s.details, s.err
}

func (s stubCases) UpdateCase(context.Context, string, string, string, map[string]any) (ccd.CaseDetails, error) {
	return s.details, s.err
}

func (s stubCases) SubmitCase(context.Context, string, string, string) (ccd.CaseDetails, error) {
	return s.details, s.err
}

type stubApps struct {
	details ccd.CaseDetails
	err     error
}

func (s stubApps) SubmitApplication(context.Context, string, applications.ClaimantApplicationRequest) (ccd.CaseDetails, error) {
	return s.details, s.err
}

func (s stubApps) StoreApplication(context.Context, string, applications.ClaimantApplicationRequest) (ccd.CaseDetails, error) {
	return s.details, s.err
}

func (s stubApps) RespondToApplication(context.Context, string, applications.RespondToApplicationRequest) (ccd.CaseDetails, error) {
	return s.details, s.err
}

func (s stubApps) ChangeApplicationStatus(context.Context, string, applications.ChangeApplicationStatusRequest) (ccd.CaseDetails, error) {
	return s.details, s.err
}

func (s stubApps) MarkResponseViewed(context.Context, string, applications.TribunalResponseViewedRequest) (ccd.CaseDetails, error) {
	return s.details, s.err
}

func (s stubApps) SubmitStoredApplication(context.Context, string, applications.SubmitStoredApplicationRequest) (ccd.CaseDetails, error) {
	return s.details, s.err
}

type stubRoles struct {
	details ccd.CaseDetails
	found   bool
	err     error
}

func (s stubRoles) FindCase(context.Context, caserole.FindCaseRequest) (ccd.CaseDetails, bool, error) {
	return s.details, s.found, s.err
}

func bearerToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "citizen@example.com",
		"exp": expiry.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return "Bearer " + signed
}

func newTestServer(cases CaseService, apps ApplicationService, roles RoleService) *httptest.Server {
	h := NewHandler(cases, apps, roles, slog.Default())
	return httptest.NewServer(h.Router())
}

func doJSON(t *testing.T, method, url, auth string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(method, url, bytes.NewReader(raw))
	require.NoError(t, err)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestRoutesRequireBearerToken(t *testing.T) {
	srv := newTestServer(stubCases{}, stubApps{}, stubRoles{})
	defer srv.Close()

	resp := doJSON(t, http.MethodPost, srv.URL+"/cases/user-case", "", caseRequest{CaseID: "1234"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestExpiredTokenRejected(t *testing.T) {
	srv := newTestServer(stubCases{}, stubApps{}, stubRoles{})
	defer srv.Close()

	auth := bearerToken(t, time.Now().Add(-time.Hour))
	resp := doJSON(t, http.MethodGet, srv.URL+"/cases/user-cases", auth, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetUserCase(t *testing.T) {
	srv := newTestServer(stubCases{details: ccd.CaseDetails{ID: 1234, State: "Submitted"}}, stubApps{}, stubRoles{})
	defer srv.Close()

	auth := bearerToken(t, time.Now().Add(time.Hour))
	resp := doJSON(t, http.MethodPost, srv.URL+"/cases/user-case", auth, caseRequest{CaseID: "1234"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var details ccd.CaseDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&details))
	assert.Equal(t, int64(1234), details.ID)
}

func TestSubmitApplicationNotFoundMapsTo404(t *testing.T) {
	srv := newTestServer(stubCases{}, stubApps{err: domainerrors.New(domainerrors.CodeNotFound, "application missing not found on case")}, stubRoles{})
	defer srv.Close()

	auth := bearerToken(t, time.Now().Add(time.Hour))
	resp := doJSON(t, http.MethodPut, srv.URL+"/tse/change-application-status", auth,
		applications.ChangeApplicationStatusRequest{CaseID: "1234", ApplicationID: "missing"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPartialSuccessRenders202WithWarning(t *testing.T) {
	committed := ccd.CaseDetails{ID: 1234, State: "Submitted"}
	failed := domainerrors.New(domainerrors.CodeNotification, "application submitted, acknowledgement not guaranteed")
	srv := newTestServer(stubCases{}, stubApps{details: committed, err: failed}, stubRoles{})
	defer srv.Close()

	auth := bearerToken(t, time.Now().Add(time.Hour))
	resp := doJSON(t, http.MethodPut, srv.URL+"/tse/submit-application", auth, applications.ClaimantApplicationRequest{CaseID: "1234"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body struct {
		CaseDetails ccd.CaseDetails `json:"case_details"`
		Warning     string          `json:"warning"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(1234), body.CaseDetails.ID)
	assert.NotEmpty(t, body.Warning)
}

func TestConflictMapsTo409(t *testing.T) {
	srv := newTestServer(stubCases{err: domainerrors.New(domainerrors.CodeConflict, "stale event token")}, stubApps{}, stubRoles{})
	defer srv.Close()

	auth := bearerToken(t, time.Now().Add(time.Hour))
	resp := doJSON(t, http.MethodPut, srv.URL+"/cases/submit-case", auth, caseRequest{CaseID: "1234", CaseTypeID: ccd.CaseTypeEnglandWales})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestFindCaseForRoleNotFoundIsDefinedOutcome(t *testing.T) {
	srv := newTestServer(stubCases{}, stubApps{}, stubRoles{found: false})
	defer srv.Close()

	auth := bearerToken(t, time.Now().Add(time.Hour))
	resp := doJSON(t, http.MethodPost, srv.URL+"/case-role/find-case", auth,
		caserole.FindCaseRequest{CaseSubmissionReference: "1234567890123456"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthIsUnauthenticated(t *testing.T) {
	srv := newTestServer(stubCases{}, stubApps{}, stubRoles{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

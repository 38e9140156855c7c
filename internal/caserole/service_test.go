package caserole

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/hmcts/et-case-api/internal/caserole/mocks"
	"github.com/hmcts/et-case-api/internal/ccd"
	domainerrors "github.com/hmcts/et-case-api/pkg/domain-errors"
	"github.com/hmcts/et-case-api/pkg/platform/sentinel"
)

type CaseRoleSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockSearch *mocks.MockCaseSearcher
	mockIdam   *mocks.MockTokenProvider
	mockS2S    *mocks.MockServiceTokenGenerator
	service    *Service
}

func TestCaseRoleSuite(t *testing.T) {
	suite.Run(t, new(CaseRoleSuite))
}

func (s *CaseRoleSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockSearch = mocks.NewMockCaseSearcher(s.ctrl)
	s.mockIdam = mocks.NewMockTokenProvider(s.ctrl)
	s.mockS2S = mocks.NewMockServiceTokenGenerator(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(s.mockSearch, s.mockIdam, s.mockS2S, "system@example.com", "secret", logger)
}

func (s *CaseRoleSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CaseRoleSuite) expectSystemTokens() {
	s.mockIdam.EXPECT().
		AccessToken(gomock.Any(), "system@example.com", "secret").
		Return("Bearer system", nil)
	s.mockS2S.EXPECT().
		Generate(gomock.Any()).
		Return("Bearer s2s", nil)
}

func roleRequest() FindCaseRequest {
	return FindCaseRequest{
		CaseSubmissionReference: "1234567890123456",
		RespondentName:          "Acme Ltd",
		ClaimantFirstNames:      "Jo",
		ClaimantLastName:        "Bloggs",
	}
}

func (s *CaseRoleSuite) TestFindCaseFirstAcceptedMatchWins() {
	s.expectSystemTokens()
	s.mockSearch.EXPECT().
		SearchCases(gomock.Any(), "Bearer system", "Bearer s2s", ccd.CaseTypeEnglandWales, gomock.Any()).
		Return(ccd.SearchResult{Total: 1, Cases: []ccd.CaseDetails{{ID: 11, State: StateAccepted}}}, nil)
	// Scotland is not searched once England & Wales matched; the controller
	// fails the test on any unexpected call.

	details, found, err := s.service.FindCase(context.Background(), roleRequest())
	s.NoError(err)
	s.True(found)
	s.Equal(int64(11), details.ID)
}

func (s *CaseRoleSuite) TestFindCaseFallsThroughToScotland() {
	s.expectSystemTokens()
	gomock.InOrder(
		s.mockSearch.EXPECT().
			SearchCases(gomock.Any(), "Bearer system", "Bearer s2s", ccd.CaseTypeEnglandWales, gomock.Any()).
			Return(ccd.SearchResult{Total: 1, Cases: []ccd.CaseDetails{{ID: 11, State: "Submitted"}}}, nil),
		s.mockSearch.EXPECT().
			SearchCases(gomock.Any(), "Bearer system", "Bearer s2s", ccd.CaseTypeScotland, gomock.Any()).
			Return(ccd.SearchResult{Total: 1, Cases: []ccd.CaseDetails{{ID: 22, State: StateAccepted}}}, nil),
	)

	details, found, err := s.service.FindCase(context.Background(), roleRequest())
	s.NoError(err)
	s.True(found)
	s.Equal(int64(22), details.ID)
}

func (s *CaseRoleSuite) TestFindCaseNoMatchIsNotAnError() {
	s.expectSystemTokens()
	s.mockSearch.EXPECT().
		SearchCases(gomock.Any(), gomock.Any(), gomock.Any(), ccd.CaseTypeEnglandWales, gomock.Any()).
		Return(ccd.SearchResult{}, nil)
	s.mockSearch.EXPECT().
		SearchCases(gomock.Any(), gomock.Any(), gomock.Any(), ccd.CaseTypeScotland, gomock.Any()).
		Return(ccd.SearchResult{}, nil)

	_, found, err := s.service.FindCase(context.Background(), roleRequest())
	s.NoError(err)
	s.False(found)
}

func (s *CaseRoleSuite) TestFindCaseSearchFailureSurfaces() {
	s.expectSystemTokens()
	s.mockSearch.EXPECT().
		SearchCases(gomock.Any(), gomock.Any(), gomock.Any(), ccd.CaseTypeEnglandWales, gomock.Any()).
		Return(ccd.SearchResult{}, sentinel.ErrUnavailable)

	_, _, err := s.service.FindCase(context.Background(), roleRequest())
	s.Error(err)
	s.True(domainerrors.HasCode(err, domainerrors.CodeUnavailable))
}

func (s *CaseRoleSuite) TestFindCaseTokenFailureSurfaces() {
	s.mockIdam.EXPECT().
		AccessToken(gomock.Any(), "system@example.com", "secret").
		Return("", sentinel.ErrUnauthorized)

	_, _, err := s.service.FindCase(context.Background(), roleRequest())
	s.Error(err)
	s.True(domainerrors.HasCode(err, domainerrors.CodeUnauthorized))
}

func TestSearchQueryShape(t *testing.T) {
	raw, err := searchQuery(roleRequest())
	require.NoError(t, err)

	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &q))
	require.Equal(t, float64(1), q["size"])

	boolQuery := q["query"].(map[string]any)["bool"].(map[string]any)
	must := boolQuery["must"].([]any)
	require.Len(t, must, 1, "submission reference is the only top-level must")
	filters := boolQuery["filter"].([]any)
	require.Len(t, filters, 2, "respondent and claimant must each match")

	respondent := filters[0].(map[string]any)["bool"].(map[string]any)["should"].([]any)
	require.Len(t, respondent, 3, "organisation, respondent name and combined name")

	claimant := filters[1].(map[string]any)["bool"].(map[string]any)["should"].([]any)
	require.Len(t, claimant, 2)
	names := claimant[0].(map[string]any)["bool"].(map[string]any)["must"].([]any)
	require.Len(t, names, 2, "first and last name match together, not separately")
	fullName := claimant[1].(map[string]any)["match"].(map[string]any)
	require.Equal(t, "Jo Bloggs", fullName["data.claimant.keyword"])
}

package caserole

import (
	"context"
	"log/slog"

	"github.com/hmcts/et-case-api/internal/ccd"
	domainerrors "github.com/hmcts/et-case-api/pkg/domain-errors"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// StateAccepted is the only case state eligible for role assignment.
const StateAccepted = "Accepted"

// CaseSearcher is the search slice of the case store client.
type CaseSearcher interface {
	SearchCases(ctx context.Context, authToken, s2sToken, caseType, query string) (ccd.SearchResult, error)
}

// TokenProvider obtains an access token for the system user; the search runs
// with elevated credentials rather than the respondent's own.
type TokenProvider interface {
	AccessToken(ctx context.Context, username, password string) (string, error)
}

// ServiceTokenGenerator leases s2s tokens.
type ServiceTokenGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// Service performs the role-assignment case lookup.
type Service struct {
	search   CaseSearcher
	idam     TokenProvider
	s2s      ServiceTokenGenerator
	username string
	password string
	log      *slog.Logger
}

func NewService(search CaseSearcher, idam TokenProvider, s2s ServiceTokenGenerator, username, password string, log *slog.Logger) *Service {
	return &Service{search: search, idam: idam, s2s: s2s, username: username, password: password, log: log}
}

// FindCase searches England & Wales first, then Scotland, and returns the
// first accepted match. No match across both jurisdictions is a defined
// not-found outcome, reported through the boolean rather than an error.
func (s *Service) FindCase(ctx context.Context, req FindCaseRequest) (ccd.CaseDetails, bool, error) {
	query, err := searchQuery(req)
	if err != nil {
		return ccd.CaseDetails{}, false, domainerrors.Wrap(err, domainerrors.CodeInternal, "building case search")
	}

	systemToken, err := s.idam.AccessToken(ctx, s.username, s.password)
	if err != nil {
		return ccd.CaseDetails{}, false, domainerrors.FromInfra(err, "obtaining system user token")
	}
	s2sToken, err := s.s2s.Generate(ctx)
	if err != nil {
		return ccd.CaseDetails{}, false, domainerrors.FromInfra(err, "leasing service token")
	}

	for _, caseType := range []string{ccd.CaseTypeEnglandWales, ccd.CaseTypeScotland} {
		res, err := s.search.SearchCases(ctx, systemToken, s2sToken, caseType, query)
		if err != nil {
			return ccd.CaseDetails{}, false, domainerrors.FromInfra(err, "searching "+caseType)
		}
		for _, details := range res.Cases {
			if details.State == StateAccepted {
				return details, true, nil
			}
		}
	}

	s.log.InfoContext(ctx, "no accepted case matched role lookup",
		"submission_reference", req.CaseSubmissionReference)
	return ccd.CaseDetails{}, false, nil
}

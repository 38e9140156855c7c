// Package http maps the citizen-facing REST surface onto the case,
// application and role services. Handlers stay thin: decode, delegate,
// render.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hmcts/et-case-api/internal/applications"
	"github.com/hmcts/et-case-api/internal/caserole"
	"github.com/hmcts/et-case-api/internal/ccd"
	"github.com/hmcts/et-case-api/internal/platform/middleware"
	"github.com/hmcts/et-case-api/internal/transport/http/shared"
	domainerrors "github.com/hmcts/et-case-api/pkg/domain-errors"
)

// CaseService is the case-level operations surface.
type CaseService interface {
	GetUserCase(ctx context.Context, authToken, caseID string) (ccd.CaseDetails, error)
	GetAllUserCases(ctx context.Context, authToken string) ([]ccd.CaseDetails, error)
	CreateCase(ctx context.Context, authToken, caseType string, data map[string]any) (ccd.CaseDetails, error)
	UpdateCase(ctx context.Context, authToken, caseID, caseType string, data map[string]any) (ccd.CaseDetails, error)
	SubmitCase(ctx context.Context, authToken, caseID, caseType string) (ccd.CaseDetails, error)
}

// ApplicationService is the TSE workflow surface.
type ApplicationService interface {
	SubmitApplication(ctx context.Context, authToken string, req applications.ClaimantApplicationRequest) (ccd.CaseDetails, error)
	StoreApplication(ctx context.Context, authToken string, req applications.ClaimantApplicationRequest) (ccd.CaseDetails, error)
	RespondToApplication(ctx context.Context, authToken string, req applications.RespondToApplicationRequest) (ccd.CaseDetails, error)
	ChangeApplicationStatus(ctx context.Context, authToken string, req applications.ChangeApplicationStatusRequest) (ccd.CaseDetails, error)
	MarkResponseViewed(ctx context.Context, authToken string, req applications.TribunalResponseViewedRequest) (ccd.CaseDetails, error)
	SubmitStoredApplication(ctx context.Context, authToken string, req applications.SubmitStoredApplicationRequest) (ccd.CaseDetails, error)
}

// RoleService locates cases for role assignment.
type RoleService interface {
	FindCase(ctx context.Context, req caserole.FindCaseRequest) (ccd.CaseDetails, bool, error)
}

// Handler wires the REST routes.
type Handler struct {
	cases CaseService
	apps  ApplicationService
	roles RoleService
	log   *slog.Logger
}

func NewHandler(cases CaseService, apps ApplicationService, roles RoleService, log *slog.Logger) *Handler {
	return &Handler{cases: cases, apps: apps, roles: roles, log: log}
}

// Router assembles the middleware chain and routes.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "UP"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.log))

		r.Route("/cases", func(r chi.Router) {
			r.Post("/user-case", h.handleGetUserCase)
			r.Get("/user-cases", h.handleGetAllUserCases)
			r.Post("/initiate-case", h.handleCreateCase)
			r.Put("/update-case", h.handleUpdateCase)
			r.Put("/submit-case", h.handleSubmitCase)
		})

		r.Route("/tse", func(r chi.Router) {
			r.Put("/submit-application", h.handleSubmitApplication)
			r.Put("/store-application", h.handleStoreApplication)
			r.Put("/respond-to-application", h.handleRespondToApplication)
			r.Put("/change-application-status", h.handleChangeApplicationStatus)
			r.Put("/tribunal-response-viewed", h.handleTribunalResponseViewed)
			r.Put("/submit-stored-application", h.handleSubmitStoredApplication)
		})

		r.Post("/case-role/find-case", h.handleFindCaseForRole)
	})

	return r
}

type caseRequest struct {
	CaseID     string         `json:"case_id"`
	CaseTypeID string         `json:"case_type_id"`
	CaseData   map[string]any `json:"case_data,omitempty"`
}

func (h *Handler) handleGetUserCase(w http.ResponseWriter, r *http.Request) {
	var req caseRequest
	if !h.decode(w, r, &req) {
		return
	}
	details, err := h.cases.GetUserCase(r.Context(), middleware.GetAuthToken(r.Context()), req.CaseID)
	h.respond(w, r, details, err)
}

func (h *Handler) handleGetAllUserCases(w http.ResponseWriter, r *http.Request) {
	all, err := h.cases.GetAllUserCases(r.Context(), middleware.GetAuthToken(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, all)
}

func (h *Handler) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	var req caseRequest
	if !h.decode(w, r, &req) {
		return
	}
	details, err := h.cases.CreateCase(r.Context(), middleware.GetAuthToken(r.Context()), req.CaseTypeID, req.CaseData)
	h.respond(w, r, details, err)
}

func (h *Handler) handleUpdateCase(w http.ResponseWriter, r *http.Request) {
	var req caseRequest
	if !h.decode(w, r, &req) {
		return
	}
	details, err := h.cases.UpdateCase(r.Context(), middleware.GetAuthToken(r.Context()), req.CaseID, req.CaseTypeID, req.CaseData)
	h.respond(w, r, details, err)
}

func (h *Handler) handleSubmitCase(w http.ResponseWriter, r *http.Request) {
	var req caseRequest
	if !h.decode(w, r, &req) {
		return
	}
	details, err := h.cases.SubmitCase(r.Context(), middleware.GetAuthToken(r.Context()), req.CaseID, req.CaseTypeID)
	h.respond(w, r, details, err)
}

func (h *Handler) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req applications.ClaimantApplicationRequest
	if !h.decode(w, r, &req) {
		return
	}
	details, err := h.apps.SubmitApplication(r.Context(), middleware.GetAuthToken(r.Context()), req)
	h.respond(w, r, details, err)
}

func (h *Handler) handleStoreApplication(w http.ResponseWriter, r *http.Request) {
	var req applications.ClaimantApplicationRequest
	if !h.decode(w, r, &req) {
		return
	}
	details, err := h.apps.StoreApplication(r.Context(), middleware.GetAuthToken(r.Context()), req)
	h.respond(w, r, details, err)
}

func (h *Handler) handleRespondToApplication(w http.ResponseWriter, r *http.Request) {
	var req applications.RespondToApplicationRequest
	if !h.decode(w, r, &req) {
		return
	}
	details, err := h.apps.RespondToApplication(r.Context(), middleware.GetAuthToken(r.Context()), req)
	h.respond(w, r, details, err)
}

func (h *Handler) handleChangeApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var req applications.ChangeApplicationStatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	details, err := h.apps.ChangeApplicationStatus(r.Context(), middleware.GetAuthToken(r.Context()), req)
	h.respond(w, r, details, err)
}

func (h *Handler) handleTribunalResponseViewed(w http.ResponseWriter, r *http.Request) {
	var req applications.TribunalResponseViewedRequest
	if !h.decode(w, r, &req) {
		return
	}
	details, err := h.apps.MarkResponseViewed(r.Context(), middleware.GetAuthToken(r.Context()), req)
	h.respond(w, r, details, err)
}

func (h *Handler) handleSubmitStoredApplication(w http.ResponseWriter, r *http.Request) {
	var req applications.SubmitStoredApplicationRequest
	if !h.decode(w, r, &req) {
		return
	}
	details, err := h.apps.SubmitStoredApplication(r.Context(), middleware.GetAuthToken(r.Context()), req)
	h.respond(w, r, details, err)
}

func (h *Handler) handleFindCaseForRole(w http.ResponseWriter, r *http.Request) {
	var req caserole.FindCaseRequest
	if !h.decode(w, r, &req) {
		return
	}
	details, found, err := h.roles.FindCase(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !found {
		shared.WriteJSON(w, http.StatusNotFound, map[string]string{
			"error":             string(domainerrors.CodeNotFound),
			"error_description": "no accepted case matched",
		})
		return
	}
	shared.WriteJSON(w, http.StatusOK, details)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.log.WarnContext(r.Context(), "invalid request body",
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

// respond renders a committed case. A notification-coded error alongside a
// committed case means the mutation succeeded but an acknowledgement email
// did not go out: 202 with a warning, not a failure status.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, details ccd.CaseDetails, err error) {
	if err == nil {
		shared.WriteJSON(w, http.StatusOK, details)
		return
	}
	if details.ID != 0 && domainerrors.HasCode(err, domainerrors.CodeNotification) {
		h.log.WarnContext(r.Context(), "case committed, notification failed",
			"case_id", details.ID,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		shared.WriteJSON(w, http.StatusAccepted, map[string]any{
			"case_details": details,
			"warning":      "case updated, acknowledgement not guaranteed",
		})
		return
	}
	h.writeError(w, r, err)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.ErrorContext(r.Context(), "request failed",
		"path", r.URL.Path,
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err,
	)
	shared.WriteError(w, err)
}

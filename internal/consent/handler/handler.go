// Package handler exposes the consent manager over HTTP. It stays thin:
// decode, delegate, encode. Validation no-ops live in the domain layer.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"consentd/internal/consent/models"
	"consentd/internal/platform/metrics"
	"consentd/internal/platform/middleware"
	dErrors "consentd/pkg/domain-errors"
	"consentd/pkg/platform/httputil"
)

// Service defines the consent operations the transport depends on.
type Service interface {
	AddContext(ctx context.Context, fields models.ContextFields) (string, error)
	UpdateContext(ctx context.Context, id string, fields models.ContextFields) error
	AddConsents(ctx context.Context, batch map[string]models.ConsentFields, identifier string) error
	UpdateConsent(ctx context.Context, contextID string, batch map[string]models.ConsentFields, identifier string) error
	Consents(ctx context.Context) (map[string]models.Consent, error)
	Contexts(ctx context.Context) ([]models.Context, error)
	ExpiredConsents(ctx context.Context) (map[string]models.Consent, error)
	ConsentExpiryDate(ctx context.Context, purpose string) (time.Time, bool, error)
	SaveConsents(ctx context.Context) (map[string]models.Consent, error)
	SaveContexts(ctx context.Context) error
}

// Handler handles consent-related endpoints.
type Handler struct {
	logger       *slog.Logger
	consent      Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new consent Handler.
func New(
	consent Service,
	logger *slog.Logger,
	m *metrics.Metrics,
	jwtValidator middleware.JWTValidator,
) *Handler {
	return &Handler{
		logger:       logger,
		consent:      consent,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the consent routes under /v1.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.LatencyMiddleware(h.metrics))
	router.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	router.Post("/contexts", h.handleAddContext)
	router.Get("/contexts", h.handleGetContexts)
	router.Post("/contexts/sync", h.handleSaveContexts)
	router.Patch("/contexts/{contextID}", h.handleUpdateContext)
	router.Patch("/contexts/{contextID}/consents", h.handleUpdateConsent)

	router.Post("/consents", h.handleAddConsents)
	router.Get("/consents", h.handleGetConsents)
	router.Get("/consents/expired", h.handleGetExpiredConsents)
	router.Get("/consents/{purpose}/expiry", h.handleGetConsentExpiryDate)
	router.Post("/consents/sync", h.handleSaveConsents)

	r.Mount("/v1", router)
}

func (h *Handler) handleAddContext(w http.ResponseWriter, r *http.Request) {
	var fields models.ContextFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.warnBadRequest(r, "invalid add context request", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	id, err := h.consent.AddContext(r.Context(), fields)
	if err != nil {
		h.writeServiceError(w, r, "failed to add context", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"context_id": id})
}

func (h *Handler) handleUpdateContext(w http.ResponseWriter, r *http.Request) {
	var fields models.ContextFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.warnBadRequest(r, "invalid update context request", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.consent.UpdateContext(r.Context(), chi.URLParam(r, "contextID"), fields); err != nil {
		h.writeServiceError(w, r, "failed to update context", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddConsents(w http.ResponseWriter, r *http.Request) {
	var batch map[string]models.ConsentFields
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		h.warnBadRequest(r, "invalid add consents request", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	identifier := middleware.GetUserID(r.Context())
	if err := h.consent.AddConsents(r.Context(), batch, identifier); err != nil {
		h.writeServiceError(w, r, "failed to add consents", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdateConsent(w http.ResponseWriter, r *http.Request) {
	var batch map[string]models.ConsentFields
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		h.warnBadRequest(r, "invalid update consent request", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	identifier := middleware.GetUserID(r.Context())
	if err := h.consent.UpdateConsent(r.Context(), chi.URLParam(r, "contextID"), batch, identifier); err != nil {
		h.writeServiceError(w, r, "failed to update consent", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetConsents(w http.ResponseWriter, r *http.Request) {
	consents, err := h.consent.Consents(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "failed to list consents", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"consents": consents})
}

func (h *Handler) handleGetContexts(w http.ResponseWriter, r *http.Request) {
	contexts, err := h.consent.Contexts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "failed to list contexts", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"contexts": contexts})
}

func (h *Handler) handleGetExpiredConsents(w http.ResponseWriter, r *http.Request) {
	expired, err := h.consent.ExpiredConsents(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "failed to list expired consents", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"consents": expired})
}

type expiryResponse struct {
	Purpose    string     `json:"purpose"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

func (h *Handler) handleGetConsentExpiryDate(w http.ResponseWriter, r *http.Request) {
	purpose := chi.URLParam(r, "purpose")
	expiry, ok, err := h.consent.ConsentExpiryDate(r.Context(), purpose)
	if err != nil {
		h.writeServiceError(w, r, "failed to look up expiry", err)
		return
	}
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no consent for purpose"))
		return
	}

	resp := expiryResponse{Purpose: purpose}
	if !expiry.IsZero() {
		resp.ExpiryDate = &expiry
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSaveConsents(w http.ResponseWriter, r *http.Request) {
	view, err := h.consent.SaveConsents(r.Context())
	if err != nil {
		// Dispatch failures surface as the structured sync payload; local
		// state is not rolled back.
		httputil.WriteJSON(w, http.StatusBadGateway, models.SyncFailure{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"synced": view})
}

func (h *Handler) handleSaveContexts(w http.ResponseWriter, r *http.Request) {
	if err := h.consent.SaveContexts(r.Context()); err != nil {
		httputil.WriteJSON(w, http.StatusBadGateway, models.SyncFailure{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) warnBadRequest(r *http.Request, msg string, err error) {
	h.logger.WarnContext(r.Context(), msg,
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err.Error(),
	)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err.Error(),
	)
	httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, msg))
}

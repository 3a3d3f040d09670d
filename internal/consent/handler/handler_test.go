package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"consentd/internal/consent/handler/mocks"
	"consentd/internal/consent/models"
	"consentd/internal/platform/middleware"
)

//go:generate mockgen -source=handler.go -destination=mocks/consent_mocks.go -package=mocks Service
type ConsentHandlerSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *ConsentHandlerSuite) SetupSuite() {
	s.ctx = context.Background()
}

func TestConsentHandlerSuite(t *testing.T) {
	suite.Run(t, new(ConsentHandlerSuite))
}

func newTestHandler(t *testing.T) (*Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(mockService, logger, nil, nil)
	r := chi.NewRouter()
	h.Register(r)
	return h, mockService
}

// authenticated stamps the request with a validated user, bypassing the
// middleware chain the way the real router would have populated it.
func authenticated(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyUserID, userID)
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func (s *ConsentHandlerSuite) TestHandleAddContext() {
	h, mockService := newTestHandler(s.T())
	mockService.EXPECT().AddContext(gomock.Any(), models.ContextFields{
		Brand:      "acme",
		DomainName: "acme.example",
	}).Return("ctx-123", nil)

	body, err := json.Marshal(map[string]string{
		"brand":       "acme",
		"domain_name": "acme.example",
	})
	s.Require().NoError(err)

	req := authenticated(httptest.NewRequest(http.MethodPost, "/v1/contexts", bytes.NewReader(body)), "user123")
	w := httptest.NewRecorder()
	h.handleAddContext(w, req)

	s.Equal(http.StatusCreated, w.Code)
	var resp map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("ctx-123", resp["context_id"])
}

func (s *ConsentHandlerSuite) TestHandleAddContextRejectsBadBody() {
	h, _ := newTestHandler(s.T())

	req := authenticated(httptest.NewRequest(http.MethodPost, "/v1/contexts", bytes.NewBufferString("{not json")), "user123")
	w := httptest.NewRecorder()
	h.handleAddContext(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ConsentHandlerSuite) TestHandleUpdateContext() {
	h, mockService := newTestHandler(s.T())
	mockService.EXPECT().UpdateContext(gomock.Any(), "ctx-123", models.ContextFields{
		Brand: "acme",
	}).Return(nil)

	body, err := json.Marshal(map[string]string{"brand": "acme"})
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPatch, "/v1/contexts/ctx-123", bytes.NewReader(body))
	req = withURLParam(authenticated(req, "user123"), "contextID", "ctx-123")
	w := httptest.NewRecorder()
	h.handleUpdateContext(w, req)

	s.Equal(http.StatusNoContent, w.Code)
}

func (s *ConsentHandlerSuite) TestHandleAddConsentsPassesAuthenticatedIdentifier() {
	h, mockService := newTestHandler(s.T())
	mockService.EXPECT().AddConsents(gomock.Any(), map[string]models.ConsentFields{
		"marketing": {Status: "given", ExpiryDate: "2099-01-01"},
	}, "user123").Return(nil)

	body, err := json.Marshal(map[string]models.ConsentFields{
		"marketing": {Status: "given", ExpiryDate: "2099-01-01"},
	})
	s.Require().NoError(err)

	req := authenticated(httptest.NewRequest(http.MethodPost, "/v1/consents", bytes.NewReader(body)), "user123")
	w := httptest.NewRecorder()
	h.handleAddConsents(w, req)

	s.Equal(http.StatusNoContent, w.Code)
}

func (s *ConsentHandlerSuite) TestHandleUpdateConsent() {
	h, mockService := newTestHandler(s.T())
	mockService.EXPECT().UpdateConsent(gomock.Any(), "cart", map[string]models.ConsentFields{
		"marketing": {Status: "refused"},
	}, "user123").Return(nil)

	body, err := json.Marshal(map[string]models.ConsentFields{
		"marketing": {Status: "refused"},
	})
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPatch, "/v1/contexts/cart/consents", bytes.NewReader(body))
	req = withURLParam(authenticated(req, "user123"), "contextID", "cart")
	w := httptest.NewRecorder()
	h.handleUpdateConsent(w, req)

	s.Equal(http.StatusNoContent, w.Code)
}

func (s *ConsentHandlerSuite) TestHandleGetConsents() {
	h, mockService := newTestHandler(s.T())
	mockService.EXPECT().Consents(gomock.Any()).Return(map[string]models.Consent{
		"marketing": {Purpose: "marketing", Status: models.StatusGiven},
	}, nil)

	req := authenticated(httptest.NewRequest(http.MethodGet, "/v1/consents", nil), "user123")
	w := httptest.NewRecorder()
	h.handleGetConsents(w, req)

	s.Equal(http.StatusOK, w.Code)
	var resp map[string]map[string]models.Consent
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(models.StatusGiven, resp["consents"]["marketing"].Status)
}

func (s *ConsentHandlerSuite) TestHandleGetConsentExpiryDate() {
	h, mockService := newTestHandler(s.T())
	expiry := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)

	s.Run("known purpose with expiry", func() {
		mockService.EXPECT().ConsentExpiryDate(gomock.Any(), "marketing").Return(expiry, true, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/consents/marketing/expiry", nil)
		req = withURLParam(authenticated(req, "user123"), "purpose", "marketing")
		w := httptest.NewRecorder()
		h.handleGetConsentExpiryDate(w, req)

		s.Equal(http.StatusOK, w.Code)
		var resp expiryResponse
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Equal("marketing", resp.Purpose)
		s.Require().NotNil(resp.ExpiryDate)
		s.True(resp.ExpiryDate.Equal(expiry))
	})

	s.Run("known purpose without expiry omits the field", func() {
		mockService.EXPECT().ConsentExpiryDate(gomock.Any(), "analytics").Return(time.Time{}, true, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/consents/analytics/expiry", nil)
		req = withURLParam(authenticated(req, "user123"), "purpose", "analytics")
		w := httptest.NewRecorder()
		h.handleGetConsentExpiryDate(w, req)

		s.Equal(http.StatusOK, w.Code)
		s.NotContains(w.Body.String(), "expiry_date")
	})

	s.Run("unknown purpose is 404", func() {
		mockService.EXPECT().ConsentExpiryDate(gomock.Any(), "ghost").Return(time.Time{}, false, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/consents/ghost/expiry", nil)
		req = withURLParam(authenticated(req, "user123"), "purpose", "ghost")
		w := httptest.NewRecorder()
		h.handleGetConsentExpiryDate(w, req)

		s.Equal(http.StatusNotFound, w.Code)
	})
}

func (s *ConsentHandlerSuite) TestHandleSaveConsents() {
	h, mockService := newTestHandler(s.T())

	s.Run("success returns the dispatched view", func() {
		mockService.EXPECT().SaveConsents(gomock.Any()).Return(map[string]models.Consent{
			"marketing": {Purpose: "marketing", Status: models.StatusRefused},
		}, nil)

		req := authenticated(httptest.NewRequest(http.MethodPost, "/v1/consents/sync", nil), "user123")
		w := httptest.NewRecorder()
		h.handleSaveConsents(w, req)

		s.Equal(http.StatusOK, w.Code)
		var resp map[string]map[string]models.Consent
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Contains(resp["synced"], "marketing")
	})

	s.Run("dispatch failure maps to bad gateway with sync payload", func() {
		mockService.EXPECT().SaveConsents(gomock.Any()).Return(nil, errors.New("collector returned 503"))

		req := authenticated(httptest.NewRequest(http.MethodPost, "/v1/consents/sync", nil), "user123")
		w := httptest.NewRecorder()
		h.handleSaveConsents(w, req)

		s.Equal(http.StatusBadGateway, w.Code)
		var failure models.SyncFailure
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &failure))
		s.False(failure.Success)
		s.Contains(failure.Message, "collector returned 503")
	})
}

func (s *ConsentHandlerSuite) TestHandleSaveContexts() {
	h, mockService := newTestHandler(s.T())
	mockService.EXPECT().SaveContexts(gomock.Any()).Return(nil)

	req := authenticated(httptest.NewRequest(http.MethodPost, "/v1/contexts/sync", nil), "user123")
	w := httptest.NewRecorder()
	h.handleSaveContexts(w, req)

	s.Equal(http.StatusNoContent, w.Code)
}

func (s *ConsentHandlerSuite) TestRouterRejectsMissingToken() {
	h, _ := newTestHandler(s.T())
	r := chi.NewRouter()
	h.Register(r)

	req := httptest.NewRequest(http.MethodGet, "/v1/consents", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	s.Equal(http.StatusUnauthorized, w.Code)
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/buildsign/buildsign-api/internal/config"
	"github.com/buildsign/buildsign-api/internal/jobs"
	"github.com/buildsign/buildsign-api/internal/models"
	"github.com/buildsign/buildsign-api/internal/realtime"
	"github.com/buildsign/buildsign-api/internal/repository"
	"github.com/buildsign/buildsign-api/internal/services"
	"github.com/buildsign/buildsign-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type stubContractRepository struct {
	repository.ContractRepository
	byToken map[string]*models.Contract
}

func (s *stubContractRepository) FindByShareToken(ctx context.Context, token string) (*models.Contract, error) {
	if contract, ok := s.byToken[token]; ok {
		return contract, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubContractRepository) FindByID(ctx context.Context, id uint) (*models.Contract, error) {
	for _, contract := range s.byToken {
		if contract.ID == id {
			return contract, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubContractRepository) UpdateStatus(ctx context.Context, id uint, expectedStatus string, patch map[string]interface{}, event *models.ContractEvent) error {
	return nil
}

type stubEventRepository struct {
	repository.EventRepository
}

func (s *stubEventRepository) Append(ctx context.Context, event *models.ContractEvent) error {
	return nil
}

type stubNotificationRepository struct {
	repository.NotificationRepository
}

func (s *stubNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return nil
}

type stubUserRepository struct {
	repository.UserRepository
}

func (s *stubUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func setupShareRouter(t *testing.T, contracts map[string]*models.Contract) (*gin.Engine, func()) {
	t.Helper()
	logger.Setup("test")
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AppURL:             "https://app.buildsign.test",
		ShareTokenTTLHours: 72,
		FromEmail:          "noreply@buildsign.test",
	}
	worker := jobs.NewWorker(1)
	hub := realtime.NewHub()

	shareService := services.NewShareService(
		&stubContractRepository{byToken: contracts},
		&stubUserRepository{},
		services.NewEventService(&stubEventRepository{}, worker),
		services.NewNotificationService(&stubNotificationRepository{}),
		services.NewEmailService(cfg),
		services.NewDocumentService(),
		services.NewShareTokenIssuer(cfg.AppURL, 72*time.Hour),
		hub,
		worker,
	)

	handler := NewShareHandler(shareService)

	router := gin.New()
	router.GET("/api/v1/contract/view", handler.View)
	router.POST("/api/v1/contract/view", handler.Sign)
	router.GET("/api/v1/contract/view/download", handler.Download)

	return router, func() {
		worker.Shutdown()
		hub.Shutdown()
	}
}

func sharedContract(token, status string) *models.Contract {
	expiresAt := time.Now().Add(24 * time.Hour)
	return &models.Contract{
		ID:                  1,
		ContractNumber:      "CT-20260301-ABCD1234",
		OwnerID:             10,
		ContractorName:      "Apex Builders LLC",
		ClientName:          "Jordan Reyes",
		ClientEmail:         "jordan@example.com",
		ClientPhone:         "555-867-5309",
		ClientAddress:       "42 Hillcrest Ave",
		Status:              status,
		ShareToken:          &token,
		ShareTokenExpiresAt: &expiresAt,
	}
}

func TestShareViewUnknownTokenReturns404(t *testing.T) {
	router, teardown := setupShareRouter(t, map[string]*models.Contract{})
	defer teardown()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contract/view?token=bogus", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// A request with no token at all is malformed, not a miss: it gets 400, so
// callers can tell a broken link apart from a revoked or unknown one.
func TestShareViewMissingTokenReturnsBadRequest(t *testing.T) {
	router, teardown := setupShareRouter(t, map[string]*models.Contract{})
	defer teardown()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contract/view", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShareViewExpiredTokenReturns410(t *testing.T) {
	contract := sharedContract("stale-token", models.ContractStatusSent)
	past := time.Now().Add(-time.Minute)
	contract.ShareTokenExpiresAt = &past

	router, teardown := setupShareRouter(t, map[string]*models.Contract{"stale-token": contract})
	defer teardown()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contract/view?token=stale-token", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusGone, w.Code)
}

func TestShareViewReturnsRedactedContract(t *testing.T) {
	contract := sharedContract("live-token", models.ContractStatusSent)
	router, teardown := setupShareRouter(t, map[string]*models.Contract{"live-token": contract})
	defer teardown()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contract/view?token=live-token", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Contract map[string]interface{} `json:"contract"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	// Client contact details are masked, and the raw token never echoes back
	assert.Equal(t, "jo****@example.com", body.Contract["client_email"])
	assert.Equal(t, "***-***-5309", body.Contract["client_phone"])
	assert.NotContains(t, w.Body.String(), "live-token")
	assert.NotContains(t, w.Body.String(), "42 Hillcrest Ave")

	// First open advances the lifecycle
	assert.Equal(t, models.ContractStatusViewed, body.Contract["status"])
}

func TestShareSignWithoutSignatureReturns400(t *testing.T) {
	contract := sharedContract("live-token", models.ContractStatusViewed)
	router, teardown := setupShareRouter(t, map[string]*models.Contract{"live-token": contract})
	defer teardown()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contract/view?token=live-token",
		strings.NewReader(`{"signature": ""}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShareSignSucceeds(t *testing.T) {
	contract := sharedContract("live-token", models.ContractStatusViewed)
	router, teardown := setupShareRouter(t, map[string]*models.Contract{"live-token": contract})
	defer teardown()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contract/view?token=live-token",
		strings.NewReader(`{"signature": "data:image/png;base64,abc123"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		AlreadySigned bool                   `json:"already_signed"`
		Contract      map[string]interface{} `json:"contract"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.AlreadySigned)
	assert.Equal(t, models.ContractStatusPendingContractor, body.Contract["status"])
	assert.Equal(t, true, body.Contract["client_signed"])
}

func TestShareSignTwiceAcknowledges(t *testing.T) {
	contract := sharedContract("live-token", models.ContractStatusSigned)
	sig := "data:image/png;base64,first"
	signedAt := time.Now().Add(-time.Hour)
	contract.ClientSignature = &sig
	contract.ClientSignedAt = &signedAt

	router, teardown := setupShareRouter(t, map[string]*models.Contract{"live-token": contract})
	defer teardown()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contract/view?token=live-token",
		strings.NewReader(`{"signature": "data:image/png;base64,second"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		AlreadySigned bool `json:"already_signed"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.AlreadySigned)
	assert.Equal(t, sig, *contract.ClientSignature)
}

func TestShareDownloadServesPDF(t *testing.T) {
	contract := sharedContract("live-token", models.ContractStatusViewed)
	router, teardown := setupShareRouter(t, map[string]*models.Contract{"live-token": contract})
	defer teardown()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contract/view/download?token=live-token", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "contract_CT-20260301-ABCD1234.pdf")
}

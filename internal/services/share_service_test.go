package services

import (
	"context"
	"testing"
	"time"

	"github.com/buildsign/buildsign-api/internal/config"
	"github.com/buildsign/buildsign-api/internal/jobs"
	"github.com/buildsign/buildsign-api/internal/models"
	"github.com/buildsign/buildsign-api/internal/realtime"
	"github.com/buildsign/buildsign-api/internal/repository"
	"github.com/buildsign/buildsign-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// Mock ContractRepository
type mockContractRepository struct {
	repository.ContractRepository
	mockFindByShareToken func(ctx context.Context, token string) (*models.Contract, error)
	mockFindByID         func(ctx context.Context, id uint) (*models.Contract, error)
	mockUpdateStatus     func(ctx context.Context, id uint, expectedStatus string, patch map[string]interface{}, event *models.ContractEvent) error
	mockSwapShareToken   func(ctx context.Context, id uint, token string, expiresAt time.Time, event *models.ContractEvent) error
	mockCreate           func(ctx context.Context, contract *models.Contract) error
}

func (m *mockContractRepository) FindByShareToken(ctx context.Context, token string) (*models.Contract, error) {
	if m.mockFindByShareToken != nil {
		return m.mockFindByShareToken(ctx, token)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockContractRepository) FindByID(ctx context.Context, id uint) (*models.Contract, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockContractRepository) UpdateStatus(ctx context.Context, id uint, expectedStatus string, patch map[string]interface{}, event *models.ContractEvent) error {
	if m.mockUpdateStatus != nil {
		return m.mockUpdateStatus(ctx, id, expectedStatus, patch, event)
	}
	return nil
}

func (m *mockContractRepository) SwapShareToken(ctx context.Context, id uint, token string, expiresAt time.Time, event *models.ContractEvent) error {
	if m.mockSwapShareToken != nil {
		return m.mockSwapShareToken(ctx, id, token, expiresAt, event)
	}
	return nil
}

func (m *mockContractRepository) Create(ctx context.Context, contract *models.Contract) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, contract)
	}
	return nil
}

// Mock EventRepository capturing appended events
type mockEventRepository struct {
	repository.EventRepository
	appended []*models.ContractEvent
}

func (m *mockEventRepository) Append(ctx context.Context, event *models.ContractEvent) error {
	m.appended = append(m.appended, event)
	return nil
}

func (m *mockEventRepository) ListForContract(ctx context.Context, contractID uint, limit int) ([]models.ContractEvent, error) {
	return nil, nil
}

// Mock NotificationRepository
type mockNotificationRepository struct {
	repository.NotificationRepository
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return nil
}

// Mock UserRepository. FindByID fails so background email jobs bail out
// before touching the mail provider.
type mockUserRepository struct {
	repository.UserRepository
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func newTestShareService(contractRepo *mockContractRepository, eventRepo *mockEventRepository) (*ShareService, *jobs.Worker) {
	logger.Setup("test")
	cfg := &config.Config{
		AppURL:             "https://app.buildsign.test",
		ShareTokenTTLHours: 72,
		FromEmail:          "noreply@buildsign.test",
	}
	worker := jobs.NewWorker(1)
	hub := realtime.NewHub()
	issuer := NewShareTokenIssuer(cfg.AppURL, 72*time.Hour)

	svc := NewShareService(
		contractRepo,
		&mockUserRepository{},
		NewEventService(eventRepo, worker),
		NewNotificationService(&mockNotificationRepository{}),
		NewEmailService(cfg),
		NewDocumentService(),
		issuer,
		hub,
		worker,
	)
	return svc, worker
}

func liveContract(status string) *models.Contract {
	token := "test-token"
	expiresAt := time.Now().Add(24 * time.Hour)
	return &models.Contract{
		ID:                  1,
		ContractNumber:      "CT-20260301-ABCD1234",
		OwnerID:             10,
		ContractorName:      "Apex Builders LLC",
		ClientName:          "Jordan Reyes",
		ClientEmail:         "jordan@example.com",
		ClientPhone:         "555-867-5309",
		Status:              status,
		ShareToken:          &token,
		ShareTokenExpiresAt: &expiresAt,
	}
}

func TestViewUnknownTokenReturnsNotFound(t *testing.T) {
	svc, worker := newTestShareService(&mockContractRepository{}, &mockEventRepository{})
	defer worker.Shutdown()

	_, err := svc.View(context.Background(), "no-such-token", "1.2.3.4", "test-agent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestViewEmptyTokenReturnsTokenRequired(t *testing.T) {
	svc, worker := newTestShareService(&mockContractRepository{}, &mockEventRepository{})
	defer worker.Shutdown()

	_, err := svc.View(context.Background(), "", "1.2.3.4", "test-agent")
	assert.ErrorIs(t, err, ErrTokenRequired)
}

func TestViewExpiredTokenReturnsExpired(t *testing.T) {
	contract := liveContract(models.ContractStatusSent)
	past := time.Now().Add(-time.Minute)
	contract.ShareTokenExpiresAt = &past

	repo := &mockContractRepository{
		mockFindByShareToken: func(ctx context.Context, token string) (*models.Contract, error) {
			return contract, nil
		},
	}
	svc, worker := newTestShareService(repo, &mockEventRepository{})
	defer worker.Shutdown()

	_, err := svc.View(context.Background(), "test-token", "1.2.3.4", "test-agent")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestViewArchivedContractReturnsNotFound(t *testing.T) {
	contract := liveContract(models.ContractStatusSent)
	archivedAt := time.Now()
	contract.ArchivedAt = &archivedAt

	repo := &mockContractRepository{
		mockFindByShareToken: func(ctx context.Context, token string) (*models.Contract, error) {
			return contract, nil
		},
	}
	svc, worker := newTestShareService(repo, &mockEventRepository{})
	defer worker.Shutdown()

	_, err := svc.View(context.Background(), "test-token", "1.2.3.4", "test-agent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestViewFirstOpenAdvancesStatus(t *testing.T) {
	contract := liveContract(models.ContractStatusSent)

	var gotExpected string
	var gotPatch map[string]interface{}
	var gotEvent *models.ContractEvent
	repo := &mockContractRepository{
		mockFindByShareToken: func(ctx context.Context, token string) (*models.Contract, error) {
			return contract, nil
		},
		mockUpdateStatus: func(ctx context.Context, id uint, expectedStatus string, patch map[string]interface{}, event *models.ContractEvent) error {
			gotExpected = expectedStatus
			gotPatch = patch
			gotEvent = event
			return nil
		},
	}
	svc, worker := newTestShareService(repo, &mockEventRepository{})
	defer worker.Shutdown()

	result, err := svc.View(context.Background(), "test-token", "1.2.3.4", "test-agent")
	assert.NoError(t, err)
	assert.Equal(t, models.ContractStatusViewed, result.Status)
	assert.NotNil(t, result.ClientViewedAt)

	assert.Equal(t, models.ContractStatusSent, gotExpected)
	assert.Equal(t, models.ContractStatusViewed, gotPatch["status"])
	assert.NotNil(t, gotEvent)
	assert.Equal(t, models.EventTypeViewed, gotEvent.EventType)
	assert.Equal(t, "1.2.3.4", gotEvent.IPAddress)
}

func TestViewRepeatOpenDoesNotTouchStatus(t *testing.T) {
	contract := liveContract(models.ContractStatusViewed)
	viewedAt := time.Now().Add(-time.Hour)
	contract.ClientViewedAt = &viewedAt

	updateCalled := false
	repo := &mockContractRepository{
		mockFindByShareToken: func(ctx context.Context, token string) (*models.Contract, error) {
			return contract, nil
		},
		mockUpdateStatus: func(ctx context.Context, id uint, expectedStatus string, patch map[string]interface{}, event *models.ContractEvent) error {
			updateCalled = true
			return nil
		},
	}
	eventRepo := &mockEventRepository{}
	svc, worker := newTestShareService(repo, eventRepo)
	defer worker.Shutdown()

	result, err := svc.View(context.Background(), "test-token", "1.2.3.4", "test-agent")
	assert.NoError(t, err)
	assert.False(t, updateCalled)
	assert.Equal(t, models.ContractStatusViewed, result.Status)
	assert.Equal(t, viewedAt.Unix(), result.ClientViewedAt.Unix())

	// Repeat open still leaves an audit trail
	if assert.Len(t, eventRepo.appended, 1) {
		assert.Equal(t, models.EventTypeViewed, eventRepo.appended[0].EventType)
		data, err := eventRepo.appended[0].DecodeData()
		assert.NoError(t, err)
		assert.True(t, data.(models.ViewedData).Repeat)
	}
}

func TestViewLosingFirstOpenRaceFallsBackToRepeat(t *testing.T) {
	contract := liveContract(models.ContractStatusSent)
	fresh := liveContract(models.ContractStatusViewed)

	repo := &mockContractRepository{
		mockFindByShareToken: func(ctx context.Context, token string) (*models.Contract, error) {
			return contract, nil
		},
		mockUpdateStatus: func(ctx context.Context, id uint, expectedStatus string, patch map[string]interface{}, event *models.ContractEvent) error {
			return repository.ErrStatusConflict
		},
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return fresh, nil
		},
	}
	eventRepo := &mockEventRepository{}
	svc, worker := newTestShareService(repo, eventRepo)
	defer worker.Shutdown()

	result, err := svc.View(context.Background(), "test-token", "1.2.3.4", "test-agent")
	assert.NoError(t, err)
	assert.Equal(t, models.ContractStatusViewed, result.Status)
	assert.Len(t, eventRepo.appended, 1)
}

func TestSignRequiresSignaturePayload(t *testing.T) {
	svc, worker := newTestShareService(&mockContractRepository{}, &mockEventRepository{})
	defer worker.Shutdown()

	_, _, err := svc.Sign(context.Background(), "test-token", "   ", "1.2.3.4", "test-agent")
	assert.ErrorIs(t, err, ErrSignatureRequired)
}

func TestSignCompletesWhenContractorAlreadySigned(t *testing.T) {
	contract := liveContract(models.ContractStatusViewed)
	contractorSig := "data:image/png;base64,ownersig"
	contract.ContractorSignature = &contractorSig

	var gotPatch map[string]interface{}
	repo := &mockContractRepository{
		mockFindByShareToken: func(ctx context.Context, token string) (*models.Contract, error) {
			return contract, nil
		},
		mockUpdateStatus: func(ctx context.Context, id uint, expectedStatus string, patch map[string]interface{}, event *models.ContractEvent) error {
			gotPatch = patch
			return nil
		},
	}
	svc, worker := newTestShareService(repo, &mockEventRepository{})
	defer worker.Shutdown()

	result, already, err := svc.Sign(context.Background(), "test-token", "data:image/png;base64,clientsig", "1.2.3.4", "test-agent")
	assert.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, models.ContractStatusSigned, result.Status)
	assert.Equal(t, models.ContractStatusSigned, gotPatch["status"])
	assert.NotNil(t, result.ClientSignedAt)
}

func TestSignWithoutCounterSignatureGoesPending(t *testing.T) {
	contract := liveContract(models.ContractStatusViewed)

	var gotPatch map[string]interface{}
	repo := &mockContractRepository{
		mockFindByShareToken: func(ctx context.Context, token string) (*models.Contract, error) {
			return contract, nil
		},
		mockUpdateStatus: func(ctx context.Context, id uint, expectedStatus string, patch map[string]interface{}, event *models.ContractEvent) error {
			gotPatch = patch
			return nil
		},
	}
	svc, worker := newTestShareService(repo, &mockEventRepository{})
	defer worker.Shutdown()

	result, already, err := svc.Sign(context.Background(), "test-token", "data:image/png;base64,clientsig", "1.2.3.4", "test-agent")
	assert.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, models.ContractStatusPendingContractor, result.Status)
	assert.Equal(t, models.ContractStatusPendingContractor, gotPatch["status"])
}

func TestSignOnTerminalContractAcknowledgesWithoutOverwrite(t *testing.T) {
	contract := liveContract(models.ContractStatusSigned)
	originalSig := "data:image/png;base64,first"
	signedAt := time.Now().Add(-time.Hour)
	contract.ClientSignature = &originalSig
	contract.ClientSignedAt = &signedAt

	updateCalled := false
	repo := &mockContractRepository{
		mockFindByShareToken: func(ctx context.Context, token string) (*models.Contract, error) {
			return contract, nil
		},
		mockUpdateStatus: func(ctx context.Context, id uint, expectedStatus string, patch map[string]interface{}, event *models.ContractEvent) error {
			updateCalled = true
			return nil
		},
	}
	svc, worker := newTestShareService(repo, &mockEventRepository{})
	defer worker.Shutdown()

	result, already, err := svc.Sign(context.Background(), "test-token", "data:image/png;base64,second", "1.2.3.4", "test-agent")
	assert.NoError(t, err)
	assert.True(t, already)
	assert.False(t, updateCalled)
	assert.Equal(t, originalSig, *result.ClientSignature)
}

func TestSignBeforeViewingIsRejected(t *testing.T) {
	contract := liveContract(models.ContractStatusSent)

	repo := &mockContractRepository{
		mockFindByShareToken: func(ctx context.Context, token string) (*models.Contract, error) {
			return contract, nil
		},
	}
	svc, worker := newTestShareService(repo, &mockEventRepository{})
	defer worker.Shutdown()

	_, _, err := svc.Sign(context.Background(), "test-token", "data:image/png;base64,sig", "1.2.3.4", "test-agent")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSignLosingRaceToConcurrentSignAcks(t *testing.T) {
	contract := liveContract(models.ContractStatusViewed)
	fresh := liveContract(models.ContractStatusSigned)
	winnerSig := "data:image/png;base64,winner"
	fresh.ClientSignature = &winnerSig

	repo := &mockContractRepository{
		mockFindByShareToken: func(ctx context.Context, token string) (*models.Contract, error) {
			return contract, nil
		},
		mockUpdateStatus: func(ctx context.Context, id uint, expectedStatus string, patch map[string]interface{}, event *models.ContractEvent) error {
			return repository.ErrStatusConflict
		},
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return fresh, nil
		},
	}
	svc, worker := newTestShareService(repo, &mockEventRepository{})
	defer worker.Shutdown()

	result, already, err := svc.Sign(context.Background(), "test-token", "data:image/png;base64,loser", "1.2.3.4", "test-agent")
	assert.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, winnerSig, *result.ClientSignature)
}

func TestDownloadRecordsEvent(t *testing.T) {
	contract := liveContract(models.ContractStatusViewed)

	repo := &mockContractRepository{
		mockFindByShareToken: func(ctx context.Context, token string) (*models.Contract, error) {
			return contract, nil
		},
	}
	eventRepo := &mockEventRepository{}
	svc, worker := newTestShareService(repo, eventRepo)
	defer worker.Shutdown()

	data, filename, err := svc.Download(context.Background(), "test-token", "1.2.3.4", "test-agent")
	assert.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "contract_CT-20260301-ABCD1234.pdf", filename)

	if assert.Len(t, eventRepo.appended, 1) {
		assert.Equal(t, models.EventTypeDownloaded, eventRepo.appended[0].EventType)
	}
}

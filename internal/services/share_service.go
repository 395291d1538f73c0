package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/buildsign/buildsign-api/internal/jobs"
	"github.com/buildsign/buildsign-api/internal/models"
	"github.com/buildsign/buildsign-api/internal/realtime"
	"github.com/buildsign/buildsign-api/internal/repository"
	"github.com/buildsign/buildsign-api/internal/statemachine"
	"github.com/buildsign/buildsign-api/pkg/logger"
	"gorm.io/gorm"
)

// ShareService is the unauthenticated gateway behind the share link. The
// token is the sole credential: it resolves to exactly one contract, and
// expiry is enforced against the server clock on every request.
type ShareService struct {
	repo            repository.ContractRepository
	userRepo        repository.UserRepository
	eventSvc        *EventService
	notificationSvc *NotificationService
	emailSvc        *EmailService
	documentSvc     *DocumentService
	tokenIssuer     *ShareTokenIssuer
	hub             *realtime.Hub
	worker          *jobs.Worker
}

func NewShareService(
	repo repository.ContractRepository,
	userRepo repository.UserRepository,
	eventSvc *EventService,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	documentSvc *DocumentService,
	tokenIssuer *ShareTokenIssuer,
	hub *realtime.Hub,
	worker *jobs.Worker,
) *ShareService {
	return &ShareService{
		repo:            repo,
		userRepo:        userRepo,
		eventSvc:        eventSvc,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		documentSvc:     documentSvc,
		tokenIssuer:     tokenIssuer,
		hub:             hub,
		worker:          worker,
	}
}

// resolve maps a raw token to a live contract. A missing token is
// ErrTokenRequired, unknown and archived tokens are both ErrNotFound, and a
// matching but stale token is ErrTokenExpired.
func (s *ShareService) resolve(ctx context.Context, token string) (*models.Contract, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}

	contract, err := s.repo.FindByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if contract.ArchivedAt != nil {
		return nil, ErrNotFound
	}

	if s.tokenIssuer.Expired(contract.ShareTokenExpiresAt, time.Now()) {
		return nil, ErrTokenExpired
	}

	return contract, nil
}

// View serves the contract through the share link. The first open moves the
// contract to viewed; every later open is a plain read that only appends a
// repeat-view audit event. A failed audit write never hides the contract.
func (s *ShareService) View(ctx context.Context, token, ip, userAgent string) (*models.Contract, error) {
	contract, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	if !contract.MayView() {
		// Repeat open, or the client coming back after signing
		s.eventSvc.Record(ctx, contract.ID, models.EventTypeViewed,
			models.ViewedData{Repeat: true}, ip, userAgent)
		return contract, nil
	}

	event, err := models.NewEvent(contract.ID, models.EventTypeViewed, models.ViewedData{}, ip, userAgent)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	patch := map[string]interface{}{
		"status":           models.ContractStatusViewed,
		"client_viewed_at": now,
	}

	err = s.repo.UpdateStatus(ctx, contract.ID, models.ContractStatusSent, patch, event)
	switch {
	case err == nil:
		contract.Status = models.ContractStatusViewed
		contract.ClientViewedAt = &now
		s.notifyViewed(contract)
	case errors.Is(err, repository.ErrStatusConflict):
		// Someone else's open won the race to be first. This one still counts.
		s.eventSvc.Record(ctx, contract.ID, models.EventTypeViewed,
			models.ViewedData{Repeat: true}, ip, userAgent)
		return s.refetch(ctx, contract.ID, contract)
	default:
		return nil, err
	}

	return contract, nil
}

// Sign records the client signature. Exactly once: a signature on a
// terminal contract is acknowledged but never overwritten.
func (s *ShareService) Sign(ctx context.Context, token, signature, ip, userAgent string) (*models.Contract, bool, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, false, ErrSignatureRequired
	}

	contract, err := s.resolve(ctx, token)
	if err != nil {
		return nil, false, err
	}

	if contract.IsTerminal() {
		return contract, true, nil
	}

	fsm := statemachine.NewContractFSM(contract)
	if err := fsm.Sign(ctx); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	now := time.Now()
	event, err := models.NewEvent(contract.ID, models.EventTypeSigned,
		models.SignedData{SignedBy: "client", SignedAt: now}, ip, userAgent)
	if err != nil {
		return nil, false, err
	}

	patch := map[string]interface{}{
		"status":           contract.Status,
		"client_signature": signature,
		"client_signed_at": now,
	}

	if err := s.repo.UpdateStatus(ctx, contract.ID, models.ContractStatusViewed, patch, event); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			// Lost the race: if a concurrent submit already signed, treat
			// this one as the duplicate it is.
			fresh, ferr := s.repo.FindByID(ctx, contract.ID)
			if ferr == nil && fresh.IsTerminal() {
				return fresh, true, nil
			}
			return nil, false, ErrConflict
		}
		return nil, false, err
	}

	contract.ClientSignature = &signature
	contract.ClientSignedAt = &now

	s.notifySigned(contract)

	return contract, false, nil
}

// Download renders the redacted contract PDF for the client and records it.
func (s *ShareService) Download(ctx context.Context, token, ip, userAgent string) ([]byte, string, error) {
	contract, err := s.resolve(ctx, token)
	if err != nil {
		return nil, "", err
	}

	data, filename, err := s.documentSvc.ClientContractPDF(ctx, contract)
	if err != nil {
		return nil, "", err
	}

	s.eventSvc.Record(ctx, contract.ID, models.EventTypeDownloaded,
		models.DownloadedData{DownloadedBy: "client"}, ip, userAgent)

	return data, filename, nil
}

func (s *ShareService) refetch(ctx context.Context, id uint, fallback *models.Contract) (*models.Contract, error) {
	fresh, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fallback, nil
	}
	return fresh, nil
}

func (s *ShareService) notifyViewed(contract *models.Contract) {
	snapshot := *contract

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyOwner(ctx, snapshot.OwnerID, snapshot.ID,
			"Contract viewed",
			fmt.Sprintf("%s opened contract %s", snapshot.ClientName, snapshot.ContractNumber),
			models.NotificationTypeContractViewed)
	})

	s.hub.Publish(contract.ID, models.EventTypeViewed, contract.Status)
}

func (s *ShareService) notifySigned(contract *models.Contract) {
	snapshot := *contract

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		owner, err := s.userRepo.FindByID(ctx, snapshot.OwnerID)
		if err != nil {
			return fmt.Errorf("failed to load owner %d for signed notice: %w", snapshot.OwnerID, err)
		}
		return s.emailSvc.SendSignedNotice(ctx, owner, &snapshot)
	})

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyOwner(ctx, snapshot.OwnerID, snapshot.ID,
			"Contract signed",
			fmt.Sprintf("%s signed contract %s", snapshot.ClientName, snapshot.ContractNumber),
			models.NotificationTypeContractSigned)
	})

	s.hub.Publish(contract.ID, models.EventTypeSigned, contract.Status)

	logger.Info(fmt.Sprintf("[Contracts] Contract %d (%s) signed by client, status %s",
		contract.ID, contract.ContractNumber, contract.Status))
}

package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/buildsign/buildsign-api/internal/config"
	"github.com/buildsign/buildsign-api/internal/jobs"
	"github.com/buildsign/buildsign-api/internal/models"
	"github.com/buildsign/buildsign-api/internal/realtime"
	"github.com/buildsign/buildsign-api/internal/repository"
	"github.com/buildsign/buildsign-api/internal/statemachine"
	"github.com/buildsign/buildsign-api/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContractService owns the contractor-facing side of the lifecycle: drafting,
// sending, re-sending, countersigning and archiving.
type ContractService struct {
	repo            repository.ContractRepository
	userRepo        repository.UserRepository
	eventSvc        *EventService
	notificationSvc *NotificationService
	emailSvc        *EmailService
	documentSvc     *DocumentService
	tokenIssuer     *ShareTokenIssuer
	hub             *realtime.Hub
	worker          *jobs.Worker
	cfg             *config.Config
}

func NewContractService(
	repo repository.ContractRepository,
	userRepo repository.UserRepository,
	eventSvc *EventService,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	documentSvc *DocumentService,
	tokenIssuer *ShareTokenIssuer,
	hub *realtime.Hub,
	worker *jobs.Worker,
	cfg *config.Config,
) *ContractService {
	return &ContractService{
		repo:            repo,
		userRepo:        userRepo,
		eventSvc:        eventSvc,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		documentSvc:     documentSvc,
		tokenIssuer:     tokenIssuer,
		hub:             hub,
		worker:          worker,
		cfg:             cfg,
	}
}

// FindByID gets a contract owned by ownerID. Other owners' contracts are
// indistinguishable from missing ones.
func (s *ContractService) FindByID(ctx context.Context, id, ownerID uint) (*models.Contract, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if contract.OwnerID != ownerID || contract.ArchivedAt != nil {
		return nil, ErrNotFound
	}
	return contract, nil
}

func (s *ContractService) List(ctx context.Context, query *repository.ContractQuery) ([]models.Contract, int64, error) {
	return s.repo.List(ctx, query)
}

// Create persists a new draft. The contract number is generated server-side.
func (s *ContractService) Create(ctx context.Context, contract *models.Contract) error {
	contract.ContractNumber = generateContractNumber()
	contract.Status = models.ContractStatusDraft

	if contract.DepositAmount == 0 && contract.DepositPercentage > 0 {
		contract.DepositAmount = contract.TotalAmount * contract.DepositPercentage / 100
	}

	return s.repo.Create(ctx, contract)
}

// Update edits a draft's terms. Once a contract has been sent its terms are
// frozen; the owner re-drafts instead.
func (s *ContractService) Update(ctx context.Context, contract *models.Contract) error {
	if contract.Status != models.ContractStatusDraft {
		return fmt.Errorf("%w: only draft contracts can be edited", ErrInvalidState)
	}
	if contract.DepositAmount == 0 && contract.DepositPercentage > 0 {
		contract.DepositAmount = contract.TotalAmount * contract.DepositPercentage / 100
	}
	return s.repo.Update(ctx, contract)
}

// SendToClient mints the first share link and emails it out. The status
// write, token write and audit event land in one transaction; the email and
// notification are fired asynchronously after commit.
func (s *ContractService) SendToClient(ctx context.Context, id, ownerID uint) (*models.Contract, error) {
	contract, err := s.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if err := validateClientEmail(contract.ClientEmail); err != nil {
		return nil, err
	}

	fsm := statemachine.NewContractFSM(contract)
	if err := fsm.Send(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	token, expiresAt, err := s.tokenIssuer.Mint()
	if err != nil {
		return nil, err
	}

	event, err := models.NewEvent(contract.ID, models.EventTypeSent,
		models.SentData{Recipient: models.MaskEmail(contract.ClientEmail)}, "", "")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	patch := map[string]interface{}{
		"status":                 models.ContractStatusSent,
		"share_token":            token,
		"share_token_expires_at": expiresAt,
		"sent_to_client_at":      now,
	}

	if err := s.repo.UpdateStatus(ctx, contract.ID, models.ContractStatusDraft, patch, event); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}

	contract.Status = models.ContractStatusSent
	contract.ShareToken = &token
	contract.ShareTokenExpiresAt = &expiresAt
	contract.SentToClientAt = &now

	s.dispatchShareLink(contract, token)
	s.hub.Publish(contract.ID, models.EventTypeSent, contract.Status)

	return contract, nil
}

// Resend rotates the share link. The previous token stops working the moment
// the swap commits; an expired or lost link is recovered this way.
func (s *ContractService) Resend(ctx context.Context, id, ownerID uint) (*models.Contract, error) {
	contract, err := s.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if err := validateClientEmail(contract.ClientEmail); err != nil {
		return nil, err
	}

	if !contract.MayResend() {
		return nil, fmt.Errorf("%w: contract is already %s", ErrInvalidState, contract.Status)
	}

	token, expiresAt, err := s.tokenIssuer.Mint()
	if err != nil {
		return nil, err
	}

	event, err := models.NewEvent(contract.ID, models.EventTypeSent,
		models.SentData{Recipient: models.MaskEmail(contract.ClientEmail), Resend: true}, "", "")
	if err != nil {
		return nil, err
	}

	if err := s.repo.SwapShareToken(ctx, contract.ID, token, expiresAt, event); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}

	now := time.Now()
	contract.Status = models.ContractStatusSent
	contract.ShareToken = &token
	contract.ShareTokenExpiresAt = &expiresAt
	contract.SentToClientAt = &now

	s.dispatchShareLink(contract, token)
	s.hub.Publish(contract.ID, models.EventTypeSent, contract.Status)

	return contract, nil
}

// ShareLinkInfo is what the owner sees about the active share link. The raw
// token appears here and in the client email, nowhere else.
type ShareLinkInfo struct {
	ShareURL  string    `json:"share_url"`
	ExpiresAt time.Time `json:"expires_at"`
	Expired   bool      `json:"expired"`
}

// ShareLink returns the active link for a sent contract.
func (s *ContractService) ShareLink(ctx context.Context, id, ownerID uint) (*ShareLinkInfo, error) {
	contract, err := s.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if contract.ShareToken == nil || contract.ShareTokenExpiresAt == nil {
		return nil, fmt.Errorf("%w: contract has not been sent", ErrInvalidState)
	}
	return &ShareLinkInfo{
		ShareURL:  s.tokenIssuer.ShareURL(*contract.ShareToken),
		ExpiresAt: *contract.ShareTokenExpiresAt,
		Expired:   s.tokenIssuer.Expired(contract.ShareTokenExpiresAt, time.Now()),
	}, nil
}

// Activity returns the most recent audit events for a contract.
func (s *ContractService) Activity(ctx context.Context, id, ownerID uint, limit int) ([]models.ContractEvent, error) {
	if _, err := s.FindByID(ctx, id, ownerID); err != nil {
		return nil, err
	}
	return s.eventSvc.ListForContract(ctx, id, limit)
}

// CounterSign records the contractor's signature on a contract the client
// signed first, completing it.
func (s *ContractService) CounterSign(ctx context.Context, id, ownerID uint, signature string) (*models.Contract, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, ErrSignatureRequired
	}

	contract, err := s.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewContractFSM(contract)
	if err := fsm.CounterSign(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	event, err := models.NewEvent(contract.ID, models.EventTypeSigned,
		models.SignedData{SignedBy: "contractor", SignedAt: time.Now()}, "", "")
	if err != nil {
		return nil, err
	}

	patch := map[string]interface{}{
		"status":               models.ContractStatusSigned,
		"contractor_signature": signature,
	}

	if err := s.repo.UpdateStatus(ctx, contract.ID, models.ContractStatusPendingContractor, patch, event); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}

	contract.Status = models.ContractStatusSigned
	contract.ContractorSignature = &signature

	s.hub.Publish(contract.ID, models.EventTypeSigned, contract.Status)

	return contract, nil
}

// Download renders the owner's contract PDF and records the download.
func (s *ContractService) Download(ctx context.Context, id, ownerID uint, ip, userAgent string) ([]byte, string, error) {
	contract, err := s.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, "", err
	}

	data, filename, err := s.documentSvc.ContractPDF(ctx, contract)
	if err != nil {
		return nil, "", err
	}

	s.eventSvc.Record(ctx, contract.ID, models.EventTypeDownloaded,
		models.DownloadedData{DownloadedBy: "owner"}, ip, userAgent)

	return data, filename, nil
}

// Archive hides a contract from listings. The row and its audit trail stay.
func (s *ContractService) Archive(ctx context.Context, id, ownerID uint) error {
	if _, err := s.FindByID(ctx, id, ownerID); err != nil {
		return err
	}
	return s.repo.Archive(ctx, id)
}

// NotifyExpiredLinks tells owners about share links that expired since the
// last sweep, so they can re-send before the client gives up.
func (s *ContractService) NotifyExpiredLinks(ctx context.Context, since time.Time) error {
	contracts, err := s.repo.FindRecentlyExpired(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to find expired share links: %w", err)
	}

	for _, contract := range contracts {
		if err := s.notificationSvc.NotifyOwner(ctx, contract.OwnerID, contract.ID,
			"Share link expired",
			fmt.Sprintf("The share link for contract %s expired before %s signed. Re-send to issue a new one.",
				contract.ContractNumber, contract.ClientName),
			models.NotificationTypeSystemError); err != nil {
			logger.Error(fmt.Sprintf("[Contracts] Failed to notify owner %d about expired link: %v", contract.OwnerID, err))
		}
	}

	if len(contracts) > 0 {
		logger.Info(fmt.Sprintf("[Contracts] Notified %d owners of expired share links", len(contracts)))
	}
	return nil
}

// dispatchShareLink fires the client email and owner notification without
// blocking the request.
func (s *ContractService) dispatchShareLink(contract *models.Contract, token string) {
	shareURL := s.tokenIssuer.ShareURL(token)
	snapshot := *contract

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.emailSvc.SendShareLink(ctx, &snapshot, shareURL, s.cfg.ShareTokenTTLHours)
	})

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyOwner(ctx, snapshot.OwnerID, snapshot.ID,
			"Contract sent",
			fmt.Sprintf("Contract %s was sent to %s", snapshot.ContractNumber, models.MaskEmail(snapshot.ClientEmail)),
			models.NotificationTypeContractSent)
	})

	logger.Info(fmt.Sprintf("[Contracts] Share link issued for contract %d (%s)", contract.ID, contract.ContractNumber))
}

func validateClientEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrClientEmailRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: %q is not a valid address", ErrClientEmailRequired, email)
	}
	return nil
}

func generateContractNumber() string {
	return fmt.Sprintf("CT-%s-%s",
		time.Now().Format("20060102"),
		strings.ToUpper(uuid.NewString()[:8]))
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

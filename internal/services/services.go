package services

import (
	"time"

	"github.com/buildsign/buildsign-api/internal/config"
	"github.com/buildsign/buildsign-api/internal/jobs"
	"github.com/buildsign/buildsign-api/internal/realtime"
	"github.com/buildsign/buildsign-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Contract     *ContractService
	Share        *ShareService
	Event        *EventService
	Notification *NotificationService
	Email        *EmailService
	Document     *DocumentService
	Export       *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, hub *realtime.Hub, cfg *config.Config) *Services {
	tokenIssuer := NewShareTokenIssuer(cfg.AppURL, time.Duration(cfg.ShareTokenTTLHours)*time.Hour)

	eventSvc := NewEventService(repos.Event, worker)
	notificationSvc := NewNotificationService(repos.Notification)
	emailSvc := NewEmailService(cfg)
	documentSvc := NewDocumentService()

	return &Services{
		Contract: NewContractService(repos.Contract, repos.User, eventSvc, notificationSvc,
			emailSvc, documentSvc, tokenIssuer, hub, worker, cfg),
		Share: NewShareService(repos.Contract, repos.User, eventSvc, notificationSvc,
			emailSvc, documentSvc, tokenIssuer, hub, worker),
		Event:        eventSvc,
		Notification: notificationSvc,
		Email:        emailSvc,
		Document:     documentSvc,
		Export:       NewExportService(repos.Contract),
	}
}

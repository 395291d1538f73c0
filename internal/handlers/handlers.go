package handlers

import (
	"github.com/buildsign/buildsign-api/internal/realtime"
	"github.com/buildsign/buildsign-api/internal/services"
	"gorm.io/gorm"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Contract     *ContractHandler
	Share        *ShareHandler
	Notification *NotificationHandler
	Events       *EventsHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, hub *realtime.Hub, db *gorm.DB) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(db),
		Contract:     NewContractHandler(svcs.Contract, svcs.Export),
		Share:        NewShareHandler(svcs.Share),
		Notification: NewNotificationHandler(svcs.Notification),
		Events:       NewEventsHandler(hub, svcs.Contract),
	}
}

package repository

import (
	"context"

	"github.com/buildsign/buildsign-api/internal/models"
	"gorm.io/gorm"
)

// MaxEventPageSize bounds activity listings so a chatty contract cannot
// blow up memory or response size.
const MaxEventPageSize = 20

// EventRepository defines the interface for the append-only audit trail.
// There is deliberately no update or delete.
type EventRepository interface {
	Append(ctx context.Context, event *models.ContractEvent) error
	ListForContract(ctx context.Context, contractID uint, limit int) ([]models.ContractEvent, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Append(ctx context.Context, event *models.ContractEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) ListForContract(ctx context.Context, contractID uint, limit int) ([]models.ContractEvent, error) {
	if limit <= 0 || limit > MaxEventPageSize {
		limit = MaxEventPageSize
	}
	var events []models.ContractEvent
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

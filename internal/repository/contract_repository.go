package repository

import (
	"context"
	"time"

	"github.com/buildsign/buildsign-api/internal/models"
	"gorm.io/gorm"
)

// ContractRepository defines the interface for contract data access
type ContractRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Contract, error)
	// FindByShareToken is a direct equality lookup. The token is the sole
	// credential for the external party, so no prefix or partial matching.
	FindByShareToken(ctx context.Context, token string) (*models.Contract, error)
	Create(ctx context.Context, contract *models.Contract) error
	Update(ctx context.Context, contract *models.Contract) error
	// UpdateStatus applies a conditional patch: the row is written only if
	// its status still equals expectedStatus, and the audit event lands in
	// the same transaction. Returns ErrStatusConflict when the guard fails.
	UpdateStatus(ctx context.Context, id uint, expectedStatus string, patch map[string]interface{}, event *models.ContractEvent) error
	// SwapShareToken atomically replaces the active token and moves the
	// contract back to sent. The previous token stops matching the moment
	// the swap commits.
	SwapShareToken(ctx context.Context, id uint, token string, expiresAt time.Time, event *models.ContractEvent) error
	List(ctx context.Context, query *ContractQuery) ([]models.Contract, int64, error)
	// FindRecentlyExpired returns unsigned contracts whose share link expired
	// after since. Used by the expiry sweep so owners are told once.
	FindRecentlyExpired(ctx context.Context, since time.Time) ([]models.Contract, error)
	Archive(ctx context.Context, id uint) error
}

// ContractQuery extends ListQuery with contract-specific filters
type ContractQuery struct {
	*ListQuery
	OwnerID uint
	Status  string
}

type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) FindByID(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindByShareToken(ctx context.Context, token string) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Where("share_token = ?", token).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) Create(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *contractRepository) Update(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

func (r *contractRepository) UpdateStatus(ctx context.Context, id uint, expectedStatus string, patch map[string]interface{}, event *models.ContractEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Contract{}).
			Where("id = ? AND status = ?", id, expectedStatus).
			Updates(patch)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}
		if event != nil {
			if err := tx.Create(event).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *contractRepository) SwapShareToken(ctx context.Context, id uint, token string, expiresAt time.Time, event *models.ContractEvent) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Single conditional UPDATE so an in-flight request against the old
		// token either completes before the swap or misses entirely. Terminal
		// states are excluded: a signed contract keeps its record intact.
		res := tx.Model(&models.Contract{}).
			Where("id = ? AND status IN ?", id, []string{
				models.ContractStatusDraft,
				models.ContractStatusSent,
				models.ContractStatusViewed,
			}).
			Updates(map[string]interface{}{
				"status":                 models.ContractStatusSent,
				"share_token":            token,
				"share_token_expires_at": expiresAt,
				"sent_to_client_at":      now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}
		if event != nil {
			if err := tx.Create(event).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *contractRepository) List(ctx context.Context, query *ContractQuery) ([]models.Contract, int64, error) {
	var contracts []models.Contract
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Contract{}).
		Where("contracts.archived_at IS NULL")

	if query.OwnerID > 0 {
		db = db.Where("contracts.owner_id = ?", query.OwnerID)
	}

	if query.Status != "" {
		db = db.Where("contracts.status = ?", query.Status)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("contracts.contract_number ILIKE ? OR contracts.client_name ILIKE ? OR contracts.client_email ILIKE ?",
			search, search, search)
	}

	// Count using a separate session so the main query is not altered by Count()
	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("contracts.created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&contracts).Error
	if err != nil {
		return nil, 0, err
	}

	return contracts, total, nil
}

func (r *contractRepository) FindRecentlyExpired(ctx context.Context, since time.Time) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{models.ContractStatusSent, models.ContractStatusViewed}).
		Where("share_token_expires_at > ? AND share_token_expires_at <= ?", since, time.Now()).
		Where("archived_at IS NULL").
		Find(&contracts).Error
	return contracts, err
}

// Archive soft-hides a contract. Rows are never physically deleted while
// events reference them.
func (r *contractRepository) Archive(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Contract{}).
		Where("id = ?", id).
		Update("archived_at", time.Now()).Error
}

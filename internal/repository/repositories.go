package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrStatusConflict is returned when a conditional status update loses the
// race: the stored status no longer matches what the caller observed.
var ErrStatusConflict = errors.New("contract status changed concurrently")

// Repositories holds all repository instances
type Repositories struct {
	Contract     ContractRepository
	Event        EventRepository
	Notification NotificationRepository
	User         UserRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Contract:     NewContractRepository(db),
		Event:        NewEventRepository(db),
		Notification: NewNotificationRepository(db),
		User:         NewUserRepository(db),
	}
}

// ListQuery holds common list parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

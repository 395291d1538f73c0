package models

import (
	"time"
)

// User represents a contract owner. Authentication happens upstream; this
// service only resolves the identity carried in the session token.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Contracts []Contract `gorm:"foreignKey:OwnerID" json:"contracts,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

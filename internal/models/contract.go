package models

import (
	"strings"
	"time"
)

// Contract represents a construction contract between a contractor (the
// account owner) and an external client who signs through a share link.
type Contract struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ContractNumber string `gorm:"uniqueIndex;not null" json:"contract_number"`
	OwnerID        uint   `gorm:"not null;index" json:"owner_id"`

	// Contractor party
	ContractorName    string `gorm:"not null" json:"contractor_name"`
	ContractorAddress string `json:"contractor_address"`
	ContractorPhone   string `json:"contractor_phone"`
	ContractorEmail   string `json:"contractor_email"`
	ContractorLicense string `json:"contractor_license"`

	// Client party
	ClientName    string `gorm:"not null" json:"client_name"`
	ClientAddress string `json:"client_address"`
	ClientPhone   string `json:"client_phone"`
	ClientEmail   string `json:"client_email"`

	// Terms
	ScopeOfWork        string     `gorm:"type:text" json:"scope_of_work"`
	TotalAmount        float64    `gorm:"type:decimal" json:"total_amount"`
	DepositPercentage  float64    `gorm:"type:decimal" json:"deposit_percentage"`
	DepositAmount      float64    `gorm:"type:decimal" json:"deposit_amount"`
	PaymentSchedule    string     `gorm:"type:text" json:"payment_schedule"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	Warranty           string     `gorm:"type:text" json:"warranty"`
	ChangeOrderClause  string     `gorm:"type:text" json:"change_order_clause"`
	CancellationClause string     `gorm:"type:text" json:"cancellation_clause"`
	DisputeClause      string     `gorm:"type:text" json:"dispute_clause"`
	LiabilityInsurance bool       `gorm:"default:false" json:"liability_insurance"`
	WorkersComp        bool       `gorm:"default:false" json:"workers_comp"`

	// Lifecycle
	Status              string     `gorm:"default:draft;index" json:"status"`
	ShareToken          *string    `gorm:"uniqueIndex" json:"-"`
	ShareTokenExpiresAt *time.Time `json:"share_token_expires_at"`
	SentToClientAt      *time.Time `json:"sent_to_client_at"`
	ClientViewedAt      *time.Time `json:"client_viewed_at"`
	ClientSignedAt      *time.Time `json:"client_signed_at"`
	ContractorSignature *string    `gorm:"type:text" json:"contractor_signature"`
	ClientSignature     *string    `gorm:"type:text" json:"client_signature"`

	ArchivedAt *time.Time `gorm:"index" json:"archived_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Associations
	Owner  User            `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Events []ContractEvent `gorm:"foreignKey:ContractID" json:"events,omitempty"`
}

// TableName specifies the table name for Contract
func (Contract) TableName() string {
	return "contracts"
}

// Contract status constants
const (
	ContractStatusDraft             = "draft"
	ContractStatusSent              = "sent"
	ContractStatusViewed            = "viewed"
	ContractStatusSigned            = "signed"
	ContractStatusPendingContractor = "pending_contractor"
)

// MaySend returns true if the contract can be sent for the first time
func (c *Contract) MaySend() bool {
	return c.Status == ContractStatusDraft
}

// MayResend returns true if a fresh share link may be issued. Terminal
// states keep their recorded signature, so re-sending is not allowed.
func (c *Contract) MayResend() bool {
	switch c.Status {
	case ContractStatusDraft, ContractStatusSent, ContractStatusViewed:
		return true
	}
	return false
}

// MayView returns true if opening the share link should advance status
func (c *Contract) MayView() bool {
	return c.Status == ContractStatusSent
}

// MaySign returns true if the client can submit a signature
func (c *Contract) MaySign() bool {
	return c.Status == ContractStatusViewed
}

// MayCounterSign returns true if the contractor can countersign
func (c *Contract) MayCounterSign() bool {
	return c.Status == ContractStatusPendingContractor
}

// IsTerminal reports whether the client-side signing action no longer applies
func (c *Contract) IsTerminal() bool {
	return c.Status == ContractStatusSigned || c.Status == ContractStatusPendingContractor
}

// ContractResponse is the JSON response format for the owner's view
type ContractResponse struct {
	ID                  uint       `json:"id"`
	ContractNumber      string     `json:"contract_number"`
	Status              string     `json:"status"`
	ContractorName      string     `json:"contractor_name"`
	ContractorAddress   string     `json:"contractor_address"`
	ContractorPhone     string     `json:"contractor_phone"`
	ContractorEmail     string     `json:"contractor_email"`
	ContractorLicense   string     `json:"contractor_license"`
	ClientName          string     `json:"client_name"`
	ClientAddress       string     `json:"client_address"`
	ClientPhone         string     `json:"client_phone"`
	ClientEmail         string     `json:"client_email"`
	ScopeOfWork         string     `json:"scope_of_work"`
	TotalAmount         float64    `json:"total_amount"`
	DepositPercentage   float64    `json:"deposit_percentage"`
	DepositAmount       float64    `json:"deposit_amount"`
	PaymentSchedule     string     `json:"payment_schedule"`
	StartDate           *time.Time `json:"start_date"`
	EndDate             *time.Time `json:"end_date"`
	Warranty            string     `json:"warranty"`
	ChangeOrderClause   string     `json:"change_order_clause"`
	CancellationClause  string     `json:"cancellation_clause"`
	DisputeClause       string     `json:"dispute_clause"`
	LiabilityInsurance  bool       `json:"liability_insurance"`
	WorkersComp         bool       `json:"workers_comp"`
	ShareTokenExpiresAt *time.Time `json:"share_token_expires_at"`
	SentToClientAt      *time.Time `json:"sent_to_client_at"`
	ClientViewedAt      *time.Time `json:"client_viewed_at"`
	ClientSignedAt      *time.Time `json:"client_signed_at"`
	ContractorSigned    bool       `json:"contractor_signed"`
	ClientSigned        bool       `json:"client_signed"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// ToResponse converts Contract to ContractResponse
func (c *Contract) ToResponse() ContractResponse {
	return ContractResponse{
		ID:                  c.ID,
		ContractNumber:      c.ContractNumber,
		Status:              c.Status,
		ContractorName:      c.ContractorName,
		ContractorAddress:   c.ContractorAddress,
		ContractorPhone:     c.ContractorPhone,
		ContractorEmail:     c.ContractorEmail,
		ContractorLicense:   c.ContractorLicense,
		ClientName:          c.ClientName,
		ClientAddress:       c.ClientAddress,
		ClientPhone:         c.ClientPhone,
		ClientEmail:         c.ClientEmail,
		ScopeOfWork:         c.ScopeOfWork,
		TotalAmount:         c.TotalAmount,
		DepositPercentage:   c.DepositPercentage,
		DepositAmount:       c.DepositAmount,
		PaymentSchedule:     c.PaymentSchedule,
		StartDate:           c.StartDate,
		EndDate:             c.EndDate,
		Warranty:            c.Warranty,
		ChangeOrderClause:   c.ChangeOrderClause,
		CancellationClause:  c.CancellationClause,
		DisputeClause:       c.DisputeClause,
		LiabilityInsurance:  c.LiabilityInsurance,
		WorkersComp:         c.WorkersComp,
		ShareTokenExpiresAt: c.ShareTokenExpiresAt,
		SentToClientAt:      c.SentToClientAt,
		ClientViewedAt:      c.ClientViewedAt,
		ClientSignedAt:      c.ClientSignedAt,
		ContractorSigned:    c.ContractorSignature != nil,
		ClientSigned:        c.ClientSignature != nil,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

// ClientContractResponse is the snapshot served through the share link.
// The client's own contact details are masked: they are shown only as a
// self-verification cue and must not be scrapable. Contractor fields stay
// fully visible so the client can identify their counterparty.
type ClientContractResponse struct {
	ContractNumber     string     `json:"contract_number"`
	Status             string     `json:"status"`
	ContractorName     string     `json:"contractor_name"`
	ContractorAddress  string     `json:"contractor_address"`
	ContractorPhone    string     `json:"contractor_phone"`
	ContractorEmail    string     `json:"contractor_email"`
	ContractorLicense  string     `json:"contractor_license"`
	ClientName         string     `json:"client_name"`
	ClientPhone        string     `json:"client_phone"`
	ClientEmail        string     `json:"client_email"`
	ScopeOfWork        string     `json:"scope_of_work"`
	TotalAmount        float64    `json:"total_amount"`
	DepositPercentage  float64    `json:"deposit_percentage"`
	DepositAmount      float64    `json:"deposit_amount"`
	PaymentSchedule    string     `json:"payment_schedule"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	Warranty           string     `json:"warranty"`
	ChangeOrderClause  string     `json:"change_order_clause"`
	CancellationClause string     `json:"cancellation_clause"`
	DisputeClause      string     `json:"dispute_clause"`
	LiabilityInsurance bool       `json:"liability_insurance"`
	WorkersComp        bool       `json:"workers_comp"`
	ContractorSigned   bool       `json:"contractor_signed"`
	ClientSigned       bool       `json:"client_signed"`
	ClientSignedAt     *time.Time `json:"client_signed_at"`
}

// ToClientResponse converts Contract to the redacted client snapshot
func (c *Contract) ToClientResponse() ClientContractResponse {
	return ClientContractResponse{
		ContractNumber:     c.ContractNumber,
		Status:             c.Status,
		ContractorName:     c.ContractorName,
		ContractorAddress:  c.ContractorAddress,
		ContractorPhone:    c.ContractorPhone,
		ContractorEmail:    c.ContractorEmail,
		ContractorLicense:  c.ContractorLicense,
		ClientName:         c.ClientName,
		ClientPhone:        MaskPhone(c.ClientPhone),
		ClientEmail:        MaskEmail(c.ClientEmail),
		ScopeOfWork:        c.ScopeOfWork,
		TotalAmount:        c.TotalAmount,
		DepositPercentage:  c.DepositPercentage,
		DepositAmount:      c.DepositAmount,
		PaymentSchedule:    c.PaymentSchedule,
		StartDate:          c.StartDate,
		EndDate:            c.EndDate,
		Warranty:           c.Warranty,
		ChangeOrderClause:  c.ChangeOrderClause,
		CancellationClause: c.CancellationClause,
		DisputeClause:      c.DisputeClause,
		LiabilityInsurance: c.LiabilityInsurance,
		WorkersComp:        c.WorkersComp,
		ContractorSigned:   c.ContractorSignature != nil,
		ClientSigned:       c.ClientSignature != nil,
		ClientSignedAt:     c.ClientSignedAt,
	}
}

// MaskEmail keeps the first two characters of the local part and the domain
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return strings.Repeat("*", len(email))
	}
	local := email[:at]
	domain := email[at:]
	if len(local) <= 2 {
		return local + "***" + domain
	}
	return local[:2] + strings.Repeat("*", len(local)-2) + domain
}

// MaskPhone keeps only the last four digits
func MaskPhone(phone string) string {
	if phone == "" {
		return ""
	}
	var digits []rune
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		return "***-" + string(digits)
	}
	return "***-***-" + string(digits[len(digits)-4:])
}

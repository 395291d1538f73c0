package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ContractEvent is an append-only audit fact. Rows are never updated or
// deleted; the audit sequence is the total order by created_at, ties
// broken by id.
type ContractEvent struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ContractID uint            `gorm:"not null;index" json:"contract_id"`
	EventType  string          `gorm:"size:20;not null;index" json:"event_type"`
	EventData  json.RawMessage `gorm:"type:jsonb" json:"event_data"`
	IPAddress  string          `gorm:"size:45" json:"ip_address"`
	UserAgent  string          `gorm:"size:500" json:"user_agent"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`

	// Associations
	Contract Contract `gorm:"foreignKey:ContractID" json:"-"`
}

// TableName specifies the table name for ContractEvent
func (ContractEvent) TableName() string {
	return "contract_events"
}

// Event type constants
const (
	EventTypeSent       = "sent"
	EventTypeViewed     = "viewed"
	EventTypeSigned     = "signed"
	EventTypeDownloaded = "downloaded"
)

// SentData is the payload recorded when a share link is emailed out
type SentData struct {
	Recipient string `json:"recipient"`
	Resend    bool   `json:"resend,omitempty"`
}

// ViewedData is the payload recorded each time the share link is opened
type ViewedData struct {
	Repeat bool `json:"repeat,omitempty"`
}

// SignedData is the payload recorded when a signature lands
type SignedData struct {
	SignedBy string    `json:"signedBy"`
	SignedAt time.Time `json:"signedAt"`
}

// DownloadedData is the payload recorded when the contract PDF is fetched
type DownloadedData struct {
	DownloadedBy string `json:"downloadedBy"`
}

// NewEvent builds an event with its typed payload already encoded.
func NewEvent(contractID uint, eventType string, data any, ip, userAgent string) (*ContractEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event data: %w", eventType, err)
	}
	if len(userAgent) > 500 {
		userAgent = userAgent[:500]
	}
	return &ContractEvent{
		ContractID: contractID,
		EventType:  eventType,
		EventData:  raw,
		IPAddress:  ip,
		UserAgent:  userAgent,
	}, nil
}

// DecodeData dispatches on EventType and returns the typed payload.
func (e *ContractEvent) DecodeData() (any, error) {
	switch e.EventType {
	case EventTypeSent:
		var d SentData
		if err := json.Unmarshal(e.EventData, &d); err != nil {
			return nil, err
		}
		return d, nil
	case EventTypeViewed:
		var d ViewedData
		if err := json.Unmarshal(e.EventData, &d); err != nil {
			return nil, err
		}
		return d, nil
	case EventTypeSigned:
		var d SignedData
		if err := json.Unmarshal(e.EventData, &d); err != nil {
			return nil, err
		}
		return d, nil
	case EventTypeDownloaded:
		var d DownloadedData
		if err := json.Unmarshal(e.EventData, &d); err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("unknown event type: %s", e.EventType)
}

// ContractEventResponse is the JSON response format for activity feeds
type ContractEventResponse struct {
	ID         uint            `json:"id"`
	ContractID uint            `json:"contract_id"`
	EventType  string          `json:"event_type"`
	EventData  json.RawMessage `json:"event_data"`
	IPAddress  string          `json:"ip_address"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToResponse converts ContractEvent to ContractEventResponse
func (e *ContractEvent) ToResponse() ContractEventResponse {
	return ContractEventResponse{
		ID:         e.ID,
		ContractID: e.ContractID,
		EventType:  e.EventType,
		EventData:  e.EventData,
		IPAddress:  e.IPAddress,
		CreatedAt:  e.CreatedAt,
	}
}

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewEventEncodesPayload(t *testing.T) {
	event, err := NewEvent(7, EventTypeSent, SentData{Recipient: "jo****@example.com"}, "1.2.3.4", "test-agent")
	assert.NoError(t, err)
	assert.Equal(t, uint(7), event.ContractID)
	assert.Equal(t, EventTypeSent, event.EventType)
	assert.JSONEq(t, `{"recipient": "jo****@example.com"}`, string(event.EventData))
	assert.Equal(t, "1.2.3.4", event.IPAddress)
}

func TestNewEventTruncatesLongUserAgent(t *testing.T) {
	event, err := NewEvent(1, EventTypeViewed, ViewedData{}, "1.2.3.4", strings.Repeat("x", 800))
	assert.NoError(t, err)
	assert.Len(t, event.UserAgent, 500)
}

func TestDecodeDataDispatchesOnType(t *testing.T) {
	signedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		eventType string
		payload   any
		check     func(t *testing.T, decoded any)
	}{
		{
			name:      "sent",
			eventType: EventTypeSent,
			payload:   SentData{Recipient: "jo****@example.com", Resend: true},
			check: func(t *testing.T, decoded any) {
				d := decoded.(SentData)
				assert.Equal(t, "jo****@example.com", d.Recipient)
				assert.True(t, d.Resend)
			},
		},
		{
			name:      "viewed",
			eventType: EventTypeViewed,
			payload:   ViewedData{Repeat: true},
			check: func(t *testing.T, decoded any) {
				assert.True(t, decoded.(ViewedData).Repeat)
			},
		},
		{
			name:      "signed",
			eventType: EventTypeSigned,
			payload:   SignedData{SignedBy: "client", SignedAt: signedAt},
			check: func(t *testing.T, decoded any) {
				d := decoded.(SignedData)
				assert.Equal(t, "client", d.SignedBy)
				assert.True(t, d.SignedAt.Equal(signedAt))
			},
		},
		{
			name:      "downloaded",
			eventType: EventTypeDownloaded,
			payload:   DownloadedData{DownloadedBy: "owner"},
			check: func(t *testing.T, decoded any) {
				assert.Equal(t, "owner", decoded.(DownloadedData).DownloadedBy)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := NewEvent(1, tt.eventType, tt.payload, "", "")
			assert.NoError(t, err)

			decoded, err := event.DecodeData()
			assert.NoError(t, err)
			tt.check(t, decoded)
		})
	}
}

func TestDecodeDataUnknownType(t *testing.T) {
	event := &ContractEvent{EventType: "mystery", EventData: []byte(`{}`)}
	_, err := event.DecodeData()
	assert.Error(t, err)
}

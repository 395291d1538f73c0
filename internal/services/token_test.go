package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMintProducesUniqueOpaqueTokens(t *testing.T) {
	issuer := NewShareTokenIssuer("https://app.buildsign.test", time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, expiresAt, err := issuer.Mint()
		assert.NoError(t, err)
		assert.False(t, seen[token], "token repeated")
		seen[token] = true

		// 32 random bytes base64url-encoded
		assert.Len(t, token, 43)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
	}
}

func TestShareURL(t *testing.T) {
	issuer := NewShareTokenIssuer("https://app.buildsign.test/", time.Hour)
	assert.Equal(t, "https://app.buildsign.test/contract/view/abc123", issuer.ShareURL("abc123"))
}

func TestExpiredBoundary(t *testing.T) {
	issuer := NewShareTokenIssuer("https://app.buildsign.test", time.Hour)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt *time.Time
		expired   bool
	}{
		{name: "nil expiry means no live link", expiresAt: nil, expired: true},
		{name: "one second before expiry", expiresAt: timePtr(now.Add(time.Second)), expired: false},
		{name: "exactly at expiry is expired", expiresAt: timePtr(now), expired: true},
		{name: "one second past expiry", expiresAt: timePtr(now.Add(-time.Second)), expired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, issuer.Expired(tt.expiresAt, now))
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }

package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// shareTokenBytes gives 256 bits of entropy, well past the 128-bit floor
// for an unguessable credential.
const shareTokenBytes = 32

// ShareTokenIssuer mints and checks the opaque token that stands in for
// client authentication on the share link.
type ShareTokenIssuer struct {
	appURL string
	ttl    time.Duration
}

// NewShareTokenIssuer creates an issuer building links under appURL
func NewShareTokenIssuer(appURL string, ttl time.Duration) *ShareTokenIssuer {
	return &ShareTokenIssuer{
		appURL: strings.TrimRight(appURL, "/"),
		ttl:    ttl,
	}
}

// Mint generates a cryptographically random token with an absolute expiry.
func (i *ShareTokenIssuer) Mint() (string, time.Time, error) {
	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate share token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	return token, time.Now().Add(i.ttl), nil
}

// ShareURL returns the client-facing link for a token.
func (i *ShareTokenIssuer) ShareURL(token string) string {
	return i.appURL + "/contract/view/" + token
}

// Expired checks a stored absolute expiry against the server clock, never a
// client-supplied value. The boundary instant counts as expired (closed
// interval): a token minted with ttl=1h is dead at exactly mint+1h.
// A contract with no expiry on record has no live link at all.
func (i *ShareTokenIssuer) Expired(expiresAt *time.Time, now time.Time) bool {
	if expiresAt == nil {
		return true
	}
	return !now.Before(*expiresAt)
}

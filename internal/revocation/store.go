// Package revocation keeps the list of token IDs (jti) that were revoked before
// their natural expiry. Entries only need to outlive the token they block.
package revocation

import (
	"context"
	"time"
)

// Store records and looks up revoked token IDs.
type Store interface {
	// Revoke blocks jti until expiresAt. Entries for already expired tokens are skipped.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// minTTL keeps a just-expiring token blocked across small clock skews.
const minTTL = time.Second

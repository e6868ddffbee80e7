package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
)

// IDTokenVerifier cryptographically verifies a third-party identity token for
// a single audience and returns its claims.
type IDTokenVerifier interface {
	Verify(ctx context.Context, rawToken, audience string) (*domain.IdentityClaims, error)
}

// RevocationStore remembers revoked renewal credentials until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

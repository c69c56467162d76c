package ports

import (
	"context"
	"time"

	"cliprewards/contexts/identity-access/connected-accounts/domain/entities"
)

type Repository interface {
	UpsertAccount(ctx context.Context, account entities.ConnectedAccount) error
	GetAccount(ctx context.Context, userID string, platform string) (entities.ConnectedAccount, error)
	ListAccounts(ctx context.Context, userID string) ([]entities.ConnectedAccount, error)
	RevokeAccount(ctx context.Context, userID string, platform string, revokedAt time.Time) error
}

// TokenSealer encrypts platform access tokens at rest.
type TokenSealer interface {
	Seal(plaintext string) ([]byte, error)
	Open(sealed []byte) (string, error)
}

// AdminDirectory answers role checks for privileged operations.
type AdminDirectory interface {
	IsAdmin(ctx context.Context, userID string) bool
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

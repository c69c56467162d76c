package ports

import (
	"context"

	"cliprewards/contexts/finance-core/wallet-service/domain/entities"
)

type Repository interface {
	ListUserCommissions(ctx context.Context, userID string) ([]entities.Commission, error)
	ListUserPayouts(ctx context.Context, userID string) ([]entities.Payout, error)
}

package queries

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"cliprewards/contexts/finance-core/wallet-service/domain/entities"
	domainerrors "cliprewards/contexts/finance-core/wallet-service/domain/errors"
	"cliprewards/contexts/finance-core/wallet-service/ports"
)

type QueryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (uc QueryUseCase) ListUserCommissions(ctx context.Context, userID string) ([]entities.Commission, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domainerrors.ErrInvalidWalletQuery
	}
	return uc.Repository.ListUserCommissions(ctx, userID)
}

func (uc QueryUseCase) ListUserPayouts(ctx context.Context, userID string) ([]entities.Payout, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domainerrors.ErrInvalidWalletQuery
	}
	return uc.Repository.ListUserPayouts(ctx, userID)
}

func (uc QueryUseCase) Totals(ctx context.Context, userID string) (entities.WalletTotals, error) {
	commissions, err := uc.ListUserCommissions(ctx, userID)
	if err != nil {
		return entities.WalletTotals{}, err
	}
	payouts, err := uc.ListUserPayouts(ctx, userID)
	if err != nil {
		return entities.WalletTotals{}, err
	}

	totals := entities.WalletTotals{
		CommissionCount: len(commissions),
		PayoutCount:     len(payouts),
	}
	for _, commission := range commissions {
		totals.EarnedUSD = round4(totals.EarnedUSD + commission.AmountUSD)
	}
	for _, payout := range payouts {
		totals.PaidUSD = round4(totals.PaidUSD + payout.AmountUSD)
	}
	return totals, nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

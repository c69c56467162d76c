package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"cliprewards/contexts/finance-core/wallet-service/application/queries"
	httptransport "cliprewards/contexts/finance-core/wallet-service/transport/http"
)

type Handler struct {
	Queries queries.QueryUseCase
	Logger  *slog.Logger
}

func (h Handler) ListPayoutsHandler(ctx context.Context, userID string) (httptransport.ListPayoutsResponse, error) {
	items, err := h.Queries.ListUserPayouts(ctx, userID)
	if err != nil {
		return httptransport.ListPayoutsResponse{}, err
	}
	result := make([]httptransport.PayoutDTO, 0, len(items))
	for _, item := range items {
		result = append(result, httptransport.PayoutDTO{
			PayoutID:     item.PayoutID,
			SubmissionID: item.SubmissionID,
			AmountUSD:    item.AmountUSD,
			Description:  item.Description,
			CreatedAt:    item.CreatedAt.Format(time.RFC3339),
		})
	}
	return httptransport.ListPayoutsResponse{Items: result}, nil
}

func (h Handler) ListCommissionsHandler(ctx context.Context, userID string) (httptransport.ListCommissionsResponse, error) {
	items, err := h.Queries.ListUserCommissions(ctx, userID)
	if err != nil {
		return httptransport.ListCommissionsResponse{}, err
	}
	result := make([]httptransport.CommissionDTO, 0, len(items))
	for _, item := range items {
		result = append(result, httptransport.CommissionDTO{
			CreditID:     item.CreditID,
			SubmissionID: item.SubmissionID,
			CampaignID:   item.CampaignID,
			AmountUSD:    item.AmountUSD,
			Description:  item.Description,
			CreatedAt:    item.CreatedAt.Format(time.RFC3339),
		})
	}
	return httptransport.ListCommissionsResponse{Items: result}, nil
}

func (h Handler) TotalsHandler(ctx context.Context, userID string) (httptransport.WalletTotalsResponse, error) {
	totals, err := h.Queries.Totals(ctx, userID)
	if err != nil {
		return httptransport.WalletTotalsResponse{}, err
	}
	return httptransport.WalletTotalsResponse{
		CommissionCount: totals.CommissionCount,
		PayoutCount:     totals.PayoutCount,
		EarnedUSD:       totals.EarnedUSD,
		PaidUSD:         totals.PaidUSD,
	}, nil
}

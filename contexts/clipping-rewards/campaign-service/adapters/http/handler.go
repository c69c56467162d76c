package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"cliprewards/contexts/clipping-rewards/campaign-service/application/commands"
	"cliprewards/contexts/clipping-rewards/campaign-service/application/queries"
	"cliprewards/contexts/clipping-rewards/campaign-service/domain/entities"
	domainerrors "cliprewards/contexts/clipping-rewards/campaign-service/domain/errors"
	httptransport "cliprewards/contexts/clipping-rewards/campaign-service/transport/http"
)

type Handler struct {
	CreateCampaign commands.CreateCampaignUseCase
	ChangeStatus   commands.ChangeStatusUseCase
	Queries        queries.QueryUseCase
	Logger         *slog.Logger
}

func (h Handler) CreateCampaignHandler(
	ctx context.Context,
	brandID string,
	req httptransport.CreateCampaignRequest,
) (httptransport.CreateCampaignResponse, error) {
	var endsAt *time.Time
	if req.EndsAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			return httptransport.CreateCampaignResponse{}, domainerrors.ErrInvalidCampaignInput
		}
		endsAt = &parsed
	}
	item, err := h.CreateCampaign.Execute(ctx, commands.CreateCampaignCommand{
		BrandID:     brandID,
		Title:       req.Title,
		Description: req.Description,
		Platform:    req.Platform,
		CPMRateUSD:  req.CPMRateUSD,
		HoldHours:   req.HoldHours,
		MinViews:    req.MinViews,
		BudgetUSD:   req.BudgetUSD,
		EndsAt:      endsAt,
	})
	if err != nil {
		return httptransport.CreateCampaignResponse{}, err
	}
	return httptransport.CreateCampaignResponse{Campaign: mapCampaign(item)}, nil
}

func (h Handler) GetCampaignHandler(ctx context.Context, campaignID string) (httptransport.GetCampaignResponse, error) {
	item, err := h.Queries.GetCampaign(ctx, campaignID)
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{Campaign: mapCampaign(item)}, nil
}

func (h Handler) ListCampaignsHandler(
	ctx context.Context,
	brandID string,
	platform string,
	status string,
) (httptransport.ListCampaignsResponse, error) {
	items, err := h.Queries.ListCampaigns(ctx, queries.ListCampaignsQuery{
		BrandID:  brandID,
		Platform: platform,
		Status:   status,
	})
	if err != nil {
		return httptransport.ListCampaignsResponse{}, err
	}
	result := make([]httptransport.CampaignDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapCampaign(item))
	}
	return httptransport.ListCampaignsResponse{Items: result}, nil
}

func (h Handler) ChangeStatusHandler(
	ctx context.Context,
	campaignID string,
	req httptransport.ChangeStatusRequest,
) (httptransport.GetCampaignResponse, error) {
	item, err := h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
		CampaignID: campaignID,
		Status:     req.Status,
	})
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{Campaign: mapCampaign(item)}, nil
}

func mapCampaign(item entities.Campaign) httptransport.CampaignDTO {
	dto := httptransport.CampaignDTO{
		CampaignID:  item.CampaignID,
		BrandID:     item.BrandID,
		Title:       item.Title,
		Description: item.Description,
		Platform:    item.Platform,
		CPMRateUSD:  item.CPMRateUSD,
		HoldHours:   item.HoldHours,
		MinViews:    item.MinViews,
		BudgetUSD:   item.BudgetUSD,
		Status:      string(item.Status),
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.Format(time.RFC3339),
	}
	if item.EndsAt != nil {
		dto.EndsAt = item.EndsAt.Format(time.RFC3339)
	}
	return dto
}

package queries

import (
	"context"
	"log/slog"
	"strings"

	"cliprewards/contexts/clipping-rewards/campaign-service/domain/entities"
	"cliprewards/contexts/clipping-rewards/campaign-service/ports"
)

type ListCampaignsQuery struct {
	BrandID  string
	Platform string
	Status   string
}

type QueryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (uc QueryUseCase) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	return uc.Repository.GetCampaign(ctx, strings.TrimSpace(campaignID))
}

func (uc QueryUseCase) ListCampaigns(ctx context.Context, query ListCampaignsQuery) ([]entities.Campaign, error) {
	return uc.Repository.ListCampaigns(ctx, ports.CampaignFilter{
		BrandID:  strings.TrimSpace(query.BrandID),
		Platform: strings.ToLower(strings.TrimSpace(query.Platform)),
		Status:   entities.CampaignStatus(strings.ToLower(strings.TrimSpace(query.Status))),
	})
}

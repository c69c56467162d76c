package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "cliprewards/contexts/clipping-rewards/campaign-service/application"
	"cliprewards/contexts/clipping-rewards/campaign-service/domain/entities"
	domainerrors "cliprewards/contexts/clipping-rewards/campaign-service/domain/errors"
	"cliprewards/contexts/clipping-rewards/campaign-service/ports"
)

type CreateCampaignCommand struct {
	BrandID     string
	Title       string
	Description string
	Platform    string
	CPMRateUSD  float64
	HoldHours   int
	MinViews    int64
	BudgetUSD   float64
	EndsAt      *time.Time
}

type CreateCampaignUseCase struct {
	Repository ports.Repository
	Platforms  ports.PlatformCatalog
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc CreateCampaignUseCase) Execute(ctx context.Context, cmd CreateCampaignCommand) (entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	platform := strings.ToLower(strings.TrimSpace(cmd.Platform))
	if uc.Platforms != nil && !uc.Platforms.Supported(platform) {
		return entities.Campaign{}, domainerrors.ErrUnsupportedPlatform
	}

	now := uc.Clock.Now().UTC()
	campaignID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Campaign{}, err
	}
	campaign := entities.Campaign{
		CampaignID:  campaignID,
		BrandID:     strings.TrimSpace(cmd.BrandID),
		Title:       strings.TrimSpace(cmd.Title),
		Description: strings.TrimSpace(cmd.Description),
		Platform:    platform,
		CPMRateUSD:  cmd.CPMRateUSD,
		HoldHours:   cmd.HoldHours,
		MinViews:    cmd.MinViews,
		BudgetUSD:   cmd.BudgetUSD,
		EndsAt:      cmd.EndsAt,
		Status:      entities.CampaignStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !campaign.ValidateCreate() {
		return entities.Campaign{}, domainerrors.ErrInvalidCampaignInput
	}
	if campaign.EndsAt != nil && campaign.EndsAt.UTC().Before(now) {
		return entities.Campaign{}, domainerrors.ErrInvalidCampaignInput
	}
	if err := uc.Repository.CreateCampaign(ctx, campaign); err != nil {
		return entities.Campaign{}, err
	}

	logger.Info("campaign created",
		"event", "campaign_created",
		"module", "clipping-rewards/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"platform", campaign.Platform,
		"cpm_rate_usd", campaign.CPMRateUSD,
		"hold_hours", campaign.HoldHours,
	)
	return campaign, nil
}

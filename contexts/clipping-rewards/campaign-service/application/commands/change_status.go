package commands

import (
	"context"
	"log/slog"
	"strings"

	application "cliprewards/contexts/clipping-rewards/campaign-service/application"
	"cliprewards/contexts/clipping-rewards/campaign-service/domain/entities"
	domainerrors "cliprewards/contexts/clipping-rewards/campaign-service/domain/errors"
	"cliprewards/contexts/clipping-rewards/campaign-service/ports"
)

type ChangeStatusCommand struct {
	CampaignID string
	Status     string
}

type ChangeStatusUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaignID := strings.TrimSpace(cmd.CampaignID)
	target := entities.CampaignStatus(strings.ToLower(strings.TrimSpace(cmd.Status)))
	if campaignID == "" || target == "" {
		return entities.Campaign{}, domainerrors.ErrInvalidCampaignInput
	}

	campaign, err := uc.Repository.GetCampaign(ctx, campaignID)
	if err != nil {
		return entities.Campaign{}, err
	}
	if !entities.ValidStatusTransition(campaign.Status, target) {
		return entities.Campaign{}, domainerrors.ErrInvalidStatusTransition
	}

	now := uc.Clock.Now().UTC()
	if err := uc.Repository.UpdateCampaignStatus(ctx, campaignID, target, now); err != nil {
		return entities.Campaign{}, err
	}
	campaign.Status = target
	campaign.UpdatedAt = now

	logger.Info("campaign status changed",
		"event", "campaign_status_changed",
		"module", "clipping-rewards/campaign-service",
		"layer", "application",
		"campaign_id", campaignID,
		"status", string(target),
	)
	return campaign, nil
}

package ports

import (
	"context"
	"time"

	"cliprewards/contexts/clipping-rewards/campaign-service/domain/entities"
)

type CampaignFilter struct {
	BrandID  string
	Platform string
	Status   entities.CampaignStatus
}

type Repository interface {
	CreateCampaign(ctx context.Context, campaign entities.Campaign) error
	GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error)
	ListCampaigns(ctx context.Context, filter CampaignFilter) ([]entities.Campaign, error)
	UpdateCampaignStatus(ctx context.Context, campaignID string, status entities.CampaignStatus, updatedAt time.Time) error
}

// PlatformCatalog answers whether a platform tag has a view fetcher behind
// it; campaigns on unknown platforms are rejected at creation.
type PlatformCatalog interface {
	Supported(platform string) bool
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cliprewards/contexts/clipping-rewards/campaign-service/domain/entities"
	domainerrors "cliprewards/contexts/clipping-rewards/campaign-service/domain/errors"
	"cliprewards/contexts/clipping-rewards/campaign-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu        sync.Mutex
	campaigns map[string]entities.Campaign
}

func NewStore() *Store {
	return &Store{campaigns: make(map[string]entities.Campaign)}
}

func (s *Store) CreateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (entities.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	campaign, ok := s.campaigns[strings.TrimSpace(campaignID)]
	if !ok {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return campaign, nil
}

func (s *Store) ListCampaigns(_ context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		if filter.BrandID != "" && campaign.BrandID != filter.BrandID {
			continue
		}
		if filter.Platform != "" && campaign.Platform != filter.Platform {
			continue
		}
		if filter.Status != "" && campaign.Status != filter.Status {
			continue
		}
		items = append(items, campaign)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateCampaignStatus(_ context.Context, campaignID string, status entities.CampaignStatus, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	campaign, ok := s.campaigns[strings.TrimSpace(campaignID)]
	if !ok {
		return domainerrors.ErrCampaignNotFound
	}
	campaign.Status = status
	campaign.UpdatedAt = updatedAt.UTC()
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

// UUIDGenerator creates campaign identifiers for in-memory wiring.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// SystemClock is the wall clock used by in-memory wiring.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

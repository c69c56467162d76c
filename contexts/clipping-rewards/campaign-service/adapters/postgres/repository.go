package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"cliprewards/contexts/clipping-rewards/campaign-service/domain/entities"
	domainerrors "cliprewards/contexts/clipping-rewards/campaign-service/domain/errors"
	"cliprewards/contexts/clipping-rewards/campaign-service/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateCampaign(ctx context.Context, campaign entities.Campaign) error {
	row := campaignModelFromEntity(campaign)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCampaigns(ctx context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	tx := r.db.WithContext(ctx).Model(&campaignModel{})
	if filter.BrandID != "" {
		tx = tx.Where("brand_id = ?", filter.BrandID)
	}
	if filter.Platform != "" {
		tx = tx.Where("platform = ?", filter.Platform)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []campaignModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateCampaignStatus(ctx context.Context, campaignID string, status entities.CampaignStatus, updatedAt time.Time) error {
	updates := map[string]any{
		"status":     string(status),
		"updated_at": updatedAt.UTC(),
		"is_active":  status == entities.CampaignStatusActive,
	}
	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return nil
}

// campaignModel is the same campaigns table the submission repository reads
// as its projection; is_active is denormalized from status for that read
// path.
type campaignModel struct {
	CampaignID  string     `gorm:"column:campaign_id;primaryKey"`
	BrandID     string     `gorm:"column:brand_id"`
	Title       string     `gorm:"column:title"`
	Description string     `gorm:"column:description"`
	Platform    string     `gorm:"column:platform"`
	CPMRateUSD  float64    `gorm:"column:cpm_rate_usd"`
	HoldHours   int        `gorm:"column:hold_hours"`
	MinViews    int64      `gorm:"column:min_views"`
	BudgetUSD   float64    `gorm:"column:budget_usd"`
	EndsAt      *time.Time `gorm:"column:ends_at"`
	Status      string     `gorm:"column:status"`
	IsActive    bool       `gorm:"column:is_active"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (campaignModel) TableName() string {
	return "campaigns"
}

func campaignModelFromEntity(item entities.Campaign) campaignModel {
	return campaignModel{
		CampaignID:  strings.TrimSpace(item.CampaignID),
		BrandID:     strings.TrimSpace(item.BrandID),
		Title:       strings.TrimSpace(item.Title),
		Description: strings.TrimSpace(item.Description),
		Platform:    strings.TrimSpace(item.Platform),
		CPMRateUSD:  item.CPMRateUSD,
		HoldHours:   item.HoldHours,
		MinViews:    item.MinViews,
		BudgetUSD:   item.BudgetUSD,
		EndsAt:      normalizeOptionalTime(item.EndsAt),
		Status:      string(item.Status),
		IsActive:    item.Status == entities.CampaignStatusActive,
		CreatedAt:   item.CreatedAt.UTC(),
		UpdatedAt:   item.UpdatedAt.UTC(),
	}
}

func (m campaignModel) toEntity() entities.Campaign {
	return entities.Campaign{
		CampaignID:  m.CampaignID,
		BrandID:     m.BrandID,
		Title:       m.Title,
		Description: m.Description,
		Platform:    m.Platform,
		CPMRateUSD:  m.CPMRateUSD,
		HoldHours:   m.HoldHours,
		MinViews:    m.MinViews,
		BudgetUSD:   m.BudgetUSD,
		EndsAt:      normalizeOptionalTime(m.EndsAt),
		Status:      entities.CampaignStatus(m.Status),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

// UUIDGenerator creates campaign identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// SystemClock is the default runtime clock implementation.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

package postgresadapter

import (
	"context"
	"log/slog"
	"time"

	"cliprewards/contexts/finance-core/wallet-service/domain/entities"

	"gorm.io/gorm"
)

// Repository reads the wallet tables the reconciliation approval transaction
// writes. All writes happen inside that transaction, never here.
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

func (r *Repository) ListUserCommissions(ctx context.Context, userID string) ([]entities.Commission, error) {
	var rows []commissionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Commission, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.Commission{
			CreditID:     row.CreditID,
			UserID:       row.UserID,
			SubmissionID: row.SubmissionID,
			CampaignID:   row.CampaignID,
			AmountUSD:    row.AmountUSD,
			Description:  row.Description,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) ListUserPayouts(ctx context.Context, userID string) ([]entities.Payout, error) {
	var rows []payoutModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Payout, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.Payout{
			PayoutID:     row.PayoutID,
			UserID:       row.UserID,
			SubmissionID: row.SubmissionID,
			AmountUSD:    row.AmountUSD,
			Description:  row.Description,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

type commissionModel struct {
	CreditID     string    `gorm:"column:credit_id;primaryKey"`
	UserID       string    `gorm:"column:user_id"`
	SubmissionID string    `gorm:"column:submission_id"`
	CampaignID   string    `gorm:"column:campaign_id"`
	AmountUSD    float64   `gorm:"column:amount_usd"`
	Description  string    `gorm:"column:description"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (commissionModel) TableName() string {
	return "wallet_commissions"
}

type payoutModel struct {
	PayoutID     string    `gorm:"column:payout_id;primaryKey"`
	UserID       string    `gorm:"column:user_id"`
	SubmissionID string    `gorm:"column:submission_id"`
	AmountUSD    float64   `gorm:"column:amount_usd"`
	Description  string    `gorm:"column:description"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (payoutModel) TableName() string {
	return "payout_history"
}

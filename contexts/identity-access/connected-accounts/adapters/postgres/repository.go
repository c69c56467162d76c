package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"cliprewards/contexts/identity-access/connected-accounts/domain/entities"
	domainerrors "cliprewards/contexts/identity-access/connected-accounts/domain/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repository) UpsertAccount(ctx context.Context, account entities.ConnectedAccount) error {
	row := accountModelFromEntity(account)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "platform"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"handle", "sealed_token", "status", "updated_at",
			}),
		}).
		Create(&row).
		Error
}

func (r *Repository) GetAccount(ctx context.Context, userID string, platform string) (entities.ConnectedAccount, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Where("platform = ?", strings.TrimSpace(platform)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ConnectedAccount{}, domainerrors.ErrAccountNotFound
		}
		return entities.ConnectedAccount{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListAccounts(ctx context.Context, userID string) ([]entities.ConnectedAccount, error) {
	var rows []accountModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Order("created_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.ConnectedAccount, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) RevokeAccount(ctx context.Context, userID string, platform string, revokedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Where("platform = ?", strings.TrimSpace(platform)).
		Updates(map[string]any{
			"status":     string(entities.AccountStatusRevoked),
			"updated_at": revokedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAccountNotFound
	}
	return nil
}

type accountModel struct {
	AccountID   string    `gorm:"column:account_id;primaryKey"`
	UserID      string    `gorm:"column:user_id"`
	Platform    string    `gorm:"column:platform"`
	Handle      string    `gorm:"column:handle"`
	SealedToken []byte    `gorm:"column:sealed_token"`
	Status      string    `gorm:"column:status"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string {
	return "connected_accounts"
}

func accountModelFromEntity(item entities.ConnectedAccount) accountModel {
	return accountModel{
		AccountID:   strings.TrimSpace(item.AccountID),
		UserID:      strings.TrimSpace(item.UserID),
		Platform:    strings.TrimSpace(item.Platform),
		Handle:      strings.TrimSpace(item.Handle),
		SealedToken: item.SealedToken,
		Status:      string(item.Status),
		CreatedAt:   item.CreatedAt.UTC(),
		UpdatedAt:   item.UpdatedAt.UTC(),
	}
}

func (m accountModel) toEntity() entities.ConnectedAccount {
	return entities.ConnectedAccount{
		AccountID:   m.AccountID,
		UserID:      m.UserID,
		Platform:    m.Platform,
		Handle:      m.Handle,
		SealedToken: m.SealedToken,
		Status:      entities.AccountStatus(m.Status),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

// UUIDGenerator creates account identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// SystemClock is the default runtime clock implementation.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

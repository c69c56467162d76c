package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"cliprewards/contexts/clipping-rewards/submission-service/domain/entities"
	domainerrors "cliprewards/contexts/clipping-rewards/submission-service/domain/errors"
	"cliprewards/contexts/clipping-rewards/submission-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
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

func (r *Repository) CreateSubmission(ctx context.Context, submission entities.Submission) error {
	var duplicateCount int64
	if err := r.db.WithContext(ctx).
		Model(&submissionModel{}).
		Where("campaign_id = ?", strings.TrimSpace(submission.CampaignID)).
		Where("video_id = ?", strings.TrimSpace(submission.VideoID)).
		Count(&duplicateCount).
		Error; err != nil {
		return err
	}
	if duplicateCount > 0 {
		return domainerrors.ErrDuplicateSubmission
	}

	row := submissionModelFromEntity(submission)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateSubmission
		}
		return err
	}
	return nil
}

func (r *Repository) GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error) {
	var row submissionModel
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", strings.TrimSpace(submissionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Submission{}, domainerrors.ErrSubmissionNotFound
		}
		return entities.Submission{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListSubmissions(ctx context.Context, filter ports.SubmissionFilter) ([]entities.Submission, error) {
	tx := r.db.WithContext(ctx).Model(&submissionModel{})
	if strings.TrimSpace(filter.UserID) != "" {
		tx = tx.Where("user_id = ?", strings.TrimSpace(filter.UserID))
	}
	if strings.TrimSpace(filter.CampaignID) != "" {
		tx = tx.Where("campaign_id = ?", strings.TrimSpace(filter.CampaignID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []submissionModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Submission, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListHeldSubmissions(ctx context.Context, limit int) ([]entities.Submission, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []submissionModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(entities.SubmissionStatusHold)).
		Order("hold_until ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Submission, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateSubmissionMetrics(ctx context.Context, submission entities.Submission) error {
	result := r.db.WithContext(ctx).
		Model(&submissionModel{}).
		Where("submission_id = ?", strings.TrimSpace(submission.SubmissionID)).
		Where("status = ?", string(entities.SubmissionStatusHold)).
		Updates(map[string]any{
			"current_views": submission.CurrentViews,
			"delta_views":   submission.DeltaViews,
			"earnings_usd":  submission.EarningsUSD,
			"last_sync_at":  normalizeOptionalTime(submission.LastSyncAt),
			"updated_at":    submission.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrSubmissionNotHeld
	}
	return nil
}

// ApproveAndCredit finalizes a held submission. The status predicate inside
// the UPDATE is the idempotency guard: when a concurrent run already
// approved the row, zero rows are affected and the transaction rolls back
// without writing a second credit or payout.
func (r *Repository) ApproveAndCredit(ctx context.Context, input ports.ApproveAndCreditInput) error {
	submission := input.Submission
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&submissionModel{}).
			Where("submission_id = ?", strings.TrimSpace(submission.SubmissionID)).
			Where("status = ?", string(entities.SubmissionStatusHold)).
			Updates(map[string]any{
				"status":        string(entities.SubmissionStatusApproved),
				"approved_at":   normalizeOptionalTime(submission.ApprovedAt),
				"current_views": submission.CurrentViews,
				"delta_views":   submission.DeltaViews,
				"earnings_usd":  submission.EarningsUSD,
				"last_sync_at":  normalizeOptionalTime(submission.LastSyncAt),
				"updated_at":    submission.UpdatedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrSubmissionNotHeld
		}

		snapshot := viewSnapshotModelFromEntity(input.Snapshot)
		if err := tx.Create(&snapshot).Error; err != nil {
			return err
		}

		credit := commissionModel{
			CreditID:     strings.TrimSpace(input.Credit.CreditID),
			UserID:       strings.TrimSpace(input.Credit.UserID),
			SubmissionID: strings.TrimSpace(input.Credit.SubmissionID),
			CampaignID:   strings.TrimSpace(input.Credit.CampaignID),
			AmountUSD:    input.Credit.AmountUSD,
			Description:  strings.TrimSpace(input.Credit.Description),
			CreatedAt:    input.Credit.CreatedAt.UTC(),
		}
		if err := tx.Create(&credit).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrSubmissionNotHeld
			}
			return err
		}

		payout := payoutModel{
			PayoutID:     strings.TrimSpace(input.Payout.PayoutID),
			UserID:       strings.TrimSpace(input.Payout.UserID),
			SubmissionID: strings.TrimSpace(input.Payout.SubmissionID),
			AmountUSD:    input.Payout.AmountUSD,
			Description:  strings.TrimSpace(input.Payout.Description),
			CreatedAt:    input.Payout.CreatedAt.UTC(),
		}
		if err := tx.Create(&payout).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrSubmissionNotHeld
			}
			return err
		}
		return nil
	})
}

func (r *Repository) RejectSubmission(ctx context.Context, submissionID string, rejectedAt time.Time, reason string) error {
	result := r.db.WithContext(ctx).
		Model(&submissionModel{}).
		Where("submission_id = ?", strings.TrimSpace(submissionID)).
		Where("status = ?", string(entities.SubmissionStatusHold)).
		Updates(map[string]any{
			"status":           string(entities.SubmissionStatusRejected),
			"rejected_at":      rejectedAt.UTC(),
			"rejection_reason": strings.TrimSpace(reason),
			"updated_at":       rejectedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&submissionModel{}).
			Where("submission_id = ?", strings.TrimSpace(submissionID)).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrSubmissionNotFound
		}
		return domainerrors.ErrSubmissionNotHeld
	}
	return nil
}

func (r *Repository) AddViewSnapshot(ctx context.Context, snapshot entities.ViewSnapshot) error {
	row := viewSnapshotModelFromEntity(snapshot)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListViewSnapshots(ctx context.Context, submissionID string) ([]entities.ViewSnapshot, error) {
	var rows []viewSnapshotModel
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", strings.TrimSpace(submissionID)).
		Order("captured_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.ViewSnapshot, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.ViewSnapshot{
			SnapshotID:    row.SnapshotID,
			SubmissionID:  row.SubmissionID,
			Views:         row.Views,
			IsAnomaly:     row.IsAnomaly,
			AnomalyReason: row.AnomalyReason,
			CapturedAt:    row.CapturedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).
		Error; err != nil {
		return err
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrInvalidSubmissionInput
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidSubmissionInput
	}
	return nil
}

// GetCampaign reads the campaign projection owned by campaign-service.
func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (ports.CampaignSummary, error) {
	var row campaignProjectionModel
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CampaignSummary{}, domainerrors.ErrCampaignNotFound
		}
		return ports.CampaignSummary{}, err
	}
	return ports.CampaignSummary{
		CampaignID: row.CampaignID,
		Title:      row.Title,
		Platform:   row.Platform,
		CPMRateUSD: row.CPMRateUSD,
		HoldHours:  row.HoldHours,
		MinViews:   row.MinViews,
		EndsAt:     normalizeOptionalTime(row.EndsAt),
		IsActive:   row.IsActive,
	}, nil
}

type submissionModel struct {
	SubmissionID    string     `gorm:"column:submission_id;primaryKey"`
	CampaignID      string     `gorm:"column:campaign_id"`
	UserID          string     `gorm:"column:user_id"`
	AccountID       string     `gorm:"column:account_id"`
	Platform        string     `gorm:"column:platform"`
	VideoID         string     `gorm:"column:video_id"`
	VideoURL        string     `gorm:"column:video_url"`
	Title           string     `gorm:"column:title"`
	BaseViews       int64      `gorm:"column:base_views"`
	CurrentViews    int64      `gorm:"column:current_views"`
	DeltaViews      int64      `gorm:"column:delta_views"`
	EarningsUSD     float64    `gorm:"column:earnings_usd"`
	CPMRateUSD      float64    `gorm:"column:cpm_rate_usd"`
	HoldUntil       time.Time  `gorm:"column:hold_until"`
	Status          string     `gorm:"column:status"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	ApprovedAt      *time.Time `gorm:"column:approved_at"`
	RejectedAt      *time.Time `gorm:"column:rejected_at"`
	RejectionReason string     `gorm:"column:rejection_reason"`
	LastSyncAt      *time.Time `gorm:"column:last_sync_at"`
}

func (submissionModel) TableName() string {
	return "submissions"
}

func submissionModelFromEntity(item entities.Submission) submissionModel {
	return submissionModel{
		SubmissionID:    strings.TrimSpace(item.SubmissionID),
		CampaignID:      strings.TrimSpace(item.CampaignID),
		UserID:          strings.TrimSpace(item.UserID),
		AccountID:       strings.TrimSpace(item.AccountID),
		Platform:        strings.TrimSpace(item.Platform),
		VideoID:         strings.TrimSpace(item.VideoID),
		VideoURL:        strings.TrimSpace(item.VideoURL),
		Title:           strings.TrimSpace(item.Title),
		BaseViews:       item.BaseViews,
		CurrentViews:    item.CurrentViews,
		DeltaViews:      item.DeltaViews,
		EarningsUSD:     item.EarningsUSD,
		CPMRateUSD:      item.CPMRateUSD,
		HoldUntil:       item.HoldUntil.UTC(),
		Status:          string(item.Status),
		CreatedAt:       item.CreatedAt.UTC(),
		UpdatedAt:       item.UpdatedAt.UTC(),
		ApprovedAt:      normalizeOptionalTime(item.ApprovedAt),
		RejectedAt:      normalizeOptionalTime(item.RejectedAt),
		RejectionReason: strings.TrimSpace(item.RejectionReason),
		LastSyncAt:      normalizeOptionalTime(item.LastSyncAt),
	}
}

func (m submissionModel) toEntity() entities.Submission {
	return entities.Submission{
		SubmissionID:    m.SubmissionID,
		CampaignID:      m.CampaignID,
		UserID:          m.UserID,
		AccountID:       m.AccountID,
		Platform:        m.Platform,
		VideoID:         m.VideoID,
		VideoURL:        m.VideoURL,
		Title:           m.Title,
		BaseViews:       m.BaseViews,
		CurrentViews:    m.CurrentViews,
		DeltaViews:      m.DeltaViews,
		EarningsUSD:     m.EarningsUSD,
		CPMRateUSD:      m.CPMRateUSD,
		HoldUntil:       m.HoldUntil.UTC(),
		Status:          entities.SubmissionStatus(m.Status),
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
		ApprovedAt:      normalizeOptionalTime(m.ApprovedAt),
		RejectedAt:      normalizeOptionalTime(m.RejectedAt),
		RejectionReason: m.RejectionReason,
		LastSyncAt:      normalizeOptionalTime(m.LastSyncAt),
	}
}

type viewSnapshotModel struct {
	SnapshotID    string    `gorm:"column:snapshot_id;primaryKey"`
	SubmissionID  string    `gorm:"column:submission_id"`
	Views         int64     `gorm:"column:views"`
	IsAnomaly     bool      `gorm:"column:is_anomaly"`
	AnomalyReason string    `gorm:"column:anomaly_reason"`
	CapturedAt    time.Time `gorm:"column:captured_at"`
}

func (viewSnapshotModel) TableName() string {
	return "view_snapshots"
}

func viewSnapshotModelFromEntity(item entities.ViewSnapshot) viewSnapshotModel {
	row := viewSnapshotModel{
		SnapshotID:    strings.TrimSpace(item.SnapshotID),
		SubmissionID:  strings.TrimSpace(item.SubmissionID),
		Views:         item.Views,
		IsAnomaly:     item.IsAnomaly,
		AnomalyReason: strings.TrimSpace(item.AnomalyReason),
		CapturedAt:    item.CapturedAt.UTC(),
	}
	if row.CapturedAt.IsZero() {
		row.CapturedAt = time.Now().UTC()
	}
	return row
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

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "submission_outbox"
}

type campaignProjectionModel struct {
	CampaignID string     `gorm:"column:campaign_id;primaryKey"`
	Title      string     `gorm:"column:title"`
	Platform   string     `gorm:"column:platform"`
	CPMRateUSD float64    `gorm:"column:cpm_rate_usd"`
	HoldHours  int        `gorm:"column:hold_hours"`
	MinViews   int64      `gorm:"column:min_views"`
	EndsAt     *time.Time `gorm:"column:ends_at"`
	IsActive   bool       `gorm:"column:is_active"`
}

func (campaignProjectionModel) TableName() string {
	return "campaigns"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

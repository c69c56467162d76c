package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	application "cliprewards/contexts/clipping-rewards/submission-service/application"
	"cliprewards/contexts/clipping-rewards/submission-service/domain/entities"
	domainerrors "cliprewards/contexts/clipping-rewards/submission-service/domain/errors"
	"cliprewards/contexts/clipping-rewards/submission-service/ports"
)

// ReconcileJob refreshes external view counts for held submissions and
// finalizes the ones whose hold deadline has passed. Each submission is an
// independent unit of work: a fetch miss or transaction failure on one item
// leaves that item untouched for the next run and never aborts the batch.
type ReconcileJob struct {
	Repository   ports.Repository
	Credentials  ports.CredentialStore
	Views        ports.ViewSource
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Outbox       ports.OutboxWriter
	BatchSize    int
	Concurrency  int
	FetchTimeout time.Duration
	Disabled     bool
	Logger       *slog.Logger
}

func (j ReconcileJob) RunOnce(ctx context.Context) (entities.RunSummary, error) {
	logger := application.ResolveLogger(j.Logger)
	if j.Disabled {
		logger.Info("reconciliation job disabled by feature flag",
			"event", "reconcile_disabled",
			"module", "clipping-rewards/submission-service",
			"layer", "worker",
		)
		return entities.RunSummary{}, nil
	}
	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}
	limit := j.BatchSize
	if limit <= 0 {
		limit = 100
	}
	concurrency := j.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	items, err := j.Repository.ListHeldSubmissions(ctx, limit)
	if err != nil {
		logger.Error("reconciliation candidate list failed",
			"event", "reconcile_list_failed",
			"module", "clipping-rewards/submission-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return entities.RunSummary{}, fmt.Errorf("%w: %w", domainerrors.ErrReconcileListUnavailable, err)
	}

	var synced, approved, failed atomic.Int64

	// Bounded fan-out: external platform calls dominate latency and must not
	// exceed third-party rate limits.
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for _, item := range items {
		submission := item
		group.Go(func() error {
			switch j.processOne(groupCtx, submission, now, logger) {
			case outcomeSynced:
				synced.Add(1)
			case outcomeApproved:
				approved.Add(1)
				synced.Add(1)
			case outcomeError:
				failed.Add(1)
			}
			return nil
		})
	}
	_ = group.Wait()

	summary := entities.RunSummary{
		Total:    len(items),
		Synced:   int(synced.Load()),
		Approved: int(approved.Load()),
		Errors:   int(failed.Load()),
	}
	if summary.Total > 0 {
		logger.Info("reconciliation cycle completed",
			"event", "reconcile_cycle_completed",
			"module", "clipping-rewards/submission-service",
			"layer", "worker",
			"total", summary.Total,
			"synced", summary.Synced,
			"approved", summary.Approved,
			"errors", summary.Errors,
		)
	}
	return summary, nil
}

type outcome int

const (
	outcomeSynced outcome = iota
	outcomeApproved
	outcomeError
)

func (j ReconcileJob) processOne(
	ctx context.Context,
	submission entities.Submission,
	now time.Time,
	logger *slog.Logger,
) outcome {
	accessToken := ""
	if j.Views.RequiresUserCredential(submission.Platform) {
		token, err := j.Credentials.AccessToken(ctx, submission.UserID, submission.Platform)
		if err != nil {
			logger.Warn("credential resolution failed, submission left for next run",
				"event", "reconcile_credential_failed",
				"module", "clipping-rewards/submission-service",
				"layer", "worker",
				"submission_id", submission.SubmissionID,
				"platform", submission.Platform,
			)
			return outcomeError
		}
		accessToken = token
	}

	fetchCtx := ctx
	if j.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, j.FetchTimeout)
		defer cancel()
	}
	stats, ok := j.Views.FetchViews(fetchCtx, submission.Platform, submission.VideoID, accessToken)
	accessToken = ""
	if !ok {
		logger.Warn("view fetch unavailable, submission left for next run",
			"event", "reconcile_fetch_unavailable",
			"module", "clipping-rewards/submission-service",
			"layer", "worker",
			"submission_id", submission.SubmissionID,
			"platform", submission.Platform,
		)
		return outcomeError
	}

	submission.CurrentViews = stats.Views
	submission.DeltaViews = entities.DeltaViews(submission.BaseViews, stats.Views)
	submission.EarningsUSD = entities.EarningsUSD(submission.DeltaViews, submission.CPMRateUSD)
	submission.LastSyncAt = &now
	submission.UpdatedAt = now

	snapshotID, err := j.IDGen.NewID(ctx)
	if err != nil {
		return outcomeError
	}
	snapshot := entities.ViewSnapshot{
		SnapshotID:   snapshotID,
		SubmissionID: submission.SubmissionID,
		Views:        stats.Views,
		CapturedAt:   now,
	}
	if stats.Views < submission.BaseViews {
		snapshot.IsAnomaly = true
		snapshot.AnomalyReason = "views_below_baseline"
	}

	if !submission.HoldExpired(now) {
		if err := j.Repository.AddViewSnapshot(ctx, snapshot); err != nil {
			return outcomeError
		}
		if err := j.Repository.UpdateSubmissionMetrics(ctx, submission); err != nil {
			if errors.Is(err, domainerrors.ErrSubmissionNotHeld) {
				return outcomeSynced
			}
			logger.Error("metric refresh failed",
				"event", "reconcile_update_failed",
				"module", "clipping-rewards/submission-service",
				"layer", "worker",
				"submission_id", submission.SubmissionID,
				"error", err.Error(),
			)
			return outcomeError
		}
		return outcomeSynced
	}

	return j.approve(ctx, submission, snapshot, now, logger)
}

func (j ReconcileJob) approve(
	ctx context.Context,
	submission entities.Submission,
	snapshot entities.ViewSnapshot,
	now time.Time,
	logger *slog.Logger,
) outcome {
	creditID, err := j.IDGen.NewID(ctx)
	if err != nil {
		return outcomeError
	}
	payoutID, err := j.IDGen.NewID(ctx)
	if err != nil {
		return outcomeError
	}

	submission.Status = entities.SubmissionStatusApproved
	submission.ApprovedAt = &now
	description := fmt.Sprintf("clipping rewards for campaign %s", submission.CampaignID)

	input := ports.ApproveAndCreditInput{
		Submission: submission,
		Snapshot:   snapshot,
		Credit: entities.LedgerCredit{
			CreditID:     creditID,
			UserID:       submission.UserID,
			SubmissionID: submission.SubmissionID,
			CampaignID:   submission.CampaignID,
			AmountUSD:    submission.EarningsUSD,
			Description:  description,
			CreatedAt:    now,
		},
		Payout: entities.Payout{
			PayoutID:     payoutID,
			UserID:       submission.UserID,
			SubmissionID: submission.SubmissionID,
			AmountUSD:    submission.EarningsUSD,
			Description:  description,
			CreatedAt:    now,
		},
	}
	if err := j.Repository.ApproveAndCredit(ctx, input); err != nil {
		if errors.Is(err, domainerrors.ErrSubmissionNotHeld) {
			// Another run finalized it first; the status guard made this a
			// no-op with no second credit.
			return outcomeSynced
		}
		logger.Error("approval transaction failed, submission stays held",
			"event", "reconcile_approve_failed",
			"module", "clipping-rewards/submission-service",
			"layer", "worker",
			"submission_id", submission.SubmissionID,
			"error", err.Error(),
		)
		return outcomeError
	}

	if j.Outbox != nil {
		eventID, err := j.IDGen.NewID(ctx)
		if err == nil {
			envelope, envErr := application.NewSubmissionEnvelope(
				eventID,
				"submission.approved",
				submission.SubmissionID,
				now,
				map[string]any{
					"submission_id": submission.SubmissionID,
					"campaign_id":   submission.CampaignID,
					"user_id":       submission.UserID,
					"delta_views":   submission.DeltaViews,
					"earnings_usd":  submission.EarningsUSD,
					"approved_at":   now.Format(time.RFC3339),
				},
			)
			if envErr == nil {
				_ = j.Outbox.AppendOutbox(ctx, envelope)
			}
		}
	}

	logger.Info("submission approved and credited",
		"event", "submission_approved",
		"module", "clipping-rewards/submission-service",
		"layer", "worker",
		"submission_id", submission.SubmissionID,
		"user_id", submission.UserID,
		"earnings_usd", submission.EarningsUSD,
	)
	return outcomeApproved
}

package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	application "cliprewards/contexts/clipping-rewards/submission-service/application"
	"cliprewards/contexts/clipping-rewards/submission-service/ports"
)

const approvalAuditGroup = "clipping-rewards-approval-audit"

// ApprovalAuditConsumer tails submission.approved events off the bus and
// writes one audit record per credited payout. This is the money-movement
// trail finance reads; it is separate from the transactional write path and
// can lag it.
type ApprovalAuditConsumer struct {
	Events ports.EventSubscriber
	Logger *slog.Logger
}

func (c ApprovalAuditConsumer) Start(ctx context.Context) error {
	if c.Events == nil {
		return nil
	}
	return c.Events.Subscribe(ctx, "submission.approved", approvalAuditGroup, c.handle)
}

func (c ApprovalAuditConsumer) handle(_ context.Context, event ports.EventEnvelope) error {
	var record struct {
		SubmissionID string  `json:"submission_id"`
		CampaignID   string  `json:"campaign_id"`
		UserID       string  `json:"user_id"`
		DeltaViews   int64   `json:"delta_views"`
		EarningsUSD  float64 `json:"earnings_usd"`
		ApprovedAt   string  `json:"approved_at"`
	}
	if err := json.Unmarshal(event.Data, &record); err != nil {
		return fmt.Errorf("approval audit decode failed: %w", err)
	}

	application.ResolveLogger(c.Logger).Info("payout credited",
		"event", "approval_audit",
		"module", "clipping-rewards/submission-service",
		"layer", "worker",
		"event_id", event.EventID,
		"submission_id", record.SubmissionID,
		"campaign_id", record.CampaignID,
		"user_id", record.UserID,
		"delta_views", record.DeltaViews,
		"earnings_usd", record.EarningsUSD,
		"approved_at", record.ApprovedAt,
	)
	return nil
}

package ports

import (
	"context"
	"encoding/json"
	"time"

	"cliprewards/contexts/clipping-rewards/submission-service/domain/entities"
)

type SubmissionFilter struct {
	UserID     string
	CampaignID string
	Status     entities.SubmissionStatus
}

type Repository interface {
	CreateSubmission(ctx context.Context, submission entities.Submission) error
	GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error)
	ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]entities.Submission, error)
	// ListHeldSubmissions enumerates the reconciliation candidate set.
	ListHeldSubmissions(ctx context.Context, limit int) ([]entities.Submission, error)
	// UpdateSubmissionMetrics refreshes view/earnings fields while the
	// submission is still in hold. A submission that left hold concurrently
	// is left untouched.
	UpdateSubmissionMetrics(ctx context.Context, submission entities.Submission) error
	// ApproveAndCredit commits the approval in one transaction: status CAS
	// hold -> approved, wallet credit, payout history row, and the closing
	// snapshot. Returns ErrSubmissionNotHeld when the guard finds the
	// submission already finalized.
	ApproveAndCredit(ctx context.Context, input ApproveAndCreditInput) error
	RejectSubmission(ctx context.Context, submissionID string, rejectedAt time.Time, reason string) error
	AddViewSnapshot(ctx context.Context, snapshot entities.ViewSnapshot) error
	ListViewSnapshots(ctx context.Context, submissionID string) ([]entities.ViewSnapshot, error)
}

type ApproveAndCreditInput struct {
	Submission entities.Submission
	Snapshot   entities.ViewSnapshot
	Credit     entities.LedgerCredit
	Payout     entities.Payout
}

// CampaignSummary is the read-only campaign projection the engine consumes.
type CampaignSummary struct {
	CampaignID string
	Title      string
	Platform   string
	CPMRateUSD float64
	HoldHours  int
	MinViews   int64
	EndsAt     *time.Time
	IsActive   bool
}

type CampaignReader interface {
	GetCampaign(ctx context.Context, campaignID string) (CampaignSummary, error)
}

type ConnectedAccountRef struct {
	AccountID string
	Active    bool
}

// CredentialStore resolves creator platform accounts and decrypts their
// access tokens on demand. Decrypted tokens must only live for the duration
// of a fetch call and never reach logs.
type CredentialStore interface {
	ResolveAccount(ctx context.Context, userID string, platform string) (ConnectedAccountRef, error)
	AccessToken(ctx context.Context, userID string, platform string) (string, error)
}

type ViewStats struct {
	Views int64
	Title string
}

// ViewSource dispatches view fetches to the per-platform implementation.
// The ok result is false when the platform answer is unavailable for any
// ordinary reason (non-2xx, malformed payload, transport error); fetch
// failures are skippable, not exceptional.
type ViewSource interface {
	Supported(platform string) bool
	RequiresUserCredential(platform string) bool
	FetchViews(ctx context.Context, platform string, videoID string, accessToken string) (ViewStats, bool)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// EventSubscriber registers a handler for one topic. The handler runs on the
// bus's consumer goroutine until ctx is done.
type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, EventEnvelope) error) error
}

package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"cliprewards/contexts/clipping-rewards/submission-service/domain/entities"
	domainerrors "cliprewards/contexts/clipping-rewards/submission-service/domain/errors"
	"cliprewards/contexts/clipping-rewards/submission-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory adapter used by local runs and tests. It implements
// the repository, outbox and campaign reader ports with the same guard
// semantics as the postgres adapter.
type Store struct {
	mu          sync.Mutex
	submissions map[string]entities.Submission
	snapshots   map[string][]entities.ViewSnapshot
	credits     map[string]entities.LedgerCredit
	payouts     map[string]entities.Payout
	campaigns   map[string]ports.CampaignSummary
	outbox      []outboxRow
}

type outboxRow struct {
	message   ports.OutboxMessage
	published bool
}

func NewStore() *Store {
	return &Store{
		submissions: make(map[string]entities.Submission),
		snapshots:   make(map[string][]entities.ViewSnapshot),
		credits:     make(map[string]entities.LedgerCredit),
		payouts:     make(map[string]entities.Payout),
		campaigns:   make(map[string]ports.CampaignSummary),
	}
}

func (s *Store) CreateSubmission(_ context.Context, submission entities.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.submissions[submission.SubmissionID]; exists {
		return domainerrors.ErrDuplicateSubmission
	}
	for _, existing := range s.submissions {
		if existing.CampaignID == submission.CampaignID && existing.VideoID == submission.VideoID {
			return domainerrors.ErrDuplicateSubmission
		}
	}
	s.submissions[submission.SubmissionID] = submission
	return nil
}

func (s *Store) GetSubmission(_ context.Context, submissionID string) (entities.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	submission, ok := s.submissions[strings.TrimSpace(submissionID)]
	if !ok {
		return entities.Submission{}, domainerrors.ErrSubmissionNotFound
	}
	return submission, nil
}

func (s *Store) ListSubmissions(_ context.Context, filter ports.SubmissionFilter) ([]entities.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Submission, 0, len(s.submissions))
	for _, submission := range s.submissions {
		if filter.UserID != "" && submission.UserID != filter.UserID {
			continue
		}
		if filter.CampaignID != "" && submission.CampaignID != filter.CampaignID {
			continue
		}
		if filter.Status != "" && submission.Status != filter.Status {
			continue
		}
		items = append(items, submission)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ListHeldSubmissions(_ context.Context, limit int) ([]entities.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	items := make([]entities.Submission, 0)
	for _, submission := range s.submissions {
		if submission.Status == entities.SubmissionStatusHold {
			items = append(items, submission)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].HoldUntil.Before(items[j].HoldUntil)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) UpdateSubmissionMetrics(_ context.Context, submission entities.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.submissions[submission.SubmissionID]
	if !ok {
		return domainerrors.ErrSubmissionNotFound
	}
	if current.Status != entities.SubmissionStatusHold {
		return domainerrors.ErrSubmissionNotHeld
	}
	current.CurrentViews = submission.CurrentViews
	current.DeltaViews = submission.DeltaViews
	current.EarningsUSD = submission.EarningsUSD
	current.LastSyncAt = submission.LastSyncAt
	current.UpdatedAt = submission.UpdatedAt
	s.submissions[current.SubmissionID] = current
	return nil
}

func (s *Store) ApproveAndCredit(_ context.Context, input ports.ApproveAndCreditInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.submissions[input.Submission.SubmissionID]
	if !ok {
		return domainerrors.ErrSubmissionNotFound
	}
	if current.Status != entities.SubmissionStatusHold {
		return domainerrors.ErrSubmissionNotHeld
	}
	s.submissions[input.Submission.SubmissionID] = input.Submission
	s.snapshots[input.Snapshot.SubmissionID] = append(s.snapshots[input.Snapshot.SubmissionID], input.Snapshot)
	s.credits[input.Credit.CreditID] = input.Credit
	s.payouts[input.Payout.PayoutID] = input.Payout
	return nil
}

func (s *Store) RejectSubmission(_ context.Context, submissionID string, rejectedAt time.Time, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.submissions[strings.TrimSpace(submissionID)]
	if !ok {
		return domainerrors.ErrSubmissionNotFound
	}
	if current.Status != entities.SubmissionStatusHold {
		return domainerrors.ErrSubmissionNotHeld
	}
	current.Status = entities.SubmissionStatusRejected
	rejected := rejectedAt.UTC()
	current.RejectedAt = &rejected
	current.RejectionReason = strings.TrimSpace(reason)
	current.UpdatedAt = rejected
	s.submissions[current.SubmissionID] = current
	return nil
}

func (s *Store) AddViewSnapshot(_ context.Context, snapshot entities.ViewSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.SubmissionID] = append(s.snapshots[snapshot.SubmissionID], snapshot)
	return nil
}

func (s *Store) ListViewSnapshots(_ context.Context, submissionID string) ([]entities.ViewSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := append([]entities.ViewSnapshot(nil), s.snapshots[strings.TrimSpace(submissionID)]...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].CapturedAt.Before(items[j].CapturedAt)
	})
	return items, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.outbox {
		if row.message.OutboxID == envelope.EventID {
			return nil
		}
	}
	// The relay decodes the payload back into a full envelope, so the whole
	// envelope is stored, same as the postgres adapter.
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.outbox = append(s.outbox, outboxRow{
		message: ports.OutboxMessage{
			OutboxID:     envelope.EventID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			s.outbox[i].published = true
			return nil
		}
	}
	return domainerrors.ErrInvalidSubmissionInput
}

// SeedCampaign registers a campaign projection for local runs and tests.
func (s *Store) SeedCampaign(summary ports.CampaignSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[summary.CampaignID] = summary
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (ports.CampaignSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary, ok := s.campaigns[strings.TrimSpace(campaignID)]
	if !ok {
		return ports.CampaignSummary{}, domainerrors.ErrCampaignNotFound
	}
	return summary, nil
}

// Credits returns every wallet credit written so far, ordered by creation time.
func (s *Store) Credits() []entities.LedgerCredit {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.LedgerCredit, 0, len(s.credits))
	for _, credit := range s.credits {
		items = append(items, credit)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}

// Payouts returns every payout row written so far, ordered by creation time.
func (s *Store) Payouts() []entities.Payout {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Payout, 0, len(s.payouts))
	for _, payout := range s.payouts {
		items = append(items, payout)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}

// Snapshots returns the raw snapshot history of one submission.
func (s *Store) Snapshots(submissionID string) []entities.ViewSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.ViewSnapshot(nil), s.snapshots[submissionID]...)
}

// UUIDGenerator is the identifier source for in-memory wiring.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// SystemClock is the wall clock used by in-memory wiring.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

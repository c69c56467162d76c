package entities

import (
	"strings"
	"time"
)

type SubmissionStatus string

const (
	SubmissionStatusHold     SubmissionStatus = "hold"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

type Submission struct {
	SubmissionID    string
	CampaignID      string
	UserID          string
	AccountID       string // empty for platforms that need no per-user credential
	Platform        string
	VideoID         string
	VideoURL        string
	Title           string
	BaseViews       int64
	CurrentViews    int64
	DeltaViews      int64
	EarningsUSD     float64
	CPMRateUSD      float64 // campaign rate captured at intake
	HoldUntil       time.Time
	Status          SubmissionStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ApprovedAt      *time.Time
	RejectedAt      *time.Time
	RejectionReason string
	LastSyncAt      *time.Time
}

func (s Submission) ValidateCreate() bool {
	return strings.TrimSpace(s.CampaignID) != "" &&
		strings.TrimSpace(s.UserID) != "" &&
		strings.TrimSpace(s.Platform) != "" &&
		strings.TrimSpace(s.VideoID) != "" &&
		strings.TrimSpace(s.VideoURL) != ""
}

func (s Submission) HoldExpired(now time.Time) bool {
	return !now.UTC().Before(s.HoldUntil.UTC())
}

func (s Submission) Terminal() bool {
	return s.Status == SubmissionStatusApproved || s.Status == SubmissionStatusRejected
}

// ViewSnapshot is an append-only audit record of a view-count measurement.
// Rows are never updated or deleted.
type ViewSnapshot struct {
	SnapshotID    string
	SubmissionID  string
	Views         int64
	IsAnomaly     bool
	AnomalyReason string
	CapturedAt    time.Time
}

// LedgerCredit is the wallet commission record created exactly once per
// submission approval.
type LedgerCredit struct {
	CreditID     string
	UserID       string
	SubmissionID string
	CampaignID   string
	AmountUSD    float64
	Description  string
	CreatedAt    time.Time
}

// Payout mirrors the ledger credit in the payout history, paired 1:1 with it.
type Payout struct {
	PayoutID     string
	UserID       string
	SubmissionID string
	AmountUSD    float64
	Description  string
	CreatedAt    time.Time
}

// RunSummary reports one reconciliation pass.
type RunSummary struct {
	Total    int
	Synced   int
	Approved int
	Errors   int
}

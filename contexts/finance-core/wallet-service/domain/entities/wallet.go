package entities

import "time"

// Commission is a wallet credit written by the reconciliation approval
// transaction. This service only reads it.
type Commission struct {
	CreditID     string
	UserID       string
	SubmissionID string
	CampaignID   string
	AmountUSD    float64
	Description  string
	CreatedAt    time.Time
}

type Payout struct {
	PayoutID     string
	UserID       string
	SubmissionID string
	AmountUSD    float64
	Description  string
	CreatedAt    time.Time
}

type WalletTotals struct {
	CommissionCount int
	PayoutCount     int
	EarnedUSD       float64
	PaidUSD         float64
}

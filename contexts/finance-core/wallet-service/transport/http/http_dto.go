package http

type PayoutDTO struct {
	PayoutID     string  `json:"payout_id"`
	SubmissionID string  `json:"submission_id"`
	AmountUSD    float64 `json:"amount_usd"`
	Description  string  `json:"description,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type CommissionDTO struct {
	CreditID     string  `json:"credit_id"`
	SubmissionID string  `json:"submission_id"`
	CampaignID   string  `json:"campaign_id"`
	AmountUSD    float64 `json:"amount_usd"`
	Description  string  `json:"description,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type ListPayoutsResponse struct {
	Items []PayoutDTO `json:"items"`
}

type ListCommissionsResponse struct {
	Items []CommissionDTO `json:"items"`
}

type WalletTotalsResponse struct {
	CommissionCount int     `json:"commission_count"`
	PayoutCount     int     `json:"payout_count"`
	EarnedUSD       float64 `json:"earned_usd"`
	PaidUSD         float64 `json:"paid_usd"`
}

package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateSubmissionRequest struct {
	CampaignID string `json:"campaign_id"`
	VideoURL   string `json:"video_url"`
}

type RejectSubmissionRequest struct {
	Reason string `json:"reason"`
}

type SubmissionDTO struct {
	SubmissionID    string  `json:"submission_id"`
	CampaignID      string  `json:"campaign_id"`
	UserID          string  `json:"user_id"`
	Platform        string  `json:"platform"`
	VideoID         string  `json:"video_id"`
	VideoURL        string  `json:"video_url"`
	Title           string  `json:"title,omitempty"`
	BaseViews       int64   `json:"base_views"`
	CurrentViews    int64   `json:"current_views"`
	DeltaViews      int64   `json:"delta_views"`
	EarningsUSD     float64 `json:"earnings_usd"`
	CPMRateUSD      float64 `json:"cpm_rate_usd"`
	HoldUntil       string  `json:"hold_until"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
	ApprovedAt      string  `json:"approved_at,omitempty"`
	RejectedAt      string  `json:"rejected_at,omitempty"`
	RejectionReason string  `json:"rejection_reason,omitempty"`
	LastSyncAt      string  `json:"last_sync_at,omitempty"`
}

type SubmissionListItemDTO struct {
	SubmissionDTO
	CampaignTitle    string  `json:"campaign_title,omitempty"`
	CampaignPlatform string  `json:"campaign_platform,omitempty"`
	CampaignCPMRate  float64 `json:"campaign_cpm_rate,omitempty"`
}

type CreateSubmissionResponse struct {
	Submission SubmissionDTO `json:"submission"`
}

type GetSubmissionResponse struct {
	Submission SubmissionDTO `json:"submission"`
}

type ListSubmissionsResponse struct {
	Items []SubmissionListItemDTO `json:"items"`
}

type ViewSnapshotDTO struct {
	SnapshotID    string `json:"snapshot_id"`
	SubmissionID  string `json:"submission_id"`
	Views         int64  `json:"views"`
	IsAnomaly     bool   `json:"is_anomaly"`
	AnomalyReason string `json:"anomaly_reason,omitempty"`
	CapturedAt    string `json:"captured_at"`
}

type ListSnapshotsResponse struct {
	Items []ViewSnapshotDTO `json:"items"`
}

type EarningsSummaryResponse struct {
	Total       int     `json:"total"`
	Held        int     `json:"held"`
	Approved    int     `json:"approved"`
	Rejected    int     `json:"rejected"`
	EarningsUSD float64 `json:"earnings_usd"`
}

type RunReconciliationResponse struct {
	Total    int `json:"total"`
	Synced   int `json:"synced"`
	Approved int `json:"approved"`
	Errors   int `json:"errors"`
}

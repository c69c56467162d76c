package http

type CreateCampaignRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Platform    string  `json:"platform"`
	CPMRateUSD  float64 `json:"cpm_rate_usd"`
	HoldHours   int     `json:"hold_hours"`
	MinViews    int64   `json:"min_views"`
	BudgetUSD   float64 `json:"budget_usd"`
	EndsAt      string  `json:"ends_at,omitempty"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
}

type CampaignDTO struct {
	CampaignID  string  `json:"campaign_id"`
	BrandID     string  `json:"brand_id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Platform    string  `json:"platform"`
	CPMRateUSD  float64 `json:"cpm_rate_usd"`
	HoldHours   int     `json:"hold_hours"`
	MinViews    int64   `json:"min_views"`
	BudgetUSD   float64 `json:"budget_usd"`
	EndsAt      string  `json:"ends_at,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type CreateCampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
}

type GetCampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
}

type ListCampaignsResponse struct {
	Items []CampaignDTO `json:"items"`
}

package entities

import (
	"strings"
	"time"
)

type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// Campaign is a clipping-rewards campaign: one platform, a CPM rate paid on
// view growth, a hold window before approval, and a minimum baseline for
// intake.
type Campaign struct {
	CampaignID  string
	BrandID     string
	Title       string
	Description string
	Platform    string
	CPMRateUSD  float64
	HoldHours   int
	MinViews    int64
	BudgetUSD   float64
	EndsAt      *time.Time
	Status      CampaignStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c Campaign) Active() bool {
	return c.Status == CampaignStatusActive
}

func (c Campaign) ValidateCreate() bool {
	return strings.TrimSpace(c.Title) != "" &&
		strings.TrimSpace(c.Platform) != "" &&
		c.CPMRateUSD > 0 &&
		c.HoldHours > 0 &&
		c.MinViews >= 0
}

// ValidStatusTransition enumerates the allowed campaign lifecycle moves.
// Completed is terminal.
func ValidStatusTransition(from, to CampaignStatus) bool {
	switch from {
	case CampaignStatusDraft:
		return to == CampaignStatusActive
	case CampaignStatusActive:
		return to == CampaignStatusPaused || to == CampaignStatusCompleted
	case CampaignStatusPaused:
		return to == CampaignStatusActive || to == CampaignStatusCompleted
	default:
		return false
	}
}

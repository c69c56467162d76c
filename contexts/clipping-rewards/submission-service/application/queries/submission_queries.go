package queries

import (
	"context"
	"log/slog"
	"strings"

	"cliprewards/contexts/clipping-rewards/submission-service/domain/entities"
	"cliprewards/contexts/clipping-rewards/submission-service/ports"
)

type ListSubmissionsQuery struct {
	UserID     string
	CampaignID string
	Status     string
}

// SubmissionListItem pairs a submission with summary fields of its campaign
// for the caller-scoped listing.
type SubmissionListItem struct {
	Submission       entities.Submission
	CampaignTitle    string
	CampaignPlatform string
	CampaignCPMRate  float64
}

type EarningsSummary struct {
	Total       int
	Held        int
	Approved    int
	Rejected    int
	EarningsUSD float64
}

type QueryUseCase struct {
	Repository ports.Repository
	Campaigns  ports.CampaignReader
	Logger     *slog.Logger
}

func (uc QueryUseCase) GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error) {
	return uc.Repository.GetSubmission(ctx, strings.TrimSpace(submissionID))
}

func (uc QueryUseCase) ListSubmissions(ctx context.Context, query ListSubmissionsQuery) ([]SubmissionListItem, error) {
	items, err := uc.Repository.ListSubmissions(ctx, ports.SubmissionFilter{
		UserID:     strings.TrimSpace(query.UserID),
		CampaignID: strings.TrimSpace(query.CampaignID),
		Status:     entities.SubmissionStatus(strings.TrimSpace(query.Status)),
	})
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]ports.CampaignSummary, 4)
	result := make([]SubmissionListItem, 0, len(items))
	for _, item := range items {
		summary, cached := summaries[item.CampaignID]
		if !cached {
			loaded, err := uc.Campaigns.GetCampaign(ctx, item.CampaignID)
			if err == nil {
				summary = loaded
			}
			summaries[item.CampaignID] = summary
		}
		result = append(result, SubmissionListItem{
			Submission:       item,
			CampaignTitle:    summary.Title,
			CampaignPlatform: summary.Platform,
			CampaignCPMRate:  summary.CPMRateUSD,
		})
	}
	return result, nil
}

func (uc QueryUseCase) ListSnapshots(ctx context.Context, submissionID string) ([]entities.ViewSnapshot, error) {
	return uc.Repository.ListViewSnapshots(ctx, strings.TrimSpace(submissionID))
}

func (uc QueryUseCase) CreatorSummary(ctx context.Context, userID string) (EarningsSummary, error) {
	items, err := uc.Repository.ListSubmissions(ctx, ports.SubmissionFilter{UserID: strings.TrimSpace(userID)})
	if err != nil {
		return EarningsSummary{}, err
	}
	summary := EarningsSummary{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case entities.SubmissionStatusHold:
			summary.Held++
		case entities.SubmissionStatusApproved:
			summary.Approved++
			summary.EarningsUSD = entities.RoundUSD(summary.EarningsUSD + item.EarningsUSD)
		case entities.SubmissionStatusRejected:
			summary.Rejected++
		}
	}
	return summary, nil
}

package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"cliprewards/contexts/clipping-rewards/submission-service/application/commands"
	"cliprewards/contexts/clipping-rewards/submission-service/application/queries"
	"cliprewards/contexts/clipping-rewards/submission-service/application/workers"
	"cliprewards/contexts/clipping-rewards/submission-service/domain/entities"
	httptransport "cliprewards/contexts/clipping-rewards/submission-service/transport/http"
)

type Handler struct {
	CreateSubmission commands.CreateSubmissionUseCase
	RejectSubmission commands.RejectSubmissionUseCase
	Reconcile        workers.ReconcileJob
	Queries          queries.QueryUseCase
	Logger           *slog.Logger
}

func (h Handler) CreateSubmissionHandler(
	ctx context.Context,
	userID string,
	req httptransport.CreateSubmissionRequest,
) (httptransport.CreateSubmissionResponse, error) {
	item, err := h.CreateSubmission.Execute(ctx, commands.CreateSubmissionCommand{
		UserID:     userID,
		CampaignID: req.CampaignID,
		VideoURL:   req.VideoURL,
	})
	if err != nil {
		return httptransport.CreateSubmissionResponse{}, err
	}
	return httptransport.CreateSubmissionResponse{
		Submission: mapSubmission(item),
	}, nil
}

func (h Handler) GetSubmissionHandler(ctx context.Context, submissionID string) (httptransport.GetSubmissionResponse, error) {
	item, err := h.Queries.GetSubmission(ctx, submissionID)
	if err != nil {
		return httptransport.GetSubmissionResponse{}, err
	}
	return httptransport.GetSubmissionResponse{
		Submission: mapSubmission(item),
	}, nil
}

func (h Handler) ListSubmissionsHandler(
	ctx context.Context,
	userID string,
	campaignID string,
	status string,
) (httptransport.ListSubmissionsResponse, error) {
	items, err := h.Queries.ListSubmissions(ctx, queries.ListSubmissionsQuery{
		UserID:     userID,
		CampaignID: campaignID,
		Status:     status,
	})
	if err != nil {
		return httptransport.ListSubmissionsResponse{}, err
	}
	result := make([]httptransport.SubmissionListItemDTO, 0, len(items))
	for _, item := range items {
		result = append(result, httptransport.SubmissionListItemDTO{
			SubmissionDTO:    mapSubmission(item.Submission),
			CampaignTitle:    item.CampaignTitle,
			CampaignPlatform: item.CampaignPlatform,
			CampaignCPMRate:  item.CampaignCPMRate,
		})
	}
	return httptransport.ListSubmissionsResponse{Items: result}, nil
}

func (h Handler) ListSnapshotsHandler(ctx context.Context, submissionID string) (httptransport.ListSnapshotsResponse, error) {
	items, err := h.Queries.ListSnapshots(ctx, submissionID)
	if err != nil {
		return httptransport.ListSnapshotsResponse{}, err
	}
	result := make([]httptransport.ViewSnapshotDTO, 0, len(items))
	for _, item := range items {
		result = append(result, httptransport.ViewSnapshotDTO{
			SnapshotID:    item.SnapshotID,
			SubmissionID:  item.SubmissionID,
			Views:         item.Views,
			IsAnomaly:     item.IsAnomaly,
			AnomalyReason: item.AnomalyReason,
			CapturedAt:    item.CapturedAt.Format(time.RFC3339),
		})
	}
	return httptransport.ListSnapshotsResponse{Items: result}, nil
}

func (h Handler) RejectSubmissionHandler(
	ctx context.Context,
	actorID string,
	submissionID string,
	req httptransport.RejectSubmissionRequest,
) error {
	return h.RejectSubmission.Execute(ctx, commands.RejectSubmissionCommand{
		SubmissionID: submissionID,
		ActorID:      actorID,
		Reason:       req.Reason,
	})
}

// RunReconciliationHandler triggers one synchronous reconciliation cycle and
// reports its counters. The cron scheduler and the admin console both land
// here.
func (h Handler) RunReconciliationHandler(ctx context.Context) (httptransport.RunReconciliationResponse, error) {
	summary, err := h.Reconcile.RunOnce(ctx)
	if err != nil {
		return httptransport.RunReconciliationResponse{}, err
	}
	return httptransport.RunReconciliationResponse{
		Total:    summary.Total,
		Synced:   summary.Synced,
		Approved: summary.Approved,
		Errors:   summary.Errors,
	}, nil
}

func (h Handler) EarningsSummaryHandler(ctx context.Context, userID string) (httptransport.EarningsSummaryResponse, error) {
	summary, err := h.Queries.CreatorSummary(ctx, userID)
	if err != nil {
		return httptransport.EarningsSummaryResponse{}, err
	}
	return httptransport.EarningsSummaryResponse{
		Total:       summary.Total,
		Held:        summary.Held,
		Approved:    summary.Approved,
		Rejected:    summary.Rejected,
		EarningsUSD: summary.EarningsUSD,
	}, nil
}

func mapSubmission(item entities.Submission) httptransport.SubmissionDTO {
	dto := httptransport.SubmissionDTO{
		SubmissionID:    item.SubmissionID,
		CampaignID:      item.CampaignID,
		UserID:          item.UserID,
		Platform:        item.Platform,
		VideoID:         item.VideoID,
		VideoURL:        item.VideoURL,
		Title:           item.Title,
		BaseViews:       item.BaseViews,
		CurrentViews:    item.CurrentViews,
		DeltaViews:      item.DeltaViews,
		EarningsUSD:     item.EarningsUSD,
		CPMRateUSD:      item.CPMRateUSD,
		HoldUntil:       item.HoldUntil.Format(time.RFC3339),
		Status:          string(item.Status),
		CreatedAt:       item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       item.UpdatedAt.Format(time.RFC3339),
		RejectionReason: item.RejectionReason,
	}
	if item.ApprovedAt != nil {
		dto.ApprovedAt = item.ApprovedAt.Format(time.RFC3339)
	}
	if item.RejectedAt != nil {
		dto.RejectedAt = item.RejectedAt.Format(time.RFC3339)
	}
	if item.LastSyncAt != nil {
		dto.LastSyncAt = item.LastSyncAt.Format(time.RFC3339)
	}
	return dto
}

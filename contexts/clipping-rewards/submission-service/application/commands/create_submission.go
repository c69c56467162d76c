package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "cliprewards/contexts/clipping-rewards/submission-service/application"
	"cliprewards/contexts/clipping-rewards/submission-service/domain/entities"
	domainerrors "cliprewards/contexts/clipping-rewards/submission-service/domain/errors"
	"cliprewards/contexts/clipping-rewards/submission-service/ports"
)

type CreateSubmissionCommand struct {
	UserID     string
	CampaignID string
	VideoURL   string
}

type CreateSubmissionUseCase struct {
	Repository  ports.Repository
	Campaigns   ports.CampaignReader
	Credentials ports.CredentialStore
	Views       ports.ViewSource
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Outbox      ports.OutboxWriter
	Logger      *slog.Logger
}

// Execute validates the submission against its campaign, fixes the baseline
// view count through a synchronous fetch, and persists the submission in
// hold together with its initial snapshot. The baseline fetch is a required
// precondition here, unlike reconciliation where a miss is skippable.
func (uc CreateSubmissionUseCase) Execute(ctx context.Context, cmd CreateSubmissionCommand) (entities.Submission, error) {
	logger := application.ResolveLogger(uc.Logger)
	userID := strings.TrimSpace(cmd.UserID)
	campaignID := strings.TrimSpace(cmd.CampaignID)
	videoURL := strings.TrimSpace(cmd.VideoURL)
	if userID == "" || campaignID == "" || videoURL == "" {
		return entities.Submission{}, domainerrors.ErrInvalidSubmissionInput
	}

	now := uc.Clock.Now().UTC()

	campaign, err := uc.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return entities.Submission{}, err
	}
	if !campaign.IsActive {
		return entities.Submission{}, domainerrors.ErrCampaignNotActive
	}
	if campaign.EndsAt != nil && now.After(campaign.EndsAt.UTC()) {
		return entities.Submission{}, domainerrors.ErrCampaignEnded
	}
	if !uc.Views.Supported(campaign.Platform) {
		return entities.Submission{}, domainerrors.ErrUnsupportedPlatform
	}

	accountID := ""
	accessToken := ""
	if uc.Views.RequiresUserCredential(campaign.Platform) {
		account, err := uc.Credentials.ResolveAccount(ctx, userID, campaign.Platform)
		if err != nil {
			return entities.Submission{}, err
		}
		if !account.Active {
			return entities.Submission{}, domainerrors.ErrConnectedAccountInactive
		}
		accountID = account.AccountID
		accessToken, err = uc.Credentials.AccessToken(ctx, userID, campaign.Platform)
		if err != nil {
			return entities.Submission{}, err
		}
	}

	videoID, err := extractVideoID(campaign.Platform, videoURL)
	if err != nil {
		return entities.Submission{}, err
	}

	stats, ok := uc.Views.FetchViews(ctx, campaign.Platform, videoID, accessToken)
	accessToken = ""
	if !ok {
		return entities.Submission{}, domainerrors.ErrViewSourceUnavailable
	}
	if stats.Views < campaign.MinViews {
		return entities.Submission{}, domainerrors.ErrBaselineBelowMinimum
	}

	submissionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Submission{}, err
	}
	submission := entities.Submission{
		SubmissionID: submissionID,
		CampaignID:   campaignID,
		UserID:       userID,
		AccountID:    accountID,
		Platform:     campaign.Platform,
		VideoID:      videoID,
		VideoURL:     videoURL,
		Title:        stats.Title,
		BaseViews:    stats.Views,
		CurrentViews: stats.Views,
		DeltaViews:   0,
		EarningsUSD:  0,
		CPMRateUSD:   campaign.CPMRateUSD,
		HoldUntil:    now.Add(time.Duration(campaign.HoldHours) * time.Hour),
		Status:       entities.SubmissionStatusHold,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !submission.ValidateCreate() {
		return entities.Submission{}, domainerrors.ErrInvalidSubmissionInput
	}
	if err := uc.Repository.CreateSubmission(ctx, submission); err != nil {
		return entities.Submission{}, err
	}

	snapshotID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Submission{}, err
	}
	if err := uc.Repository.AddViewSnapshot(ctx, entities.ViewSnapshot{
		SnapshotID:   snapshotID,
		SubmissionID: submission.SubmissionID,
		Views:        stats.Views,
		CapturedAt:   now,
	}); err != nil {
		return entities.Submission{}, err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.Submission{}, err
		}
		envelope, err := application.NewSubmissionEnvelope(
			eventID,
			"submission.created",
			submission.SubmissionID,
			now,
			map[string]any{
				"submission_id": submission.SubmissionID,
				"campaign_id":   submission.CampaignID,
				"user_id":       submission.UserID,
				"platform":      submission.Platform,
				"base_views":    submission.BaseViews,
				"hold_until":    submission.HoldUntil.Format(time.RFC3339),
			},
		)
		if err != nil {
			return entities.Submission{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return entities.Submission{}, err
		}
	}

	logger.Info("submission created",
		"event", "submission_created",
		"module", "clipping-rewards/submission-service",
		"layer", "application",
		"submission_id", submission.SubmissionID,
		"campaign_id", submission.CampaignID,
		"user_id", submission.UserID,
		"platform", submission.Platform,
		"base_views", submission.BaseViews,
	)
	return submission, nil
}

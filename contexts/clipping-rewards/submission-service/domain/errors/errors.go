package errors

import "errors"

var (
	ErrSubmissionNotFound       = errors.New("submission not found")
	ErrInvalidSubmissionInput   = errors.New("invalid submission input")
	ErrInvalidSubmissionURL     = errors.New("invalid submission url")
	ErrUnsupportedPlatform      = errors.New("unsupported platform")
	ErrDuplicateSubmission      = errors.New("video already submitted to this campaign")
	ErrCampaignNotFound         = errors.New("campaign not found")
	ErrCampaignNotActive        = errors.New("campaign is not active")
	ErrCampaignEnded            = errors.New("campaign has ended")
	ErrConnectedAccountMissing  = errors.New("no connected account for campaign platform")
	ErrConnectedAccountInactive = errors.New("connected account is not active")
	ErrBaselineBelowMinimum     = errors.New("baseline views below campaign minimum")
	ErrViewSourceUnavailable    = errors.New("platform view source unavailable")
	ErrSubmissionNotHeld        = errors.New("submission is not in hold")
	ErrReconcileListUnavailable = errors.New("could not load submissions for reconciliation")
)

package errors

import "errors"

var (
	ErrCampaignNotFound        = errors.New("campaign not found")
	ErrInvalidCampaignInput    = errors.New("invalid campaign input")
	ErrInvalidStatusTransition = errors.New("invalid campaign status transition")
	ErrUnsupportedPlatform     = errors.New("unsupported campaign platform")
)

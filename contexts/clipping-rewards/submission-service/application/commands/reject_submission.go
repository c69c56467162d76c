package commands

import (
	"context"
	"log/slog"
	"strings"

	application "cliprewards/contexts/clipping-rewards/submission-service/application"
	domainerrors "cliprewards/contexts/clipping-rewards/submission-service/domain/errors"
	"cliprewards/contexts/clipping-rewards/submission-service/ports"
)

type RejectSubmissionCommand struct {
	SubmissionID string
	ActorID      string
	Reason       string
}

// RejectSubmissionUseCase is the manual admin action. Rejection is terminal;
// a rejected submission never re-enters the reconciliation candidate set.
type RejectSubmissionUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Outbox     ports.OutboxWriter
	Logger     *slog.Logger
}

func (uc RejectSubmissionUseCase) Execute(ctx context.Context, cmd RejectSubmissionCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	submissionID := strings.TrimSpace(cmd.SubmissionID)
	if submissionID == "" {
		return domainerrors.ErrInvalidSubmissionInput
	}

	now := uc.Clock.Now().UTC()
	if err := uc.Repository.RejectSubmission(ctx, submissionID, now, strings.TrimSpace(cmd.Reason)); err != nil {
		return err
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		envelope, err := application.NewSubmissionEnvelope(
			eventID,
			"submission.rejected",
			submissionID,
			now,
			map[string]any{
				"submission_id": submissionID,
				"actor_id":      strings.TrimSpace(cmd.ActorID),
				"reason":        strings.TrimSpace(cmd.Reason),
			},
		)
		if err != nil {
			return err
		}
		if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return err
		}
	}

	logger.Info("submission rejected",
		"event", "submission_rejected",
		"module", "clipping-rewards/submission-service",
		"layer", "application",
		"submission_id", submissionID,
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	return nil
}

package application

import (
	"encoding/json"
	"time"

	"cliprewards/contexts/clipping-rewards/submission-service/ports"
)

// NewSubmissionEnvelope builds the canonical event envelope for submission
// lifecycle events, partitioned by submission so one submission's events stay
// ordered.
func NewSubmissionEnvelope(
	eventID string,
	eventType string,
	submissionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "submission-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "submission_id",
		PartitionKey:     submissionID,
		Data:             payload,
	}, nil
}

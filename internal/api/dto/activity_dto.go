package dto

import (
	"time"

	"github.com/spec-kit/case-service/internal/domain"
)

// ActivityLogResponse represents one journal entry.
type ActivityLogResponse struct {
	ID          string                   `json:"id"`
	EventType   domain.ActivityEventType `json:"event_type"`
	EntityType  domain.EntityType        `json:"entity_type"`
	EntityID    string                   `json:"entity_id"`
	ActorUserID string                   `json:"actor_user_id"`
	Metadata    map[string]any           `json:"metadata,omitempty"`
	Timestamp   time.Time                `json:"timestamp"`
}

// NewActivityLogResponses maps journal entries.
func NewActivityLogResponses(entries []domain.ActivityLog) []ActivityLogResponse {
	result := make([]ActivityLogResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, ActivityLogResponse{
			ID:          entry.ID,
			EventType:   entry.EventType,
			EntityType:  entry.EntityType,
			EntityID:    entry.EntityID,
			ActorUserID: entry.ActorUserID,
			Metadata:    entry.Metadata,
			Timestamp:   entry.Timestamp,
		})
	}
	return result
}

package events

import (
	"time"

	"github.com/spec-kit/case-service/internal/domain"
)

// Event represents a journaled occurrence emitted by services. Metadata holds
// the kind-specific payload recorded alongside the entry.
type Event struct {
	ID          string                   `json:"id"`
	Type        domain.ActivityEventType `json:"type"`
	EntityType  domain.EntityType        `json:"entity_type"`
	EntityID    string                   `json:"entity_id"`
	ActorUserID string                   `json:"actor_user_id"`
	Timestamp   time.Time                `json:"timestamp"`
	Metadata    map[string]any           `json:"metadata,omitempty"`
}

// AllEventTypes lists every journaled event kind, used when subscribing a
// sink to the full stream.
func AllEventTypes() []domain.ActivityEventType {
	return []domain.ActivityEventType{
		domain.EventUserRegistered,
		domain.EventUserLoggedIn,
		domain.EventCaseCreated,
		domain.EventCaseStatusUpdated,
		domain.EventCaseAssigned,
	}
}

package domain

import "time"

// ActivityEventType enumerates journaled event kinds.
type ActivityEventType string

const (
	EventUserRegistered    ActivityEventType = "user_registered"
	EventUserLoggedIn      ActivityEventType = "user_logged_in"
	EventCaseCreated       ActivityEventType = "case_created"
	EventCaseStatusUpdated ActivityEventType = "case_status_updated"
	EventCaseAssigned      ActivityEventType = "case_assigned"
)

// EntityType names the entity a journal entry refers to.
type EntityType string

const (
	EntityUser       EntityType = "USER"
	EntityCase       EntityType = "CASE"
	EntityAssignment EntityType = "ASSIGNMENT"
)

// ActivityLog is an append-only journal entry. Entries are never mutated or
// deleted and are not read by any business logic.
type ActivityLog struct {
	ID          string            `bson:"_id,omitempty"`
	EventType   ActivityEventType `bson:"event_type"`
	EntityType  EntityType        `bson:"entity_type"`
	EntityID    string            `bson:"entity_id"`
	ActorUserID string            `bson:"actor_user_id"`
	Metadata    map[string]any    `bson:"metadata,omitempty"`
	Timestamp   time.Time         `bson:"timestamp"`
}

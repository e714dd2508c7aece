package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/events"
	"github.com/spec-kit/case-service/internal/repository"
)

// mockActivityRepo is an in-memory journal keeping insertion order.
type mockActivityRepo struct {
	entries   []domain.ActivityLog
	insertErr error

	lastListLimit  int
	lastActorLimit int
	entityCalls    int
}

func (m *mockActivityRepo) Insert(ctx context.Context, entry *domain.ActivityLog) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockActivityRepo) List(ctx context.Context, filter repository.ActivityLogFilter, limit int) ([]domain.ActivityLog, error) {
	m.lastListLimit = limit
	var result []domain.ActivityLog
	for i := len(m.entries) - 1; i >= 0; i-- {
		entry := m.entries[i]
		if filter.EventType != nil && entry.EventType != *filter.EventType {
			continue
		}
		if filter.EntityType != nil && entry.EntityType != *filter.EntityType {
			continue
		}
		if filter.ActorUserID != nil && entry.ActorUserID != *filter.ActorUserID {
			continue
		}
		result = append(result, entry)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func (m *mockActivityRepo) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.ActivityLog, error) {
	m.entityCalls++
	var result []domain.ActivityLog
	for i := len(m.entries) - 1; i >= 0; i-- {
		entry := m.entries[i]
		if entry.EntityType == entityType && entry.EntityID == entityID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (m *mockActivityRepo) ListByActor(ctx context.Context, actorUserID string, limit int) ([]domain.ActivityLog, error) {
	m.lastActorLimit = limit
	actor := actorUserID
	return m.List(ctx, repository.ActivityLogFilter{ActorUserID: &actor}, limit)
}

func newActivityFixture() (*ActivityService, *mockActivityRepo) {
	repo := &mockActivityRepo{}
	return NewActivityService(repo, zap.NewNop()), repo
}

func sampleEvent(eventType domain.ActivityEventType) events.Event {
	return events.Event{
		ID:          "event-1",
		Type:        eventType,
		EntityType:  domain.EntityCase,
		EntityID:    "case-1",
		ActorUserID: "user-1",
		Timestamp:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Metadata:    map[string]any{"title": "Example"},
	}
}

func TestHandleEventRecordsEntry(t *testing.T) {
	svc, repo := newActivityFixture()

	err := svc.HandleEvent(context.Background(), sampleEvent(domain.EventCaseCreated))
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)

	entry := repo.entries[0]
	assert.Equal(t, domain.EventCaseCreated, entry.EventType)
	assert.Equal(t, domain.EntityCase, entry.EntityType)
	assert.Equal(t, "case-1", entry.EntityID)
	assert.Equal(t, "user-1", entry.ActorUserID)
	assert.Equal(t, "Example", entry.Metadata["title"])
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), entry.Timestamp)
}

func TestHandleEventFailureDoesNotAffectPublisher(t *testing.T) {
	repo := &mockActivityRepo{insertErr: errors.New("mongo down")}
	svc := NewActivityService(repo, zap.NewNop())

	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(domain.EventCaseCreated, svc.HandleEvent)

	// Publish swallows handler errors, so the producing mutation never fails.
	err := dispatcher.Publish(context.Background(), sampleEvent(domain.EventCaseCreated))
	assert.NoError(t, err)
	assert.Empty(t, repo.entries)
}

func TestListAppliesCaps(t *testing.T) {
	svc, repo := newActivityFixture()

	_, err := svc.List(context.Background(), repository.ActivityLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastListLimit)

	_, err = svc.ListByActor(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastActorLimit)

	_, err = svc.ListByEntity(context.Background(), domain.EntityCase, "case-1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.entityCalls)
}

func TestListNewestFirstWithFilters(t *testing.T) {
	svc, _ := newActivityFixture()

	first := sampleEvent(domain.EventCaseCreated)
	second := sampleEvent(domain.EventCaseStatusUpdated)
	second.Timestamp = first.Timestamp.Add(time.Minute)
	other := sampleEvent(domain.EventUserLoggedIn)
	other.EntityType = domain.EntityUser
	other.EntityID = "user-2"
	other.ActorUserID = "user-2"

	for _, event := range []events.Event{first, second, other} {
		require.NoError(t, svc.HandleEvent(context.Background(), event))
	}

	history, err := svc.ListByEntity(context.Background(), domain.EntityCase, "case-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.EventCaseStatusUpdated, history[0].EventType)
	assert.Equal(t, domain.EventCaseCreated, history[1].EventType)

	byActor, err := svc.ListByActor(context.Background(), "user-2")
	require.NoError(t, err)
	require.Len(t, byActor, 1)
	assert.Equal(t, domain.EventUserLoggedIn, byActor[0].EventType)

	eventType := domain.EventCaseCreated
	filtered, err := svc.List(context.Background(), repository.ActivityLogFilter{EventType: &eventType})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "case-1", filtered[0].EntityID)
}

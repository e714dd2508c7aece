package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/events"
	"github.com/spec-kit/case-service/internal/repository"
	apperrors "github.com/spec-kit/case-service/pkg/util"
)

// Journal query caps. Entity history is intentionally uncapped.
const (
	activityListLimit  = 100
	activityActorLimit = 50
)

// ActivityService is the append-only journal sink and its audit read side.
// Writes are best-effort: a failed journal write is logged and never fails
// or rolls back the mutation that produced it.
type ActivityService struct {
	logs   repository.ActivityLogRepository
	logger *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(logs repository.ActivityLogRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{logs: logs, logger: logger}
}

// HandleEvent records a published event as a journal entry.
func (s *ActivityService) HandleEvent(ctx context.Context, event events.Event) error {
	entry := &domain.ActivityLog{
		EventType:   event.Type,
		EntityType:  event.EntityType,
		EntityID:    event.EntityID,
		ActorUserID: event.ActorUserID,
		Metadata:    event.Metadata,
		Timestamp:   event.Timestamp,
	}
	if err := s.logs.Insert(ctx, entry); err != nil {
		s.logger.Warn("journal write failed",
			zap.String("event_type", string(event.Type)),
			zap.String("entity_id", event.EntityID),
			zap.Error(err))
		return err
	}
	return nil
}

// List returns recent entries matching the filter, newest first.
func (s *ActivityService) List(ctx context.Context, filter repository.ActivityLogFilter) ([]domain.ActivityLog, error) {
	entries, err := s.logs.List(ctx, filter, activityListLimit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// ListByEntity returns the full journal history of one entity, newest first.
func (s *ActivityService) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.ActivityLog, error) {
	entries, err := s.logs.ListByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// ListByActor returns recent entries produced by one actor, newest first.
func (s *ActivityService) ListByActor(ctx context.Context, actorUserID string) ([]domain.ActivityLog, error) {
	entries, err := s.logs.ListByActor(ctx, actorUserID, activityActorLimit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

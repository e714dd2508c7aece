package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/persistence"
)

// ActivityLogFilter narrows journal queries.
type ActivityLogFilter struct {
	EventType   *domain.ActivityEventType
	EntityType  *domain.EntityType
	ActorUserID *string
}

// ActivityLogRepository is the append-only document store sink for journal
// entries. Entries are inserted, never updated or deleted.
type ActivityLogRepository interface {
	Insert(ctx context.Context, entry *domain.ActivityLog) error
	List(ctx context.Context, filter ActivityLogFilter, limit int) ([]domain.ActivityLog, error)
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.ActivityLog, error)
	ListByActor(ctx context.Context, actorUserID string, limit int) ([]domain.ActivityLog, error)
}

type activityLogRepository struct {
	col *mongo.Collection
}

// NewActivityLogRepository returns a Mongo-backed implementation.
func NewActivityLogRepository(store *persistence.Mongo) ActivityLogRepository {
	return &activityLogRepository{col: store.Collection(persistence.CollectionActivityLogs)}
}

func (r *activityLogRepository) Insert(ctx context.Context, entry *domain.ActivityLog) error {
	_, err := r.col.InsertOne(ctx, entry)
	return err
}

func (r *activityLogRepository) List(ctx context.Context, filter ActivityLogFilter, limit int) ([]domain.ActivityLog, error) {
	query := bson.D{}
	if filter.EventType != nil {
		query = append(query, bson.E{Key: "event_type", Value: *filter.EventType})
	}
	if filter.EntityType != nil {
		query = append(query, bson.E{Key: "entity_type", Value: *filter.EntityType})
	}
	if filter.ActorUserID != nil {
		query = append(query, bson.E{Key: "actor_user_id", Value: *filter.ActorUserID})
	}
	return r.find(ctx, query, limit)
}

func (r *activityLogRepository) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.ActivityLog, error) {
	query := bson.D{
		{Key: "entity_type", Value: entityType},
		{Key: "entity_id", Value: entityID},
	}
	return r.find(ctx, query, 0)
}

func (r *activityLogRepository) ListByActor(ctx context.Context, actorUserID string, limit int) ([]domain.ActivityLog, error) {
	query := bson.D{{Key: "actor_user_id", Value: actorUserID}}
	return r.find(ctx, query, limit)
}

func (r *activityLogRepository) find(ctx context.Context, query bson.D, limit int) ([]domain.ActivityLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []domain.ActivityLog{}
	for cursor.Next(ctx) {
		var entry domain.ActivityLog
		if err := cursor.Decode(&entry); err != nil {
			return nil, err
		}
		results = append(results, entry)
	}
	return results, cursor.Err()
}

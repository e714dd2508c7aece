package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/case-service/internal/domain"
)

// AssignmentRepository encapsulates assignment persistence. The unique
// constraint on case_id is the storage-level guard for the one-assignment-
// per-case invariant; concurrent second writers fail with a unique violation.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) error
	GetByCase(ctx context.Context, caseID string) (*domain.Assignment, error)
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository instantiates repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	const query = `
        INSERT INTO assignments (case_id, user_id)
        VALUES ($1, $2)
        RETURNING id, assigned_at`
	return r.pool.QueryRow(ctx, query,
		assignment.CaseID,
		assignment.UserID,
	).Scan(&assignment.ID, &assignment.AssignedAt)
}

func (r *assignmentRepository) GetByCase(ctx context.Context, caseID string) (*domain.Assignment, error) {
	const query = `
        SELECT id, case_id, user_id, assigned_at
        FROM assignments WHERE case_id=$1`

	var assignment domain.Assignment
	if err := r.pool.QueryRow(ctx, query, caseID).Scan(
		&assignment.ID,
		&assignment.CaseID,
		&assignment.UserID,
		&assignment.AssignedAt,
	); err != nil {
		return nil, err
	}
	return &assignment, nil
}

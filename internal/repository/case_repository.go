package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/case-service/internal/domain"
)

// CaseFilter captures listing parameters. AssigneeID scopes results to cases
// whose assignment names that user.
type CaseFilter struct {
	AssigneeID *string
	Statuses   []domain.CaseStatus
	Limit      int
	Offset     int
}

// CaseRepository encapsulates case persistence.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id string) (*domain.Case, error)
	UpdateStatus(ctx context.Context, id string, status domain.CaseStatus) error
	ListWithFilter(ctx context.Context, filter CaseFilter) ([]domain.Case, error)
	CountWithFilter(ctx context.Context, filter CaseFilter) (int, error)
}

type caseRepository struct {
	pool *pgxpool.Pool
}

// NewCaseRepository instantiates repository.
func NewCaseRepository(pool *pgxpool.Pool) CaseRepository {
	return &caseRepository{pool: pool}
}

func (r *caseRepository) Create(ctx context.Context, c *domain.Case) error {
	const query = `
        INSERT INTO cases (title, description, status, created_by)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		c.Title,
		c.Description,
		c.Status,
		c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

const caseSelect = `
        SELECT c.id, c.title, c.description, c.status, c.created_by, c.created_at, c.updated_at,
               a.id, a.case_id, a.user_id, a.assigned_at
        FROM cases c
        LEFT JOIN assignments a ON a.case_id = c.id`

func (r *caseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	query := caseSelect + ` WHERE c.id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	c, err := scanCase(row)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *caseRepository) UpdateStatus(ctx context.Context, id string, status domain.CaseStatus) error {
	const query = `UPDATE cases SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *caseRepository) ListWithFilter(ctx context.Context, filter CaseFilter) ([]domain.Case, error) {
	clauses, args := filterClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY c.created_at DESC LIMIT %d OFFSET %d`,
		caseSelect, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCases(rows)
}

func (r *caseRepository) CountWithFilter(ctx context.Context, filter CaseFilter) (int, error) {
	clauses, args := filterClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM cases c
        LEFT JOIN assignments a ON a.case_id = c.id
        WHERE %s`, strings.Join(clauses, " AND "))

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func filterClauses(filter CaseFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("a.user_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("c.status IN (%s)", strings.Join(placeholders, ",")))
	}
	return clauses, args
}

func scanCase(row pgx.Row) (*domain.Case, error) {
	var c domain.Case
	var assignmentID, assignmentCase, assignmentUser sql.NullString
	var assignedAt sql.NullTime
	if err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.Status,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
		&assignmentID,
		&assignmentCase,
		&assignmentUser,
		&assignedAt,
	); err != nil {
		return nil, err
	}
	if assignmentID.Valid {
		c.Assignment = &domain.Assignment{
			ID:         assignmentID.String,
			CaseID:     assignmentCase.String,
			UserID:     assignmentUser.String,
			AssignedAt: assignedAt.Time,
		}
	}
	return &c, nil
}

func scanCases(rows pgx.Rows) ([]domain.Case, error) {
	var result []domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

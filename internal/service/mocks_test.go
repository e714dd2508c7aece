package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/events"
	"github.com/spec-kit/case-service/internal/repository"
)

// mockRepository backs UserRepository, CaseRepository and AssignmentRepository
// with maps, mimicking the relational store including its unique constraints.
type mockRepository struct {
	users        map[string]*domain.User
	usersByEmail map[string]*domain.User
	cases        map[string]*domain.Case
	caseOrder    []string
	assignments  map[string]*domain.Assignment
	nextID       int
	now          time.Time

	createCaseErr error
	getCaseErr    error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:        make(map[string]*domain.User),
		usersByEmail: make(map[string]*domain.User),
		cases:        make(map[string]*domain.Case),
		assignments:  make(map[string]*domain.Assignment),
		nextID:       1,
		now:          time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *mockRepository) genID(prefix string) string {
	id := fmt.Sprintf("%s-%d", prefix, m.nextID)
	m.nextID++
	return id
}

func (m *mockRepository) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

// --- UserRepository ---

func (m *mockRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.usersByEmail[user.Email]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	}
	user.ID = m.genID("user")
	user.CreatedAt = m.tick()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	m.users[user.ID] = &clone
	m.usersByEmail[user.Email] = &clone
	return nil
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (m *mockRepository) List(ctx context.Context, role *domain.UserRole) ([]domain.User, error) {
	var result []domain.User
	for _, user := range m.users {
		if role != nil && user.Role != *role {
			continue
		}
		result = append(result, *user)
	}
	return result, nil
}

// --- CaseRepository ---

func (m *mockRepository) CreateCase(ctx context.Context, c *domain.Case) error {
	if m.createCaseErr != nil {
		return m.createCaseErr
	}
	c.ID = m.genID("case")
	c.CreatedAt = m.tick()
	c.UpdatedAt = c.CreatedAt
	clone := *c
	m.cases[c.ID] = &clone
	m.caseOrder = append(m.caseOrder, c.ID)
	return nil
}

func (m *mockRepository) GetCaseByID(ctx context.Context, id string) (*domain.Case, error) {
	if m.getCaseErr != nil {
		return nil, m.getCaseErr
	}
	c, ok := m.cases[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *c
	if assignment, exists := m.assignments[id]; exists {
		a := *assignment
		clone.Assignment = &a
	}
	return &clone, nil
}

func (m *mockRepository) UpdateCaseStatus(ctx context.Context, id string, status domain.CaseStatus) error {
	c, ok := m.cases[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.Status = status
	c.UpdatedAt = m.tick()
	return nil
}

func (m *mockRepository) ListCasesWithFilter(ctx context.Context, filter repository.CaseFilter) ([]domain.Case, error) {
	matched := m.matchCases(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (m *mockRepository) CountCasesWithFilter(ctx context.Context, filter repository.CaseFilter) (int, error) {
	return len(m.matchCases(filter)), nil
}

func (m *mockRepository) matchCases(filter repository.CaseFilter) []domain.Case {
	var result []domain.Case
	// Newest first.
	for i := len(m.caseOrder) - 1; i >= 0; i-- {
		c := m.cases[m.caseOrder[i]]
		clone := *c
		if assignment, exists := m.assignments[c.ID]; exists {
			a := *assignment
			clone.Assignment = &a
		}
		if filter.AssigneeID != nil {
			if clone.Assignment == nil || clone.Assignment.UserID != *filter.AssigneeID {
				continue
			}
		}
		result = append(result, clone)
	}
	return result
}

// --- AssignmentRepository ---

func (m *mockRepository) CreateAssignment(ctx context.Context, assignment *domain.Assignment) error {
	if _, exists := m.assignments[assignment.CaseID]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "assignments_case_id_key"}
	}
	assignment.ID = m.genID("assignment")
	assignment.AssignedAt = m.tick()
	clone := *assignment
	m.assignments[assignment.CaseID] = &clone
	return nil
}

func (m *mockRepository) GetAssignmentByCase(ctx context.Context, caseID string) (*domain.Assignment, error) {
	assignment, ok := m.assignments[caseID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *assignment
	return &clone, nil
}

// Interface adapters: the mock carries every method with distinct names so a
// single struct can satisfy all three repository interfaces.

type mockUserRepo struct{ *mockRepository }

type mockCaseRepo struct{ *mockRepository }

func (m mockCaseRepo) Create(ctx context.Context, c *domain.Case) error {
	return m.CreateCase(ctx, c)
}

func (m mockCaseRepo) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	return m.GetCaseByID(ctx, id)
}

func (m mockCaseRepo) UpdateStatus(ctx context.Context, id string, status domain.CaseStatus) error {
	return m.UpdateCaseStatus(ctx, id, status)
}

func (m mockCaseRepo) ListWithFilter(ctx context.Context, filter repository.CaseFilter) ([]domain.Case, error) {
	return m.ListCasesWithFilter(ctx, filter)
}

func (m mockCaseRepo) CountWithFilter(ctx context.Context, filter repository.CaseFilter) (int, error) {
	return m.CountCasesWithFilter(ctx, filter)
}

type mockAssignmentRepo struct{ *mockRepository }

func (m mockAssignmentRepo) Create(ctx context.Context, assignment *domain.Assignment) error {
	return m.CreateAssignment(ctx, assignment)
}

func (m mockAssignmentRepo) GetByCase(ctx context.Context, caseID string) (*domain.Assignment, error) {
	return m.GetAssignmentByCase(ctx, caseID)
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType domain.ActivityEventType, handler events.EventHandler) {
}

func (d *recordingDispatcher) byType(eventType domain.ActivityEventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}

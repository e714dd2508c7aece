package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/events"
	"github.com/spec-kit/case-service/internal/repository"
	apperrors "github.com/spec-kit/case-service/pkg/util"
)

const (
	minTitleLength       = 3
	minDescriptionLength = 10

	defaultPage     = 1
	defaultPageSize = 10
)

// CaseService enforces who may create, view, transition and assign cases.
type CaseService struct {
	cases       repository.CaseRepository
	assignments repository.AssignmentRepository
	users       repository.UserRepository
	dispatcher  events.Dispatcher
}

// CaseDependencies bundles repositories for the case service.
type CaseDependencies struct {
	CaseRepo       repository.CaseRepository
	AssignmentRepo repository.AssignmentRepository
	UserRepo       repository.UserRepository
	Dispatcher     events.Dispatcher
}

// CaseCreateInput describes case creation payload.
type CaseCreateInput struct {
	Title       string
	Description string
}

// PageMeta carries offset-pagination bookkeeping.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// CasePage is one page of listed cases.
type CasePage struct {
	Data []domain.Case
	Meta PageMeta
}

// NewCaseService constructs the service.
func NewCaseService(deps CaseDependencies) *CaseService {
	return &CaseService{
		cases:       deps.CaseRepo,
		assignments: deps.AssignmentRepo,
		users:       deps.UserRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// CreateCase creates a case in the OPEN state. Admin-only.
func (s *CaseService) CreateCase(ctx context.Context, callerID string, callerRole domain.UserRole, input CaseCreateInput) (*domain.Case, error) {
	if err := requireAdmin(callerRole); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if len(title) < minTitleLength {
		return nil, apperrors.NewValidationError("title must be at least 3 characters", map[string]any{"field": "title"})
	}
	if len(description) < minDescriptionLength {
		return nil, apperrors.NewValidationError("description must be at least 10 characters", map[string]any{"field": "description"})
	}

	c := &domain.Case{
		Title:       title,
		Description: description,
		Status:      domain.CaseStatusOpen,
		CreatedBy:   callerID,
	}
	if err := s.cases.Create(ctx, c); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        domain.EventCaseCreated,
		EntityType:  domain.EntityCase,
		EntityID:    c.ID,
		ActorUserID: callerID,
		Metadata: map[string]any{
			"title":  c.Title,
			"status": c.Status,
		},
	})
	return c, nil
}

// ListCases returns cases visible to the caller, newest first. Administrators
// see every case; other callers only cases assigned to them.
func (s *CaseService) ListCases(ctx context.Context, callerID string, callerRole domain.UserRole, page, pageSize int) (*CasePage, error) {
	if page <= 0 {
		page = defaultPage
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	filter := repository.CaseFilter{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	if callerRole != domain.RoleAdmin {
		filter.AssigneeID = &callerID
	}

	cases, err := s.cases.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	total, err := s.cases.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	totalPages := (total + pageSize - 1) / pageSize
	if cases == nil {
		cases = []domain.Case{}
	}
	return &CasePage{
		Data: cases,
		Meta: PageMeta{
			Total:      total,
			Page:       page,
			Limit:      pageSize,
			TotalPages: totalPages,
		},
	}, nil
}

// GetCase fetches one case, enforcing visibility: a non-admin caller must be
// the assignee of the case's assignment.
func (s *CaseService) GetCase(ctx context.Context, id, callerID string, callerRole domain.UserRole) (*domain.Case, error) {
	c, err := s.cases.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("case", map[string]any{"case_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if callerRole != domain.RoleAdmin {
		if c.Assignment == nil || c.Assignment.UserID != callerID {
			return nil, apperrors.NewForbidden("you do not have access to this case")
		}
	}
	return c, nil
}

// UpdateStatus overwrites the case status. Visibility rules match GetCase;
// any recognized status may replace any other.
func (s *CaseService) UpdateStatus(ctx context.Context, id string, newStatus domain.CaseStatus, callerID string, callerRole domain.UserRole) (*domain.Case, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("status must be OPEN, IN_PROGRESS or COMPLETED", map[string]any{"field": "status"})
	}

	c, err := s.GetCase(ctx, id, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	oldStatus := c.Status
	if err := s.cases.UpdateStatus(ctx, c.ID, newStatus); err != nil {
		return nil, apperrors.MapError(err)
	}
	c.Status = newStatus

	s.publishEvent(ctx, events.Event{
		Type:        domain.EventCaseStatusUpdated,
		EntityType:  domain.EntityCase,
		EntityID:    c.ID,
		ActorUserID: callerID,
		Metadata: map[string]any{
			"old_status": oldStatus,
			"new_status": newStatus,
		},
	})
	return c, nil
}

// AssignCase binds a case to an assignee. Admin-only; a case may be assigned
// at most once and reassignment is not supported. The assignee must exist,
// but its role is not inspected.
func (s *CaseService) AssignCase(ctx context.Context, caseID, assigneeUserID, adminID string, callerRole domain.UserRole) (*domain.Assignment, error) {
	if err := requireAdmin(callerRole); err != nil {
		return nil, err
	}

	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("case", map[string]any{"case_id": caseID})
		}
		return nil, apperrors.MapError(err)
	}
	if c.Assignment != nil {
		return nil, apperrors.NewConflict("case is already assigned", map[string]any{"case_id": caseID})
	}

	if _, err := s.users.GetByID(ctx, assigneeUserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": assigneeUserID})
		}
		return nil, apperrors.MapError(err)
	}

	assignment := &domain.Assignment{
		CaseID: caseID,
		UserID: assigneeUserID,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		// Concurrent assignment attempts lose against the unique constraint
		// on case_id.
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("case is already assigned", map[string]any{"case_id": caseID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        domain.EventCaseAssigned,
		EntityType:  domain.EntityAssignment,
		EntityID:    assignment.ID,
		ActorUserID: adminID,
		Metadata: map[string]any{
			"case_id":          caseID,
			"assigned_user_id": assigneeUserID,
		},
	})
	return assignment, nil
}

func requireAdmin(role domain.UserRole) error {
	if role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

func (s *CaseService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

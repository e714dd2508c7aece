package dto

import (
	"time"

	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/service"
)

// CreateCaseRequest payload.
type CreateCaseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateCaseStatusRequest payload.
type UpdateCaseStatusRequest struct {
	Status domain.CaseStatus `json:"status"`
}

// AssignCaseRequest payload.
type AssignCaseRequest struct {
	UserID string `json:"user_id"`
}

// AssignmentResponse represents a case binding.
type AssignmentResponse struct {
	ID         string    `json:"id"`
	CaseID     string    `json:"case_id"`
	UserID     string    `json:"user_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

// CaseResponse provides full case info.
type CaseResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.CaseStatus   `json:"status"`
	CreatedBy   string              `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Assignment  *AssignmentResponse `json:"assignment,omitempty"`
}

// CaseListResponse is one page of cases plus pagination bookkeeping.
type CaseListResponse struct {
	Data []CaseResponse   `json:"data"`
	Meta service.PageMeta `json:"meta"`
}

// NewCaseResponse maps a domain case.
func NewCaseResponse(c *domain.Case) CaseResponse {
	resp := CaseResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.Assignment != nil {
		resp.Assignment = &AssignmentResponse{
			ID:         c.Assignment.ID,
			CaseID:     c.Assignment.CaseID,
			UserID:     c.Assignment.UserID,
			AssignedAt: c.Assignment.AssignedAt,
		}
	}
	return resp
}

// NewCaseListResponse maps a service page.
func NewCaseListResponse(page *service.CasePage) CaseListResponse {
	data := make([]CaseResponse, 0, len(page.Data))
	for i := range page.Data {
		data = append(data, NewCaseResponse(&page.Data[i]))
	}
	return CaseListResponse{Data: data, Meta: page.Meta}
}

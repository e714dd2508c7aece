package domain

import "time"

// CaseStatus enumerates lifecycle states for cases.
type CaseStatus string

const (
	CaseStatusOpen       CaseStatus = "OPEN"
	CaseStatusInProgress CaseStatus = "IN_PROGRESS"
	CaseStatusCompleted  CaseStatus = "COMPLETED"
)

// Valid reports whether the status is a recognized value. Any recognized
// status may follow any other; there is no forward-only ordering.
func (s CaseStatus) Valid() bool {
	switch s {
	case CaseStatusOpen, CaseStatusInProgress, CaseStatusCompleted:
		return true
	}
	return false
}

// Case is the aggregate for tracked units of work.
type Case struct {
	ID          string
	Title       string
	Description string
	Status      CaseStatus
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Assignment  *Assignment
}

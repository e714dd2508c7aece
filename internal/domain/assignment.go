package domain

import "time"

// Assignment binds a case to exactly one responsible user. A case has at
// most one assignment; the unique constraint on case_id enforces that at
// the storage layer.
type Assignment struct {
	ID         string
	CaseID     string
	UserID     string
	AssignedAt time.Time
}

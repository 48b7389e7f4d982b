package shared

import (
	"time"

	"github.com/google/uuid"
)

// Write-side snapshots keep the command layer off the read-side query types.

// RequestSnapshot is one pending course_requests row.
type RequestSnapshot struct {
	ID          uuid.UUID
	RequesterID uuid.UUID
	FullName    string
	ShortName   string
	CategoryID  uuid.UUID
	Message     string
	SubmittedAt time.Time
}

type CourseSnapshot struct {
	ID         uuid.UUID
	FullName   string
	ShortName  string
	CategoryID uuid.UUID
	Visible    bool
	StartDate  time.Time
}

type SectionSnapshot struct {
	ID       uuid.UUID
	CourseID uuid.UUID
	Position int32
	Name     *string
}

type RequesterSnapshot struct {
	ID        uuid.UUID
	Username  string
	FirstName string
	LastName  string
	Email     string
}

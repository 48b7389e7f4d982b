package shared

import (
	"context"
	"time"

	"course-triage/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for multi-step write operations
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads outside transactions
	CommandReads() CommandReads
}

// CommandReads are the read paths the triage pass needs between writes.
type CommandReads interface {
	PendingRequests(ctx context.Context) ([]RequestSnapshot, error)
	ManagedCourseCount(ctx context.Context, userID uuid.UUID) (int, error)
	CourseExists(ctx context.Context, id uuid.UUID) (bool, error)
	ShortnameExists(ctx context.Context, shortname string) (bool, error)
	CourseByID(ctx context.Context, id uuid.UUID) (*CourseSnapshot, error)
	RequesterByID(ctx context.Context, id uuid.UUID) (*RequesterSnapshot, error)
}

type Tx interface {
	Requests() RequestRepository
	Courses() CourseRepository
	Sections() SectionRepository
	Enrolments() EnrolmentRepository
	Users() UserRepository
	Notifications() NotificationRepository
	DB() db.DBTX
}

// RequestRepository scans and settles course_requests rows.
// ListPendingOrdered MUST return rows ordered by (requester, submitted_at,
// id); the per-requester duplicate counting in the triage pass depends on
// that grouping.
type RequestRepository interface {
	ListPendingOrdered(ctx context.Context, db db.DBTX) ([]RequestSnapshot, error)
	MarkRejected(ctx context.Context, db db.DBTX, id uuid.UUID, reason string, decidedAt time.Time) error
	Delete(ctx context.Context, db db.DBTX, id uuid.UUID) error
}

type CourseRepository interface {
	Exists(ctx context.Context, db db.DBTX, id uuid.UUID) (bool, error)
	ShortnameExists(ctx context.Context, db db.DBTX, shortname string) (bool, error)
	FindByID(ctx context.Context, db db.DBTX, id uuid.UUID) (*CourseSnapshot, error)
	SetStartDate(ctx context.Context, db db.DBTX, id uuid.UUID, startDate time.Time) error
}

type SectionRepository interface {
	ListByCourse(ctx context.Context, db db.DBTX, courseID uuid.UUID) ([]SectionSnapshot, error)
	ClearName(ctx context.Context, db db.DBTX, sectionID uuid.UUID) error
}

type EnrolmentRepository interface {
	CountManagedCourses(ctx context.Context, db db.DBTX, userID uuid.UUID) (int, error)
	EnsureManualMethod(ctx context.Context, db db.DBTX, courseID uuid.UUID) error
	Enrol(ctx context.Context, db db.DBTX, courseID, userID uuid.UUID) error
	HasRole(ctx context.Context, db db.DBTX, courseID, userID, roleID uuid.UUID) (bool, error)
	AssignRole(ctx context.Context, db db.DBTX, courseID, userID, roleID uuid.UUID) error
	AssignSystemRole(ctx context.Context, db db.DBTX, userID, roleID uuid.UUID) error
}

type UserRepository interface {
	FindActive(ctx context.Context, db db.DBTX, id uuid.UUID) (*RequesterSnapshot, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, db db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}

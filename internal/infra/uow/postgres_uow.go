package uow

import (
	"context"

	"course-triage/internal/infra/db"
	"course-triage/internal/infra/repository"
	"course-triage/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresUoW struct {
	pool  *pgxpool.Pool
	reads *commandReads
}

func NewPostgresUoW(pool *pgxpool.Pool) *PostgresUoW {
	return &PostgresUoW{
		pool:  pool,
		reads: newCommandReads(pool),
	}
}

func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	_, err := shared.RunInTxWithRetry(ctx, u.pool, 3, func(dbtx db.DBTX) (struct{}, error) {
		return struct{}{}, fn(ctx, newTxBundle(dbtx))
	})
	return err
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return u.reads
}

// txBundle hands out the repositories bound to one transaction.
type txBundle struct {
	dbtx          db.DBTX
	requests      *repository.RequestRepository
	courses       *repository.CourseRepository
	sections      *repository.SectionRepository
	enrolments    *repository.EnrolmentRepository
	users         *repository.UserRepository
	notifications *repository.NotificationRepository
}

func newTxBundle(dbtx db.DBTX) *txBundle {
	return &txBundle{
		dbtx:          dbtx,
		requests:      repository.NewRequestRepository(),
		courses:       repository.NewCourseRepository(),
		sections:      repository.NewSectionRepository(),
		enrolments:    repository.NewEnrolmentRepository(),
		users:         repository.NewUserRepository(),
		notifications: repository.NewNotificationRepository(),
	}
}

func (t *txBundle) Requests() shared.RequestRepository           { return t.requests }
func (t *txBundle) Courses() shared.CourseRepository             { return t.courses }
func (t *txBundle) Sections() shared.SectionRepository           { return t.sections }
func (t *txBundle) Enrolments() shared.EnrolmentRepository       { return t.enrolments }
func (t *txBundle) Users() shared.UserRepository                 { return t.users }
func (t *txBundle) Notifications() shared.NotificationRepository { return t.notifications }
func (t *txBundle) DB() db.DBTX                                  { return t.dbtx }

// commandReads serves the out-of-transaction reads of the triage pass.
type commandReads struct {
	pool       *pgxpool.Pool
	requests   *repository.RequestRepository
	courses    *repository.CourseRepository
	enrolments *repository.EnrolmentRepository
	users      *repository.UserRepository
}

func newCommandReads(pool *pgxpool.Pool) *commandReads {
	return &commandReads{
		pool:       pool,
		requests:   repository.NewRequestRepository(),
		courses:    repository.NewCourseRepository(),
		enrolments: repository.NewEnrolmentRepository(),
		users:      repository.NewUserRepository(),
	}
}

func (r *commandReads) PendingRequests(ctx context.Context) ([]shared.RequestSnapshot, error) {
	return r.requests.ListPendingOrdered(ctx, r.pool)
}

func (r *commandReads) ManagedCourseCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.enrolments.CountManagedCourses(ctx, r.pool, userID)
}

func (r *commandReads) CourseExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.courses.Exists(ctx, r.pool, id)
}

func (r *commandReads) ShortnameExists(ctx context.Context, shortname string) (bool, error) {
	return r.courses.ShortnameExists(ctx, r.pool, shortname)
}

func (r *commandReads) CourseByID(ctx context.Context, id uuid.UUID) (*shared.CourseSnapshot, error) {
	return r.courses.FindByID(ctx, r.pool, id)
}

func (r *commandReads) RequesterByID(ctx context.Context, id uuid.UUID) (*shared.RequesterSnapshot, error) {
	return r.users.FindActive(ctx, r.pool, id)
}

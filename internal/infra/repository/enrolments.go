package repository

import (
	"context"

	"course-triage/internal/infra"
	"course-triage/internal/infra/db"

	"github.com/google/uuid"
)

type EnrolmentRepository struct{}

func NewEnrolmentRepository() *EnrolmentRepository {
	return &EnrolmentRepository{}
}

// CountManagedCourses counts live courses in which the user holds a role
// carrying the manage-course capability. A user with no enrolments at all
// counts zero.
func (r *EnrolmentRepository) CountManagedCourses(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) (int, error) {
	const q = `
		SELECT COUNT(DISTINCT ra.course_id)
		FROM role_assignments ra
		JOIN roles ro ON ro.id = ra.role_id
		JOIN courses c ON c.id = ra.course_id
		WHERE ra.user_id = $1
		  AND ro.can_manage_course
		  AND NOT c.deleted`

	var count int
	if err := dbtx.QueryRow(ctx, q, userID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count managed courses", err)
	}
	return count, nil
}

// EnsureManualMethod creates the course's manual enrolment method if it is
// missing; existing methods are left alone.
func (r *EnrolmentRepository) EnsureManualMethod(ctx context.Context, dbtx db.DBTX, courseID uuid.UUID) error {
	const q = `
		INSERT INTO enrol_methods (id, course_id, method)
		VALUES ($1, $2, 'manual')
		ON CONFLICT (course_id, method) DO NOTHING`

	if _, err := dbtx.Exec(ctx, q, uuid.New(), courseID); err != nil {
		return infra.WrapRepoErr("failed to ensure manual enrolment method", err)
	}
	return nil
}

// Enrol adds the user through the course's manual method. Enrolling an
// already-enrolled user is a no-op.
func (r *EnrolmentRepository) Enrol(ctx context.Context, dbtx db.DBTX, courseID, userID uuid.UUID) error {
	const q = `
		INSERT INTO enrolments (id, method_id, user_id)
		SELECT $1, m.id, $2
		FROM enrol_methods m
		WHERE m.course_id = $3 AND m.method = 'manual'
		ON CONFLICT (method_id, user_id) DO NOTHING`

	if _, err := dbtx.Exec(ctx, q, uuid.New(), userID, courseID); err != nil {
		return infra.WrapRepoErr("failed to enrol user", err)
	}
	return nil
}

func (r *EnrolmentRepository) HasRole(ctx context.Context, dbtx db.DBTX, courseID, userID, roleID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM role_assignments
			WHERE course_id = $1 AND user_id = $2 AND role_id = $3
		)`

	var exists bool
	if err := dbtx.QueryRow(ctx, q, courseID, userID, roleID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check role assignment", err)
	}
	return exists, nil
}

func (r *EnrolmentRepository) AssignRole(ctx context.Context, dbtx db.DBTX, courseID, userID, roleID uuid.UUID) error {
	const q = `
		INSERT INTO role_assignments (id, course_id, user_id, role_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (course_id, user_id, role_id) DO NOTHING`

	if _, err := dbtx.Exec(ctx, q, uuid.New(), courseID, userID, roleID); err != nil {
		return infra.WrapRepoErr("failed to assign role", err)
	}
	return nil
}

// AssignSystemRole grants a platform-wide role, independent of any course.
func (r *EnrolmentRepository) AssignSystemRole(ctx context.Context, dbtx db.DBTX, userID, roleID uuid.UUID) error {
	const q = `
		INSERT INTO system_role_assignments (id, user_id, role_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, role_id) DO NOTHING`

	if _, err := dbtx.Exec(ctx, q, uuid.New(), userID, roleID); err != nil {
		return infra.WrapRepoErr("failed to assign system role", err)
	}
	return nil
}

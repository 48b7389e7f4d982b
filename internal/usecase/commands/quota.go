package commands

import (
	"context"

	"course-triage/internal/usecase/shared"

	"github.com/google/uuid"
)

// QuotaEvaluator answers how many courses a user already administers.
// Read-only; a user with zero enrolments counts zero.
type QuotaEvaluator struct {
	reads shared.CommandReads
}

func NewQuotaEvaluator(uow shared.UnitOfWork) *QuotaEvaluator {
	return &QuotaEvaluator{reads: uow.CommandReads()}
}

func (q *QuotaEvaluator) CountTeacherCourses(ctx context.Context, userID uuid.UUID) (int, error) {
	return q.reads.ManagedCourseCount(ctx, userID)
}

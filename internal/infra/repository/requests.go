package repository

import (
	"context"
	"time"

	"course-triage/internal/domain/request"
	"course-triage/internal/infra"
	"course-triage/internal/infra/db"
	"course-triage/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RequestRepository struct{}

func NewRequestRepository() *RequestRepository {
	return &RequestRepository{}
}

// ListPendingOrdered returns the pending queue ordered by requester, then
// submission time, then id. The triage pass's per-requester counting
// requires exactly this ordering; do not change it without changing the
// rejection tracker.
func (r *RequestRepository) ListPendingOrdered(ctx context.Context, dbtx db.DBTX) ([]shared.RequestSnapshot, error) {
	const q = `
		SELECT id, requester_id, full_name, short_name, category_id, COALESCE(message, ''), submitted_at
		FROM course_requests
		WHERE status = $1
		ORDER BY requester_id, submitted_at, id`

	rows, err := dbtx.Query(ctx, q, string(request.StatusPending))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan pending course requests", err)
	}
	defer rows.Close()

	var result []shared.RequestSnapshot
	for rows.Next() {
		var snap shared.RequestSnapshot
		if err := rows.Scan(&snap.ID, &snap.RequesterID, &snap.FullName, &snap.ShortName, &snap.CategoryID, &snap.Message, &snap.SubmittedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan course request row", err)
		}
		result = append(result, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read course request rows", err)
	}

	return result, nil
}

// MarkRejected settles a pending row; rows already settled by a concurrent
// writer are reported as not found.
func (r *RequestRepository) MarkRejected(ctx context.Context, dbtx db.DBTX, id uuid.UUID, reason string, decidedAt time.Time) error {
	const q = `
		UPDATE course_requests
		SET status = $1, reject_reason = $2, decided_at = $3
		WHERE id = $4 AND status = $5`

	tag, err := dbtx.Exec(ctx, q, string(request.StatusRejected), reason, decidedAt, id, string(request.StatusPending))
	if err != nil {
		return infra.WrapRepoErr("failed to mark course request rejected", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("pending course request not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func (r *RequestRepository) Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, `DELETE FROM course_requests WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete course request", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("course request not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

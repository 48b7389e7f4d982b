package readstore

import (
	"context"

	"course-triage/internal/domain/request"
	"course-triage/internal/infra"
	"course-triage/internal/pkg/ptr"
	"course-triage/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RequestReadStore struct {
	pool *pgxpool.Pool
}

func NewRequestReadStore(pool *pgxpool.Pool) *RequestReadStore {
	return &RequestReadStore{pool: pool}
}

func (s *RequestReadStore) ListPending(ctx context.Context) ([]*queries.PendingRequestView, error) {
	const q = `
		SELECT id, requester_id, full_name, short_name, category_id, submitted_at, status, reject_reason, decided_at
		FROM course_requests
		WHERE status = $1
		ORDER BY requester_id, submitted_at, id`

	return s.list(ctx, q, string(request.StatusPending))
}

func (s *RequestReadStore) ListRecentlyDecided(ctx context.Context, limit int32) ([]*queries.PendingRequestView, error) {
	const q = `
		SELECT id, requester_id, full_name, short_name, category_id, submitted_at, status, reject_reason, decided_at
		FROM course_requests
		WHERE status <> $1
		ORDER BY decided_at DESC
		LIMIT $2`

	return s.list(ctx, q, string(request.StatusPending), limit)
}

func (s *RequestReadStore) list(ctx context.Context, q string, args ...any) ([]*queries.PendingRequestView, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list course requests", err)
	}
	defer rows.Close()

	var result []*queries.PendingRequestView
	for rows.Next() {
		var view queries.PendingRequestView
		var reason pgtype.Text
		var decidedAt pgtype.Timestamptz
		if err := rows.Scan(&view.ID, &view.RequesterID, &view.FullName, &view.ShortName, &view.CategoryID, &view.SubmittedAt, &view.Status, &reason, &decidedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan course request view", err)
		}
		view.RejectedFor = ptr.TextFromPgtype(reason)
		view.DecidedAt = ptr.TimeFromPgtype(decidedAt)
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read course request views", err)
	}

	return result, nil
}

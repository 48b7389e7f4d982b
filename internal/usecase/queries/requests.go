package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PendingRequestView is the read model for the pending-queue API.
type PendingRequestView struct {
	ID          uuid.UUID  `json:"id"`
	RequesterID uuid.UUID  `json:"requester_id"`
	FullName    string     `json:"full_name"`
	ShortName   string     `json:"short_name"`
	CategoryID  uuid.UUID  `json:"category_id"`
	SubmittedAt time.Time  `json:"submitted_at"`
	Status      string     `json:"status"`
	RejectedFor *string    `json:"rejected_for,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}

type RequestReadStore interface {
	ListPending(ctx context.Context) ([]*PendingRequestView, error)
	ListRecentlyDecided(ctx context.Context, limit int32) ([]*PendingRequestView, error)
}

type RequestQueries interface {
	ListPending(ctx context.Context) ([]*PendingRequestView, error)
	ListRecentlyDecided(ctx context.Context, limit int32) ([]*PendingRequestView, error)
}

type requestQueriesImpl struct {
	store RequestReadStore
}

func NewRequestQueries(store RequestReadStore) RequestQueries {
	return &requestQueriesImpl{store: store}
}

func (q *requestQueriesImpl) ListPending(ctx context.Context) ([]*PendingRequestView, error) {
	return q.store.ListPending(ctx)
}

func (q *requestQueriesImpl) ListRecentlyDecided(ctx context.Context, limit int32) ([]*PendingRequestView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return q.store.ListRecentlyDecided(ctx, limit)
}

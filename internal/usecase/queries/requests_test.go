//go:build unit

package queries_test

import (
	"context"
	"testing"

	"course-triage/internal/usecase/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReadStore struct {
	gotLimit int32
}

func (s *stubReadStore) ListPending(_ context.Context) ([]*queries.PendingRequestView, error) {
	return nil, nil
}

func (s *stubReadStore) ListRecentlyDecided(_ context.Context, limit int32) ([]*queries.PendingRequestView, error) {
	s.gotLimit = limit
	return nil, nil
}

func TestListRecentlyDecidedLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int32
		want  int32
	}{
		{name: "zero falls back to the default", limit: 0, want: 50},
		{name: "negative falls back to the default", limit: -5, want: 50},
		{name: "oversized falls back to the default", limit: 1000, want: 50},
		{name: "in-range limit passes through", limit: 25, want: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubReadStore{}
			q := queries.NewRequestQueries(store)

			_, err := q.ListRecentlyDecided(context.Background(), tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, store.gotLimit)
		})
	}
}

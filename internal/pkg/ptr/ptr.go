package ptr

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func To[T any](v T) *T {
	return &v
}

func TextFromPgtype(pt pgtype.Text) *string {
	if !pt.Valid {
		return nil
	}
	return &pt.String
}

func TimeFromPgtype(pt pgtype.Timestamptz) *time.Time {
	if !pt.Valid {
		return nil
	}
	return &pt.Time
}

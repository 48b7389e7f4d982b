package repository

import (
	"context"
	"errors"
	"time"

	"course-triage/internal/infra"
	"course-triage/internal/infra/db"
	"course-triage/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CourseRepository struct{}

func NewCourseRepository() *CourseRepository {
	return &CourseRepository{}
}

func (r *CourseRepository) Exists(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1 AND NOT deleted)`

	var exists bool
	if err := dbtx.QueryRow(ctx, q, id).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check course existence", err)
	}
	return exists, nil
}

func (r *CourseRepository) ShortnameExists(ctx context.Context, dbtx db.DBTX, shortname string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM courses WHERE short_name = $1 AND NOT deleted)`

	var exists bool
	if err := dbtx.QueryRow(ctx, q, shortname).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check shortname collision", err)
	}
	return exists, nil
}

func (r *CourseRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.CourseSnapshot, error) {
	const q = `
		SELECT id, full_name, short_name, category_id, visible, start_date
		FROM courses
		WHERE id = $1 AND NOT deleted`

	var snap shared.CourseSnapshot
	err := dbtx.QueryRow(ctx, q, id).Scan(&snap.ID, &snap.FullName, &snap.ShortName, &snap.CategoryID, &snap.Visible, &snap.StartDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("course not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find course by id", err)
	}
	return &snap, nil
}

func (r *CourseRepository) SetStartDate(ctx context.Context, dbtx db.DBTX, id uuid.UUID, startDate time.Time) error {
	const q = `UPDATE courses SET start_date = $1 WHERE id = $2 AND NOT deleted`

	tag, err := dbtx.Exec(ctx, q, startDate, id)
	if err != nil {
		return infra.WrapRepoErr("failed to set course start date", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("course not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

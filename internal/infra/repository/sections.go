package repository

import (
	"context"

	"course-triage/internal/infra"
	"course-triage/internal/infra/db"
	"course-triage/internal/pkg/ptr"
	"course-triage/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type SectionRepository struct{}

func NewSectionRepository() *SectionRepository {
	return &SectionRepository{}
}

func (r *SectionRepository) ListByCourse(ctx context.Context, dbtx db.DBTX, courseID uuid.UUID) ([]shared.SectionSnapshot, error) {
	const q = `
		SELECT id, course_id, position, name
		FROM course_sections
		WHERE course_id = $1
		ORDER BY position`

	rows, err := dbtx.Query(ctx, q, courseID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list course sections", err)
	}
	defer rows.Close()

	var result []shared.SectionSnapshot
	for rows.Next() {
		var snap shared.SectionSnapshot
		var name pgtype.Text
		if err := rows.Scan(&snap.ID, &snap.CourseID, &snap.Position, &name); err != nil {
			return nil, infra.WrapRepoErr("failed to scan course section row", err)
		}
		snap.Name = ptr.TextFromPgtype(name)
		result = append(result, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read course section rows", err)
	}

	return result, nil
}

func (r *SectionRepository) ClearName(ctx context.Context, dbtx db.DBTX, sectionID uuid.UUID) error {
	const q = `UPDATE course_sections SET name = NULL WHERE id = $1`

	if _, err := dbtx.Exec(ctx, q, sectionID); err != nil {
		return infra.WrapRepoErr("failed to clear course section name", err)
	}
	return nil
}

package repository

import (
	"context"
	"errors"

	"course-triage/internal/infra"
	"course-triage/internal/infra/db"
	"course-triage/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) FindActive(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.RequesterSnapshot, error) {
	const q = `
		SELECT id, username, first_name, last_name, email
		FROM users
		WHERE id = $1 AND NOT deleted`

	var snap shared.RequesterSnapshot
	err := dbtx.QueryRow(ctx, q, id).Scan(&snap.ID, &snap.Username, &snap.FirstName, &snap.LastName, &snap.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by id", err)
	}
	return &snap, nil
}

package postgres

import (
	"context"
	"errors"

	"github.com/baharkarakas/pocketmoney-backend/internal/models"
	"github.com/baharkarakas/pocketmoney-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profilesRepo struct{ pool *pgxpool.Pool }

func (r *profilesRepo) GetByID(ctx context.Context, id string) (models.Profile, error) {
	var p models.Profile
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, full_name, role, created_at, updated_at FROM profiles WHERE id=$1`,
		id,
	).Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Profile{}, repository.ErrNotFound
	}
	return p, err
}

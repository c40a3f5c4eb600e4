package postgres

import (
	"context"
	"errors"

	"github.com/baharkarakas/pocketmoney-backend/internal/models"
	"github.com/baharkarakas/pocketmoney-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type accountsRepo struct{ pool *pgxpool.Pool }

func (r *accountsRepo) GetByName(ctx context.Context, name string) (models.Account, error) {
	var a models.Account
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, weekly_allowance, interest_rate, current_balance, created_at, updated_at
		   FROM accounts
		  WHERE name=$1
		  LIMIT 1`,
		name,
	).Scan(&a.ID, &a.Name, &a.WeeklyAllowance, &a.InterestRate, &a.CurrentBalance, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Account{}, repository.ErrNotFound
	}
	return a, err
}

func (r *accountsRepo) Create(ctx context.Context, a models.Account) (models.Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO accounts(id, name, weekly_allowance, interest_rate, current_balance)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING id, name, weekly_allowance, interest_rate, current_balance, created_at, updated_at`,
		a.ID, a.Name, a.WeeklyAllowance, a.InterestRate, a.CurrentBalance,
	).Scan(&a.ID, &a.Name, &a.WeeklyAllowance, &a.InterestRate, &a.CurrentBalance, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *accountsRepo) UpdateSettings(ctx context.Context, id string, weeklyAllowance, interestRate *decimal.Decimal) (models.Account, error) {
	var a models.Account
	err := r.pool.QueryRow(ctx,
		`UPDATE accounts
		    SET weekly_allowance = COALESCE($2::numeric, weekly_allowance),
		        interest_rate    = COALESCE($3::numeric, interest_rate),
		        updated_at       = now()
		  WHERE id=$1
		  RETURNING id, name, weekly_allowance, interest_rate, current_balance, created_at, updated_at`,
		id, weeklyAllowance, interestRate,
	).Scan(&a.ID, &a.Name, &a.WeeklyAllowance, &a.InterestRate, &a.CurrentBalance, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Account{}, repository.ErrNotFound
	}
	return a, err
}

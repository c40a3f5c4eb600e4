package postgres

import (
	repo "github.com/baharkarakas/pocketmoney-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Accounts repo.Accounts
	Ledger   repo.Ledger
	Profiles repo.Profiles
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Accounts: &accountsRepo{pool},
		Ledger:   &ledgerRepo{pool},
		Profiles: &profilesRepo{pool},
	}
}

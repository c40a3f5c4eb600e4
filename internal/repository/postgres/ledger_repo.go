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

type ledgerRepo struct{ pool *pgxpool.Pool }

const entryColumns = `id, account_id, type, amount, description, created_at`

// ApplyEntry runs the balance update and the ledger insert inside one DB
// transaction. Read-committed is enough: the service layer computes the new
// balance, we only guarantee the two writes land together.
func (r *ledgerRepo) ApplyEntry(ctx context.Context, accountID string, newBalance decimal.Decimal, e models.LedgerEntry) (models.LedgerEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.AccountID = accountID

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite})
	if err != nil {
		return models.LedgerEntry{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE accounts SET current_balance=$2, updated_at=now() WHERE id=$1`,
		accountID, newBalance,
	)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.LedgerEntry{}, repository.ErrNotFound
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO transactions(id, account_id, type, amount, description)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING `+entryColumns,
		e.ID, e.AccountID, e.Type, e.Amount, e.Description,
	).Scan(&e.ID, &e.AccountID, &e.Type, &e.Amount, &e.Description, &e.CreatedAt)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.LedgerEntry{}, err
	}
	return e, nil
}

func (r *ledgerRepo) Insert(ctx context.Context, e models.LedgerEntry) (models.LedgerEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO transactions(id, account_id, type, amount, description)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING `+entryColumns,
		e.ID, e.AccountID, e.Type, e.Amount, e.Description,
	).Scan(&e.ID, &e.AccountID, &e.Type, &e.Amount, &e.Description, &e.CreatedAt)
	return e, err
}

func (r *ledgerRepo) ListByAccount(ctx context.Context, accountID string, limit int) ([]models.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+entryColumns+`
		   FROM transactions
		  WHERE account_id=$1
		  ORDER BY created_at DESC, id DESC
		  LIMIT $2`,
		accountID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Type, &e.Amount, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ledgerRepo) LastByType(ctx context.Context, accountID string, t models.EntryType) (models.LedgerEntry, error) {
	var e models.LedgerEntry
	err := r.pool.QueryRow(ctx,
		`SELECT `+entryColumns+`
		   FROM transactions
		  WHERE account_id=$1 AND type=$2
		  ORDER BY created_at DESC, id DESC
		  LIMIT 1`,
		accountID, t,
	).Scan(&e.ID, &e.AccountID, &e.Type, &e.Amount, &e.Description, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.LedgerEntry{}, repository.ErrNotFound
	}
	return e, err
}

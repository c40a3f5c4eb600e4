package repository

import (
	"context"
	"errors"

	"github.com/baharkarakas/pocketmoney-backend/internal/models"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned for empty lookups. The postgres layer maps the
// backend's no-rows signal onto it so callers never see a driver error for a
// normal empty result.
var ErrNotFound = errors.New("not found")

type Accounts interface {
	GetByName(ctx context.Context, name string) (models.Account, error)
	Create(ctx context.Context, a models.Account) (models.Account, error)
	// UpdateSettings patches only the non-nil fields.
	UpdateSettings(ctx context.Context, id string, weeklyAllowance, interestRate *decimal.Decimal) (models.Account, error)
}

type Ledger interface {
	// ApplyEntry sets the account balance and appends the ledger entry in a
	// single DB transaction, so the balance can never drift from its ledger
	// on a partial failure.
	ApplyEntry(ctx context.Context, accountID string, newBalance decimal.Decimal, e models.LedgerEntry) (models.LedgerEntry, error)
	// Insert appends a ledger entry without touching the balance (audit rows).
	Insert(ctx context.Context, e models.LedgerEntry) (models.LedgerEntry, error)
	ListByAccount(ctx context.Context, accountID string, limit int) ([]models.LedgerEntry, error)
	// LastByType returns the most recent entry of the given type, or ErrNotFound.
	LastByType(ctx context.Context, accountID string, t models.EntryType) (models.LedgerEntry, error)
}

type Profiles interface {
	GetByID(ctx context.Context, id string) (models.Profile, error)
}

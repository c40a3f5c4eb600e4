package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryWeeklyAllowance    EntryType = "weekly_allowance"
	EntryInterest           EntryType = "interest"
	EntryWithdrawal         EntryType = "withdrawal"
	EntryAllowanceChange    EntryType = "allowance_change"     // audit only, amount 0
	EntryInterestRateChange EntryType = "interest_rate_change" // audit only, amount 0
)

// LedgerEntry is an immutable transaction row: positive amounts are credits,
// negative amounts are withdrawals, audit entries carry amount 0.
type LedgerEntry struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Type        EntryType       `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

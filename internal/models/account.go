package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the single tracked balance entity (one child). Name uniqueness is
// enforced by the get-or-create lookup, not by a DB constraint.
type Account struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	WeeklyAllowance decimal.Decimal `json:"weekly_allowance"`
	InterestRate    decimal.Decimal `json:"interest_rate"` // monthly rate as a decimal, e.g. 0.01 for 1%
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/baharkarakas/pocketmoney-backend/internal/metrics"
	"github.com/baharkarakas/pocketmoney-backend/internal/models"
	repo "github.com/baharkarakas/pocketmoney-backend/internal/repository"
	"github.com/baharkarakas/pocketmoney-backend/internal/worker"
	"github.com/shopspring/decimal"
)

// PocketMoneyService holds the whole domain: one child account, a weekly
// allowance, monthly interest and parent-recorded withdrawals. The balance
// invariant (current_balance == sum of ledger amounts) is preserved by always
// writing the balance and the ledger entry through Ledger.ApplyEntry.
type PocketMoneyService struct {
	accounts repo.Accounts
	ledger   repo.Ledger
	wp       *worker.Pool

	childName        string
	defaultAllowance decimal.Decimal
	defaultRate      decimal.Decimal

	now func() time.Time
}

func NewPocketMoneyService(a repo.Accounts, l repo.Ledger, wp *worker.Pool, childName string, defaultAllowance, defaultRate decimal.Decimal) *PocketMoneyService {
	return &PocketMoneyService{
		accounts:         a,
		ledger:           l,
		wp:               wp,
		childName:        childName,
		defaultAllowance: defaultAllowance,
		defaultRate:      defaultRate,
		now:              time.Now,
	}
}

func (s *PocketMoneyService) account(ctx context.Context) (models.Account, error) {
	a, err := s.accounts.GetByName(ctx, s.childName)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, backendErr("get account", err)
	}
	return a, nil
}

// Account returns the child account or ErrAccountNotFound. Unlike
// GetOrCreate it never writes; the status probes use it.
func (s *PocketMoneyService) Account(ctx context.Context) (models.Account, error) {
	return s.account(ctx)
}

// GetOrCreate returns the child account, creating it with the configured
// defaults and a zero balance on first call. Idempotent once created.
func (s *PocketMoneyService) GetOrCreate(ctx context.Context) (models.Account, error) {
	a, err := s.account(ctx)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return models.Account{}, err
	}
	a, err = s.accounts.Create(ctx, models.Account{
		Name:            s.childName,
		WeeklyAllowance: s.defaultAllowance,
		InterestRate:    s.defaultRate,
		CurrentBalance:  decimal.Zero,
	})
	if err != nil {
		return models.Account{}, backendErr("create account", err)
	}
	return a, nil
}

// UpdateSettings patches only the supplied fields. Each change also gets a
// zero-amount audit entry in the ledger, written asynchronously: audit rows
// never affect the balance, so a delayed or lost one cannot break the
// reconciliation invariant.
func (s *PocketMoneyService) UpdateSettings(ctx context.Context, weeklyAllowance, interestRate *decimal.Decimal) (models.Account, error) {
	if weeklyAllowance != nil && weeklyAllowance.IsNegative() {
		return models.Account{}, ErrInvalidAmount
	}
	if interestRate != nil && interestRate.IsNegative() {
		return models.Account{}, ErrInvalidAmount
	}

	before, err := s.account(ctx)
	if err != nil {
		return models.Account{}, err
	}
	after, err := s.accounts.UpdateSettings(ctx, before.ID, weeklyAllowance, interestRate)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, backendErr("update settings", err)
	}

	if weeklyAllowance != nil && !weeklyAllowance.Equal(before.WeeklyAllowance) {
		s.audit(after.ID, models.EntryAllowanceChange,
			fmt.Sprintf("weekly allowance changed from %s to %s", before.WeeklyAllowance, weeklyAllowance))
	}
	if interestRate != nil && !interestRate.Equal(before.InterestRate) {
		s.audit(after.ID, models.EntryInterestRateChange,
			fmt.Sprintf("interest rate changed from %s to %s", before.InterestRate, interestRate))
	}
	return after, nil
}

func (s *PocketMoneyService) audit(accountID string, t models.EntryType, description string) {
	s.wp.Submit(func() {
		_, err := s.ledger.Insert(context.Background(), models.LedgerEntry{
			AccountID:   accountID,
			Type:        t,
			Amount:      decimal.Zero,
			Description: &description,
		})
		if err != nil {
			slog.Warn("audit entry insert", "type", t, "err", err)
		}
	})
}

// ApplyWeeklyAllowance credits the weekly allowance and returns the new balance.
func (s *PocketMoneyService) ApplyWeeklyAllowance(ctx context.Context) (decimal.Decimal, error) {
	a, err := s.account(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	newBalance := a.CurrentBalance.Add(a.WeeklyAllowance)
	desc := "Weekly allowance payment"
	if _, err := s.ledger.ApplyEntry(ctx, a.ID, newBalance, models.LedgerEntry{
		Type:        models.EntryWeeklyAllowance,
		Amount:      a.WeeklyAllowance,
		Description: &desc,
	}); err != nil {
		return decimal.Zero, backendErr("apply weekly allowance", err)
	}
	metrics.LedgerEntriesTotal.WithLabelValues(string(models.EntryWeeklyAllowance)).Inc()
	return newBalance, nil
}

// ApplyMonthlyInterest credits balance * rate, rounded to cents, and returns
// (interestAmount, newBalance). Accounts with no positive balance earn
// nothing and the call is rejected.
func (s *PocketMoneyService) ApplyMonthlyInterest(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	a, err := s.account(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if !a.CurrentBalance.IsPositive() {
		return decimal.Zero, decimal.Zero, ErrNonPositiveBalance
	}
	interest := a.CurrentBalance.Mul(a.InterestRate).Round(2)
	newBalance := a.CurrentBalance.Add(interest)
	desc := fmt.Sprintf("Monthly interest payment (%s%%)", a.InterestRate.Mul(decimal.NewFromInt(100)))
	if _, err := s.ledger.ApplyEntry(ctx, a.ID, newBalance, models.LedgerEntry{
		Type:        models.EntryInterest,
		Amount:      interest,
		Description: &desc,
	}); err != nil {
		return decimal.Zero, decimal.Zero, backendErr("apply monthly interest", err)
	}
	metrics.LedgerEntriesTotal.WithLabelValues(string(models.EntryInterest)).Inc()
	return interest, newBalance, nil
}

// Withdraw debits the balance and appends a negative ledger entry. Nothing is
// mutated when validation fails.
func (s *PocketMoneyService) Withdraw(ctx context.Context, amount decimal.Decimal, description string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return decimal.Zero, ErrEmptyDescription
	}
	a, err := s.account(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.GreaterThan(a.CurrentBalance) {
		return decimal.Zero, ErrInsufficientFunds
	}
	newBalance := a.CurrentBalance.Sub(amount)
	if _, err := s.ledger.ApplyEntry(ctx, a.ID, newBalance, models.LedgerEntry{
		Type:        models.EntryWithdrawal,
		Amount:      amount.Neg(),
		Description: &description,
	}); err != nil {
		return decimal.Zero, backendErr("withdraw", err)
	}
	metrics.LedgerEntriesTotal.WithLabelValues(string(models.EntryWithdrawal)).Inc()
	return newBalance, nil
}

// ListTransactions returns the most recent ledger entries, newest first.
func (s *PocketMoneyService) ListTransactions(ctx context.Context, limit int) ([]models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	a, err := s.account(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.ledger.ListByAccount(ctx, a.ID, limit)
	if err != nil {
		return nil, backendErr("list transactions", err)
	}
	return out, nil
}

// CurrentBalance returns the account balance, or zero when no account exists.
func (s *PocketMoneyService) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	a, err := s.account(ctx)
	if errors.Is(err, ErrAccountNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return a.CurrentBalance, nil
}

// IsWeeklyAllowanceDue reports whether the weekly payment should fire. False
// when no account exists yet.
func (s *PocketMoneyService) IsWeeklyAllowanceDue(ctx context.Context) (bool, error) {
	a, err := s.account(ctx)
	if errors.Is(err, ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	last, err := s.lastPayment(ctx, a.ID, models.EntryWeeklyAllowance)
	if err != nil {
		return false, err
	}
	return weeklyAllowanceDue(last, s.now()), nil
}

// IsMonthlyInterestDue reports whether the interest payment should fire.
// False when no account exists yet.
func (s *PocketMoneyService) IsMonthlyInterestDue(ctx context.Context) (bool, error) {
	a, err := s.account(ctx)
	if errors.Is(err, ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	last, err := s.lastPayment(ctx, a.ID, models.EntryInterest)
	if err != nil {
		return false, err
	}
	return monthlyInterestDue(last, a.CreatedAt, s.now()), nil
}

func (s *PocketMoneyService) lastPayment(ctx context.Context, accountID string, t models.EntryType) (time.Time, error) {
	e, err := s.ledger.LastByType(ctx, accountID, t)
	if errors.Is(err, repo.ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, backendErr("check last payment", err)
	}
	return e.CreatedAt, nil
}

// RunWeeklyAllowanceIfDue applies the allowance only if the due check passes.
// This is the operation the scheduler calls; due-ness truth stays here.
func (s *PocketMoneyService) RunWeeklyAllowanceIfDue(ctx context.Context) (bool, decimal.Decimal, error) {
	due, err := s.IsWeeklyAllowanceDue(ctx)
	if err != nil || !due {
		return false, decimal.Zero, err
	}
	newBalance, err := s.ApplyWeeklyAllowance(ctx)
	if err != nil {
		return false, decimal.Zero, err
	}
	metrics.ScheduledRunsTotal.WithLabelValues("allowance").Inc()
	return true, newBalance, nil
}

// RunMonthlyInterestIfDue applies the interest only if the due check passes.
func (s *PocketMoneyService) RunMonthlyInterestIfDue(ctx context.Context) (bool, decimal.Decimal, decimal.Decimal, error) {
	due, err := s.IsMonthlyInterestDue(ctx)
	if err != nil || !due {
		return false, decimal.Zero, decimal.Zero, err
	}
	interest, newBalance, err := s.ApplyMonthlyInterest(ctx)
	if err != nil {
		return false, decimal.Zero, decimal.Zero, err
	}
	metrics.ScheduledRunsTotal.WithLabelValues("interest").Inc()
	return true, interest, newBalance, nil
}

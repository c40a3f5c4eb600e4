package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/baharkarakas/pocketmoney-backend/internal/models"
	"github.com/baharkarakas/pocketmoney-backend/internal/repository/memory"
	"github.com/baharkarakas/pocketmoney-backend/internal/worker"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestService(t *testing.T) (*PocketMoneyService, *memory.Store, *worker.Pool) {
	t.Helper()
	store := memory.NewStore()
	accounts, ledger, _ := store.Repositories()
	wp := worker.NewPool(1)
	svc := NewPocketMoneyService(accounts, ledger, wp, "Louis", dec("10"), dec("0.01"))
	return svc, store, wp
}

func mustCreate(t *testing.T, svc *PocketMoneyService) models.Account {
	t.Helper()
	a, err := svc.GetOrCreate(context.Background())
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	return a
}

func entriesOfType(t *testing.T, svc *PocketMoneyService, typ models.EntryType) []models.LedgerEntry {
	t.Helper()
	all, err := svc.ListTransactions(context.Background(), 100)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	var out []models.LedgerEntry
	for _, e := range all {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func TestGetOrCreate_Idempotent(t *testing.T) {
	svc, _, wp := newTestService(t)
	defer wp.Stop()

	a := mustCreate(t, svc)
	if a.Name != "Louis" {
		t.Errorf("name = %q, want Louis", a.Name)
	}
	if !a.CurrentBalance.IsZero() {
		t.Errorf("initial balance = %s, want 0", a.CurrentBalance)
	}
	if !a.WeeklyAllowance.Equal(dec("10")) || !a.InterestRate.Equal(dec("0.01")) {
		t.Errorf("defaults = (%s, %s), want (10, 0.01)", a.WeeklyAllowance, a.InterestRate)
	}

	b := mustCreate(t, svc)
	if b.ID != a.ID {
		t.Errorf("second call created a new account: %s != %s", b.ID, a.ID)
	}
}

func TestApplyWeeklyAllowance(t *testing.T) {
	svc, _, wp := newTestService(t)
	defer wp.Stop()
	mustCreate(t, svc)

	newBalance, err := svc.ApplyWeeklyAllowance(context.Background())
	if err != nil {
		t.Fatalf("ApplyWeeklyAllowance: %v", err)
	}
	if !newBalance.Equal(dec("10")) {
		t.Errorf("newBalance = %s, want 10", newBalance)
	}

	entries := entriesOfType(t, svc, models.EntryWeeklyAllowance)
	if len(entries) != 1 {
		t.Fatalf("allowance entries = %d, want 1", len(entries))
	}
	if !entries[0].Amount.Equal(dec("10")) {
		t.Errorf("entry amount = %s, want 10", entries[0].Amount)
	}
}

func TestApplyWeeklyAllowance_NoAccount(t *testing.T) {
	svc, _, wp := newTestService(t)
	defer wp.Stop()

	if _, err := svc.ApplyWeeklyAllowance(context.Background()); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestApplyMonthlyInterest(t *testing.T) {
	svc, _, wp := newTestService(t)
	defer wp.Stop()
	mustCreate(t, svc)

	if _, _, err := svc.ApplyMonthlyInterest(context.Background()); !errors.Is(err, ErrNonPositiveBalance) {
		t.Fatalf("interest on zero balance: err = %v, want ErrNonPositiveBalance", err)
	}

	if _, err := svc.ApplyWeeklyAllowance(context.Background()); err != nil {
		t.Fatal(err)
	}

	interest, newBalance, err := svc.ApplyMonthlyInterest(context.Background())
	if err != nil {
		t.Fatalf("ApplyMonthlyInterest: %v", err)
	}
	if !interest.Equal(dec("0.10")) {
		t.Errorf("interest = %s, want 0.10", interest)
	}
	if !newBalance.Equal(dec("10.10")) {
		t.Errorf("newBalance = %s, want 10.10", newBalance)
	}
	entries := entriesOfType(t, svc, models.EntryInterest)
	if len(entries) != 1 || !entries[0].Amount.Equal(dec("0.10")) {
		t.Errorf("interest entries = %+v, want one entry of 0.10", entries)
	}
}

func TestWithdraw(t *testing.T) {
	svc, _, wp := newTestService(t)
	defer wp.Stop()
	mustCreate(t, svc)
	if _, err := svc.ApplyWeeklyAllowance(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.ApplyMonthlyInterest(context.Background()); err != nil {
		t.Fatal(err)
	}

	// balance is now 10.10
	newBalance, err := svc.Withdraw(context.Background(), dec("5"), "toy")
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if !newBalance.Equal(dec("5.10")) {
		t.Errorf("newBalance = %s, want 5.10", newBalance)
	}
	entries := entriesOfType(t, svc, models.EntryWithdrawal)
	if len(entries) != 1 || !entries[0].Amount.Equal(dec("-5")) {
		t.Fatalf("withdrawal entries = %+v, want one entry of -5", entries)
	}
	if entries[0].Description == nil || *entries[0].Description != "toy" {
		t.Errorf("description = %v, want toy", entries[0].Description)
	}

	// over-withdrawal fails and mutates nothing
	if _, err := svc.Withdraw(context.Background(), dec("100"), "too much"); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("err = %v, want ErrInsufficientFunds", err)
	}
	balance, err := svc.CurrentBalance(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !balance.Equal(dec("5.10")) {
		t.Errorf("balance after failed withdrawal = %s, want 5.10", balance)
	}
	if got := len(entriesOfType(t, svc, models.EntryWithdrawal)); got != 1 {
		t.Errorf("withdrawal entries after failure = %d, want 1", got)
	}
}

func TestWithdraw_Validation(t *testing.T) {
	svc, _, wp := newTestService(t)
	defer wp.Stop()
	mustCreate(t, svc)

	tests := []struct {
		name    string
		amount  decimal.Decimal
		desc    string
		wantErr error
	}{
		{"zero amount", dec("0"), "x", ErrInvalidAmount},
		{"negative amount", dec("-5"), "x", ErrInvalidAmount},
		{"empty description", dec("1"), "  ", ErrEmptyDescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Withdraw(context.Background(), tt.amount, tt.desc); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	balance, err := svc.CurrentBalance(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !balance.IsZero() {
		t.Errorf("balance mutated by invalid withdrawals: %s", balance)
	}
}

func TestCurrentBalance_NoAccount(t *testing.T) {
	svc, _, wp := newTestService(t)
	defer wp.Stop()

	balance, err := svc.CurrentBalance(context.Background())
	if err != nil {
		t.Fatalf("CurrentBalance: %v", err)
	}
	if !balance.IsZero() {
		t.Errorf("balance = %s, want 0", balance)
	}
}

func TestIsWeeklyAllowanceDue(t *testing.T) {
	svc, store, wp := newTestService(t)
	defer wp.Stop()

	// no account yet
	due, err := svc.IsWeeklyAllowanceDue(context.Background())
	if err != nil || due {
		t.Errorf("no account: due = %v, err = %v; want false, nil", due, err)
	}

	mustCreate(t, svc)

	due, err = svc.IsWeeklyAllowanceDue(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !due {
		t.Error("account with empty ledger should be due")
	}

	if _, err := svc.ApplyWeeklyAllowance(context.Background()); err != nil {
		t.Fatal(err)
	}
	due, err = svc.IsWeeklyAllowanceDue(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if due {
		t.Error("just paid, should not be due")
	}

	// backdate the payment 7 days
	entries := entriesOfType(t, svc, models.EntryWeeklyAllowance)
	store.SetEntryCreatedAt(entries[0].ID, time.Now().AddDate(0, 0, -7))
	due, err = svc.IsWeeklyAllowanceDue(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !due {
		t.Error("payment 7 days old, should be due again")
	}
}

func TestIsMonthlyInterestDue(t *testing.T) {
	svc, store, wp := newTestService(t)
	defer wp.Stop()

	a := mustCreate(t, svc)

	// fresh account, no interest yet
	due, err := svc.IsMonthlyInterestDue(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if due {
		t.Error("brand-new account should not be due")
	}

	store.SetAccountCreatedAt(a.ID, time.Now().AddDate(0, 0, -31))
	due, err = svc.IsMonthlyInterestDue(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !due {
		t.Error("31-day-old account with no interest entries should be due")
	}

	// pay interest, then it is no longer due this month
	if _, err := svc.ApplyWeeklyAllowance(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.ApplyMonthlyInterest(context.Background()); err != nil {
		t.Fatal(err)
	}
	due, err = svc.IsMonthlyInterestDue(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if due {
		t.Error("interest paid this month, should not be due")
	}

	// last payment in a previous calendar month makes it due again
	entries := entriesOfType(t, svc, models.EntryInterest)
	store.SetEntryCreatedAt(entries[0].ID, time.Now().AddDate(0, -1, 0))
	due, err = svc.IsMonthlyInterestDue(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !due {
		t.Error("last interest payment in a previous month, should be due")
	}
}

func TestRunWeeklyAllowanceIfDue(t *testing.T) {
	svc, _, wp := newTestService(t)
	defer wp.Stop()
	mustCreate(t, svc)

	applied, newBalance, err := svc.RunWeeklyAllowanceIfDue(context.Background())
	if err != nil {
		t.Fatalf("RunWeeklyAllowanceIfDue: %v", err)
	}
	if !applied || !newBalance.Equal(dec("10")) {
		t.Errorf("applied = %v, newBalance = %s; want true, 10", applied, newBalance)
	}

	// second run in a row does nothing
	applied, _, err = svc.RunWeeklyAllowanceIfDue(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if applied {
		t.Error("second run should not apply")
	}
	if got := len(entriesOfType(t, svc, models.EntryWeeklyAllowance)); got != 1 {
		t.Errorf("allowance entries = %d, want 1", got)
	}
}

func TestUpdateSettings(t *testing.T) {
	svc, _, wp := newTestService(t)
	mustCreate(t, svc)

	allowance := dec("15")
	a, err := svc.UpdateSettings(context.Background(), &allowance, nil)
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if !a.WeeklyAllowance.Equal(dec("15")) {
		t.Errorf("weekly allowance = %s, want 15", a.WeeklyAllowance)
	}
	if !a.InterestRate.Equal(dec("0.01")) {
		t.Errorf("interest rate patched unexpectedly: %s", a.InterestRate)
	}

	rate := dec("0.05")
	if _, err := svc.UpdateSettings(context.Background(), nil, &rate); err != nil {
		t.Fatal(err)
	}

	// drain async audit writes before asserting on the ledger
	wp.Stop()

	if got := len(entriesOfType(t, svc, models.EntryAllowanceChange)); got != 1 {
		t.Errorf("allowance_change audit entries = %d, want 1", got)
	}
	rateAudits := entriesOfType(t, svc, models.EntryInterestRateChange)
	if len(rateAudits) != 1 {
		t.Fatalf("interest_rate_change audit entries = %d, want 1", len(rateAudits))
	}
	if !rateAudits[0].Amount.IsZero() {
		t.Errorf("audit entry amount = %s, want 0", rateAudits[0].Amount)
	}

	balance, err := svc.CurrentBalance(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !balance.IsZero() {
		t.Errorf("settings change affected balance: %s", balance)
	}
}

func TestUpdateSettings_Validation(t *testing.T) {
	svc, _, wp := newTestService(t)
	defer wp.Stop()

	neg := dec("-1")
	if _, err := svc.UpdateSettings(context.Background(), &neg, nil); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative allowance: err = %v, want ErrInvalidAmount", err)
	}

	ok := dec("5")
	if _, err := svc.UpdateSettings(context.Background(), &ok, nil); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("no account: err = %v, want ErrAccountNotFound", err)
	}
}

func TestListTransactions_NewestFirst(t *testing.T) {
	svc, store, wp := newTestService(t)
	defer wp.Stop()
	mustCreate(t, svc)

	if _, err := svc.ApplyWeeklyAllowance(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := entriesOfType(t, svc, models.EntryWeeklyAllowance)[0]
	store.SetEntryCreatedAt(first.ID, time.Now().Add(-time.Hour))

	if _, err := svc.Withdraw(context.Background(), dec("3"), "sweets"); err != nil {
		t.Fatal(err)
	}

	all, err := svc.ListTransactions(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("entries = %d, want 2", len(all))
	}
	if all[0].Type != models.EntryWithdrawal || all[1].Type != models.EntryWeeklyAllowance {
		t.Errorf("order = [%s, %s], want newest first", all[0].Type, all[1].Type)
	}
}

// Full end-to-end scenario: allowance, interest, withdrawal, failed withdrawal.
func TestScenario(t *testing.T) {
	svc, _, wp := newTestService(t)
	defer wp.Stop()
	mustCreate(t, svc)

	balance, err := svc.ApplyWeeklyAllowance(context.Background())
	if err != nil || !balance.Equal(dec("10")) {
		t.Fatalf("after allowance: balance = %s, err = %v; want 10", balance, err)
	}

	interest, balance, err := svc.ApplyMonthlyInterest(context.Background())
	if err != nil || !interest.Equal(dec("0.10")) || !balance.Equal(dec("10.10")) {
		t.Fatalf("after interest: interest = %s, balance = %s, err = %v; want 0.10, 10.10", interest, balance, err)
	}

	balance, err = svc.Withdraw(context.Background(), dec("5"), "toy")
	if err != nil || !balance.Equal(dec("5.10")) {
		t.Fatalf("after withdrawal: balance = %s, err = %v; want 5.10", balance, err)
	}

	if _, err := svc.Withdraw(context.Background(), dec("100"), "too much"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("over-withdrawal: err = %v, want ErrInsufficientFunds", err)
	}
	balance, err = svc.CurrentBalance(context.Background())
	if err != nil || !balance.Equal(dec("5.10")) {
		t.Fatalf("final balance = %s, err = %v; want 5.10", balance, err)
	}
}

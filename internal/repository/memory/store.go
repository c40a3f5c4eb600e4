// Package memory holds an in-process implementation of the repository
// contracts, used by tests and for running the API without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/baharkarakas/pocketmoney-backend/internal/models"
	"github.com/baharkarakas/pocketmoney-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu       sync.Mutex
	accounts map[string]models.Account
	entries  []models.LedgerEntry
	profiles map[string]models.Profile

	// Now is the clock used for created_at/updated_at; overridable in tests.
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]models.Account),
		profiles: make(map[string]models.Profile),
		Now:      time.Now,
	}
}

func (s *Store) Repositories() (repository.Accounts, repository.Ledger, repository.Profiles) {
	return (*accounts)(s), (*ledger)(s), (*profiles)(s)
}

// AddProfile seeds a profile row, standing in for the hosted-auth trigger
// that creates them in production.
func (s *Store) AddProfile(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}

// SetAccountCreatedAt backdates an account, for due-check tests.
func (s *Store) SetAccountCreatedAt(id string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, a := range s.accounts {
		if a.ID == id {
			a.CreatedAt = t
			s.accounts[name] = a
		}
	}
}

// SetEntryCreatedAt backdates a ledger entry, for due-check tests.
func (s *Store) SetEntryCreatedAt(entryID string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == entryID {
			s.entries[i].CreatedAt = t
		}
	}
}

type accounts Store

func (s *accounts) GetByName(_ context.Context, name string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[name]
	if !ok {
		return models.Account{}, repository.ErrNotFound
	}
	return a, nil
}

func (s *accounts) Create(_ context.Context, a models.Account) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := s.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.accounts[a.Name] = a
	return a, nil
}

func (s *accounts) UpdateSettings(_ context.Context, id string, weeklyAllowance, interestRate *decimal.Decimal) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, a := range s.accounts {
		if a.ID != id {
			continue
		}
		if weeklyAllowance != nil {
			a.WeeklyAllowance = *weeklyAllowance
		}
		if interestRate != nil {
			a.InterestRate = *interestRate
		}
		a.UpdatedAt = s.Now()
		s.accounts[name] = a
		return a, nil
	}
	return models.Account{}, repository.ErrNotFound
}

type ledger Store

func (s *ledger) ApplyEntry(_ context.Context, accountID string, newBalance decimal.Decimal, e models.LedgerEntry) (models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, a := range s.accounts {
		if a.ID != accountID {
			continue
		}
		a.CurrentBalance = newBalance
		a.UpdatedAt = s.Now()
		s.accounts[name] = a
		return s.append(accountID, e), nil
	}
	return models.LedgerEntry{}, repository.ErrNotFound
}

func (s *ledger) Insert(_ context.Context, e models.LedgerEntry) (models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.append(e.AccountID, e), nil
}

// append assumes s.mu is held.
func (s *ledger) append(accountID string, e models.LedgerEntry) models.LedgerEntry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.AccountID = accountID
	e.CreatedAt = s.Now()
	s.entries = append(s.entries, e)
	return e
}

func (s *ledger) ListByAccount(_ context.Context, accountID string, limit int) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.LedgerEntry
	for _, e := range s.entries {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	// newest first, insertion order breaking ties
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *ledger) LastByType(_ context.Context, accountID string, t models.EntryType) (models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	last := models.LedgerEntry{}
	found := false
	for _, e := range s.entries {
		if e.AccountID != accountID || e.Type != t {
			continue
		}
		if !found || !e.CreatedAt.Before(last.CreatedAt) {
			last = e
			found = true
		}
	}
	if !found {
		return models.LedgerEntry{}, repository.ErrNotFound
	}
	return last, nil
}

type profiles Store

func (s *profiles) GetByID(_ context.Context, id string) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return models.Profile{}, repository.ErrNotFound
	}
	return p, nil
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/baharkarakas/pocketmoney-backend/internal/api/httpx"
	"github.com/baharkarakas/pocketmoney-backend/internal/services"
	"github.com/shopspring/decimal"
)

// Scheduled serves the two apply-if-due endpoints and their read-only status
// probes. POST applies the payment only when due; GET never mutates.
type Scheduled struct {
	Svc *services.PocketMoneyService
}

func NewScheduled(svc *services.PocketMoneyService) *Scheduled { return &Scheduled{Svc: svc} }

type runResponse struct {
	Success        bool             `json:"success"`
	Message        string           `json:"message,omitempty"`
	Error          string           `json:"error,omitempty"`
	NewBalance     *decimal.Decimal `json:"newBalance,omitempty"`
	InterestAmount *decimal.Decimal `json:"interestAmount,omitempty"`
}

func (h *Scheduled) RunAllowance(w http.ResponseWriter, r *http.Request) {
	applied, newBalance, err := h.Svc.RunWeeklyAllowanceIfDue(r.Context())
	if err != nil {
		httpx.WriteJSON(w, http.StatusInternalServerError, runResponse{Success: false, Error: err.Error()})
		return
	}
	if !applied {
		httpx.WriteJSON(w, http.StatusOK, runResponse{Success: false, Message: "weekly allowance is not due yet"})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, runResponse{
		Success:    true,
		Message:    "weekly allowance added successfully",
		NewBalance: &newBalance,
	})
}

func (h *Scheduled) RunInterest(w http.ResponseWriter, r *http.Request) {
	applied, interest, newBalance, err := h.Svc.RunMonthlyInterestIfDue(r.Context())
	if err != nil {
		httpx.WriteJSON(w, http.StatusInternalServerError, runResponse{Success: false, Error: err.Error()})
		return
	}
	if !applied {
		httpx.WriteJSON(w, http.StatusOK, runResponse{Success: false, Message: "monthly interest is not due yet"})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, runResponse{
		Success:        true,
		Message:        "monthly interest added successfully",
		InterestAmount: &interest,
		NewBalance:     &newBalance,
	})
}

type allowanceStatus struct {
	IsDue           bool            `json:"isDue"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
	WeeklyAllowance decimal.Decimal `json:"weeklyAllowance"`
}

func (h *Scheduled) AllowanceStatus(w http.ResponseWriter, r *http.Request) {
	isDue, err := h.Svc.IsWeeklyAllowanceDue(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "backend_error", err.Error(), nil)
		return
	}
	st := allowanceStatus{IsDue: isDue}
	a, err := h.Svc.Account(r.Context())
	if err != nil && !errors.Is(err, services.ErrAccountNotFound) {
		httpx.WriteError(w, http.StatusInternalServerError, "backend_error", err.Error(), nil)
		return
	}
	if err == nil {
		st.CurrentBalance = a.CurrentBalance
		st.WeeklyAllowance = a.WeeklyAllowance
	}
	httpx.WriteJSON(w, http.StatusOK, st)
}

type interestStatus struct {
	IsDue             bool            `json:"isDue"`
	CurrentBalance    decimal.Decimal `json:"currentBalance"`
	InterestRate      decimal.Decimal `json:"interestRate"`
	PotentialInterest decimal.Decimal `json:"potentialInterest"`
}

func (h *Scheduled) InterestStatus(w http.ResponseWriter, r *http.Request) {
	isDue, err := h.Svc.IsMonthlyInterestDue(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "backend_error", err.Error(), nil)
		return
	}
	st := interestStatus{IsDue: isDue}
	a, err := h.Svc.Account(r.Context())
	if err != nil && !errors.Is(err, services.ErrAccountNotFound) {
		httpx.WriteError(w, http.StatusInternalServerError, "backend_error", err.Error(), nil)
		return
	}
	if err == nil {
		st.CurrentBalance = a.CurrentBalance
		st.InterestRate = a.InterestRate
		st.PotentialInterest = a.CurrentBalance.Mul(a.InterestRate).Round(2)
	}
	httpx.WriteJSON(w, http.StatusOK, st)
}

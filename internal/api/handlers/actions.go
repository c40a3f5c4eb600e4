package handlers

import (
	"errors"
	"net/http"

	"github.com/baharkarakas/pocketmoney-backend/internal/api/httpx"
	"github.com/baharkarakas/pocketmoney-backend/internal/api/validate"
	"github.com/baharkarakas/pocketmoney-backend/internal/services"
	"github.com/shopspring/decimal"
)

// Actions serves the parent-facing form submissions: withdraw, settings and
// the manual (non-gated) allowance/interest triggers.
type Actions struct {
	Svc *services.PocketMoneyService
}

func NewActions(svc *services.PocketMoneyService) *Actions { return &Actions{Svc: svc} }

type actionResponse struct {
	Success        bool             `json:"success"`
	Message        string           `json:"message,omitempty"`
	NewBalance     *decimal.Decimal `json:"newBalance,omitempty"`
	InterestAmount *decimal.Decimal `json:"interestAmount,omitempty"`
}

// writeServiceErr maps domain failures to 400 and backend failures to 500,
// passing the message through verbatim.
func writeServiceErr(w http.ResponseWriter, err error) {
	var be *services.BackendError
	if errors.As(err, &be) {
		httpx.WriteError(w, http.StatusInternalServerError, "backend_error", err.Error(), nil)
		return
	}
	httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
}

func (h *Actions) Withdraw(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "malformed form data", nil)
		return
	}

	var verrs validate.Errs
	amount, ferr := validate.Amount("amount", r.FormValue("amount"))
	if ferr != nil {
		verrs = append(verrs, *ferr)
	}
	if ferr := validate.Required("description", r.FormValue("description")); ferr != nil {
		verrs = append(verrs, *ferr)
	}
	if len(verrs) > 0 {
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", verrs.Error(), verrs)
		return
	}

	newBalance, err := h.Svc.Withdraw(r.Context(), amount, r.FormValue("description"))
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, actionResponse{Success: true, NewBalance: &newBalance})
}

func (h *Actions) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "malformed form data", nil)
		return
	}

	var verrs validate.Errs
	var weeklyAllowance, interestRate *decimal.Decimal

	if v := r.FormValue("weeklyAllowance"); v != "" {
		d, ferr := validate.NonNegative("weeklyAllowance", v)
		if ferr != nil {
			verrs = append(verrs, *ferr)
		} else {
			weeklyAllowance = &d
		}
	}
	if v := r.FormValue("interestRate"); v != "" {
		// submitted as a percentage, stored as a decimal rate
		d, ferr := validate.NonNegative("interestRate", v)
		if ferr != nil {
			verrs = append(verrs, *ferr)
		} else {
			rate := d.Div(decimal.NewFromInt(100))
			interestRate = &rate
		}
	}
	if len(verrs) > 0 {
		httpx.WriteError(w, http.StatusBadRequest, "validation_error", verrs.Error(), verrs)
		return
	}

	if _, err := h.Svc.UpdateSettings(r.Context(), weeklyAllowance, interestRate); err != nil {
		writeServiceErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, actionResponse{Success: true, Message: "settings updated successfully"})
}

// AddAllowance is the manual trigger: no due gate, the parent decides.
func (h *Actions) AddAllowance(w http.ResponseWriter, r *http.Request) {
	newBalance, err := h.Svc.ApplyWeeklyAllowance(r.Context())
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, actionResponse{
		Success:    true,
		Message:    "weekly allowance added successfully",
		NewBalance: &newBalance,
	})
}

// AddInterest is the manual trigger: no due gate, the parent decides.
func (h *Actions) AddInterest(w http.ResponseWriter, r *http.Request) {
	interest, newBalance, err := h.Svc.ApplyMonthlyInterest(r.Context())
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, actionResponse{
		Success:        true,
		Message:        "monthly interest added successfully",
		NewBalance:     &newBalance,
		InterestAmount: &interest,
	})
}

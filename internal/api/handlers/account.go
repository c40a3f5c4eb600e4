package handlers

import (
	"net/http"
	"strconv"

	"github.com/baharkarakas/pocketmoney-backend/internal/api/httpx"
	"github.com/baharkarakas/pocketmoney-backend/internal/services"
)

// Account serves the page-load reads: the account itself and its ledger.
type Account struct {
	Svc *services.PocketMoneyService
}

func NewAccount(svc *services.PocketMoneyService) *Account { return &Account{Svc: svc} }

// Get returns the child account, creating it on first call so the front end
// always has something to render.
func (h *Account) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.Svc.GetOrCreate(r.Context())
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a)
}

func (h *Account) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	entries, err := h.Svc.ListTransactions(r.Context(), limit)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, entries)
}

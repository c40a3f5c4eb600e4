package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/pocketmoney-backend/internal/api/handlers"
	"github.com/baharkarakas/pocketmoney-backend/internal/config"
	"github.com/baharkarakas/pocketmoney-backend/internal/metrics"
	"github.com/baharkarakas/pocketmoney-backend/internal/middleware"
	"github.com/baharkarakas/pocketmoney-backend/internal/models"
	"github.com/baharkarakas/pocketmoney-backend/internal/services"
)

func NewRouter(cfg config.Config, svc *services.PocketMoneyService, sm *middleware.SessionMiddleware) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		sched := handlers.NewScheduled(svc)

		// ---------- scheduled payments ----------
		// GET is a read-only probe; POST applies only when due and is meant
		// for the external scheduler, hence the service key.
		r.Route("/allowance", func(r chi.Router) {
			r.Get("/status", sched.AllowanceStatus)
			r.With(middleware.ServiceKey(cfg.ServiceKey)).Post("/run", sched.RunAllowance)
		})
		r.Route("/interest", func(r chi.Router) {
			r.Get("/status", sched.InterestStatus)
			r.With(middleware.ServiceKey(cfg.ServiceKey)).Post("/run", sched.RunInterest)
		})

		// ---------- reads ----------
		acct := handlers.NewAccount(svc)
		r.Get("/account", acct.Get)
		r.Get("/transactions", acct.ListTransactions)

		// ---------- parent actions ----------
		act := handlers.NewActions(svc)
		r.Route("/actions", func(r chi.Router) {
			r.Use(sm.Auth, middleware.RequireRole(models.RoleParent))
			r.Post("/withdraw", act.Withdraw)
			r.Post("/settings", act.UpdateSettings)
			r.Post("/allowance", act.AddAllowance)
			r.Post("/interest", act.AddInterest)
		})
	})

	return r
}

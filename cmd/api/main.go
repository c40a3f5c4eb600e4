package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/pocketmoney-backend/internal/api"
	"github.com/baharkarakas/pocketmoney-backend/internal/auth"
	"github.com/baharkarakas/pocketmoney-backend/internal/config"
	"github.com/baharkarakas/pocketmoney-backend/internal/db"
	"github.com/baharkarakas/pocketmoney-backend/internal/logger"
	"github.com/baharkarakas/pocketmoney-backend/internal/metrics"
	"github.com/baharkarakas/pocketmoney-backend/internal/middleware"
	"github.com/baharkarakas/pocketmoney-backend/internal/repository/postgres"
	"github.com/baharkarakas/pocketmoney-backend/internal/services"
	"github.com/baharkarakas/pocketmoney-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(2)
	defer wp.Stop()

	svc := services.NewPocketMoneyService(
		repos.Accounts,
		repos.Ledger,
		wp,
		cfg.ChildName,
		cfg.DefaultWeeklyAllowance,
		cfg.DefaultInterestRate,
	)

	tm := auth.NewTokenManager(cfg.AuthJWTSecret, time.Hour)
	sm := middleware.NewSessionMiddleware(tm, repos.Profiles)

	metrics.Init()
	r := api.NewRouter(cfg, svc, sm)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "child", cfg.ChildName)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

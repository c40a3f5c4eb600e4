// The scheduler is the explicit external timer for recurring payments: it
// periodically POSTs the apply-if-due endpoints and lets the domain service
// decide whether anything is actually due. Running several copies is safe;
// the due checks make the runs idempotent.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/baharkarakas/pocketmoney-backend/internal/config"
	"github.com/baharkarakas/pocketmoney-backend/internal/logger"
)

type runResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("scheduler starting", "api", cfg.APIBaseURL, "interval", cfg.SchedulerInterval)

	client := &http.Client{Timeout: 30 * time.Second}

	g, ctx := errgroup.WithContext(ctx)
	for _, kind := range []string{"allowance", "interest"} {
		kind := kind
		g.Go(func() error {
			return runLoop(ctx, client, cfg, kind)
		})
	}
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Error("scheduler", "err", err)
	}
	log.Info("scheduler stopped")
}

func runLoop(ctx context.Context, client *http.Client, cfg config.Config, kind string) error {
	// fire once at startup, then on every tick
	trigger(ctx, client, cfg, kind)

	ticker := time.NewTicker(cfg.SchedulerInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			trigger(ctx, client, cfg, kind)
		}
	}
}

func trigger(ctx context.Context, client *http.Client, cfg config.Config, kind string) {
	url := fmt.Sprintf("%s/api/v1/%s/run", cfg.APIBaseURL, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		slog.Error("build request", "kind", kind, "err", err)
		return
	}
	if cfg.ServiceKey != "" {
		req.Header.Set("X-Service-Key", cfg.ServiceKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("trigger failed", "kind", kind, "err", err)
		return
	}
	defer resp.Body.Close()

	var res runResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		slog.Warn("decode response", "kind", kind, "status", resp.StatusCode, "err", err)
		return
	}
	switch {
	case res.Success:
		slog.Info("payment applied", "kind", kind)
	case res.Error != "":
		slog.Warn("trigger error", "kind", kind, "status", resp.StatusCode, "err", res.Error)
	default:
		slog.Debug("not due", "kind", kind, "message", res.Message)
	}
}

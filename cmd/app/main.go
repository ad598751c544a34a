package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cricket_go/internal/advisor"
	"cricket_go/internal/app"
	"cricket_go/internal/domain"
	"cricket_go/internal/engine"
	"cricket_go/internal/infra"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	configPath := os.Getenv("CRICKET_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(configPath); err != nil {
		slog.Error("Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Sequencer (The Hotpath Loop). It runs on its own context so the
	// final ledger persist can still go through the loop after the signal.
	runCtx, stopRun := context.WithCancel(context.Background())
	defer stopRun()
	seq := engine.NewSequencer(1024, bootstrap.Settings, bootstrap.Ledger,
		bootstrap.Store, time.Now().UnixNano())
	go seq.Run(runCtx)
	slog.Info("Sequencer (Hotpath) started")

	if err := bootstrap.Store.SaveSettings(bootstrap.Settings); err != nil {
		slog.Warn("Failed to persist settings", slog.Any("error", err))
	}

	// 5. Start the match
	if err := seq.StartMatch(ctx); err != nil {
		slog.Error("Failed to start match", slog.Any("error", err))
		os.Exit(1)
	}

	// 6. Advisor polling (outside the hotpath, snapshot-driven)
	cfg := bootstrap.Config
	if cfg.Advisor.Enabled {
		client := advisor.NewClient(cfg.Advisor.URL,
			time.Duration(cfg.Advisor.TimeoutSec)*time.Second)
		go pollAdvisor(ctx, seq, client,
			time.Duration(cfg.Advisor.PollIntervalSec)*time.Second)
	}

	slog.Info("Cricket Exchange fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	// Final ledger persist before stopping the loop.
	flushCtx, cancelFlush := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelFlush()
	if snap, err := seq.Snapshot(flushCtx); err != nil {
		slog.Warn("Skipping final ledger persist", slog.Any("error", err))
	} else if err := bootstrap.Store.SaveLedger(snap.Ledger); err != nil {
		slog.Warn("Failed to persist ledger on shutdown", slog.Any("error", err))
	}
	stopRun()

	slog.Info("Shutting down gracefully...",
		slog.Uint64("balls", infra.GlobalMetrics.Snapshot().BallsSimulated),
		slog.Uint64("trades", infra.GlobalMetrics.Snapshot().TradesExecuted))
}

// pollAdvisor periodically hands the advisory service a snapshot and logs
// what comes back. Failures surface as an empty suggestion set and a notice;
// they never touch matching or simulation state.
func pollAdvisor(ctx context.Context, seq *engine.Sequencer, client *advisor.Client, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		snap, err := seq.Snapshot(ctx)
		if err != nil {
			return
		}
		if snap.Status != domain.MatchInProgress {
			continue
		}

		suggestions, err := client.Suggest(ctx, snap)
		if err != nil {
			slog.Warn("Advisor unavailable, no suggestions this round", slog.Any("error", err))
			continue
		}
		for _, s := range suggestions {
			slog.Info("Advisor suggestion",
				slog.String("market", s.Market),
				slog.String("side", s.Side),
				slog.Int64("price", s.Price),
				slog.Int64("volume", s.Volume),
				slog.Float64("confidence", s.Confidence),
				slog.String("rationale", s.Rationale))
		}
	}
}

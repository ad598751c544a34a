package app

import (
	"log/slog"

	"cricket_go/internal/domain"
	"cricket_go/internal/infra"
	"cricket_go/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config   *infra.Config
	Store    *storage.Store
	Settings domain.SimulationSettings
	Ledger   domain.LedgerState
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization: config, logger, storage,
// and restore of the state that survives restarts (settings, positions,
// PnL). Books, trades and match state always start empty.
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("Bootstrapping Cricket Exchange...")

	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg.Logging.Level)
	slog.SetDefault(logger)

	// 3. Initialize Storage (DB)
	store, err := storage.NewStore(cfg.Storage.Path)
	if err != nil {
		return err
	}
	b.Store = store
	slog.Info("Database initialized")

	// 4. Restore persisted state. Persisted settings win over the config
	// file if they still validate; the ledger picks up where it left off.
	b.Settings = cfg.Simulation
	if saved, err := store.LoadSettings(); err != nil {
		slog.Warn("Ignoring persisted settings", slog.Any("error", err))
	} else if saved != nil {
		if err := saved.Validate(); err != nil {
			slog.Warn("Persisted settings no longer valid, using config", slog.Any("error", err))
		} else {
			b.Settings = *saved
		}
	}

	ledger, err := store.LoadLedger()
	if err != nil {
		return err
	}
	b.Ledger = ledger
	slog.Info("Persisted state restored")

	return nil
}

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cricket_go/internal/domain"
)

const settingsKey = "simulation_settings"

// Store persists the state that must survive a restart: simulation settings,
// positions and PnL. Order books, trade history and in-progress match state
// are intentionally transient and never written here.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new SQLite store. An empty path resolves to a per-user
// default location.
func NewStore(path string) (*Store, error) {
	dbPath := path
	if dbPath == "" {
		var err error
		dbPath, err = defaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.PositionRecord{}, &domain.AppConfig{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// defaultDBPath resolves the database file path based on OS
func defaultDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "CricketExchange", "data", "exchange.db"), nil
}

// SaveLedger upserts the position and PnL rows for every market.
func (s *Store) SaveLedger(st domain.LedgerState) error {
	for _, id := range domain.MarketIDs() {
		pnl := st.PnL[id]
		rec := domain.PositionRecord{
			Market:     string(id),
			Volume:     st.Positions[id],
			Realized:   pnl.Realized.String(),
			Unrealized: pnl.Unrealized.String(),
		}
		if err := s.db.Save(&rec).Error; err != nil {
			return fmt.Errorf("failed to save position %s: %w", id, err)
		}
	}
	return nil
}

// LoadLedger reads back the persisted ledger. Markets with no row start flat.
func (s *Store) LoadLedger() (domain.LedgerState, error) {
	st := domain.NewLedgerState()

	var records []domain.PositionRecord
	if err := s.db.Find(&records).Error; err != nil {
		return st, fmt.Errorf("failed to load positions: %w", err)
	}

	for _, rec := range records {
		id := domain.MarketID(rec.Market)
		if _, ok := domain.Markets[id]; !ok {
			continue // stale row from an older market set
		}

		realized, err := decimal.NewFromString(rec.Realized)
		if err != nil {
			return st, fmt.Errorf("corrupt realized pnl for %s: %w", id, err)
		}
		unrealized, err := decimal.NewFromString(rec.Unrealized)
		if err != nil {
			return st, fmt.Errorf("corrupt unrealized pnl for %s: %w", id, err)
		}

		st.Positions[id] = rec.Volume
		st.PnL[id] = domain.PnL{Realized: realized, Unrealized: unrealized}
	}

	return st, nil
}

// SaveSettings stores the current simulation settings.
func (s *Store) SaveSettings(settings domain.SimulationSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	rec := domain.AppConfig{Key: settingsKey, Value: string(data)}
	return s.db.Save(&rec).Error
}

// LoadSettings returns the persisted settings, or nil if none were saved.
func (s *Store) LoadSettings() (*domain.SimulationSettings, error) {
	var rec domain.AppConfig
	err := s.db.First(&rec, "key = ?", settingsKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	if err != nil {
		return nil, err
	}

	var settings domain.SimulationSettings
	if err := json.Unmarshal([]byte(rec.Value), &settings); err != nil {
		return nil, fmt.Errorf("corrupt persisted settings: %w", err)
	}
	return &settings, nil
}

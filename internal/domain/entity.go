package domain

import (
	"time"
)

// PositionRecord is the persisted form of one market's position and PnL.
// Decimals are stored as strings to avoid float drift in SQLite.
type PositionRecord struct {
	Market     string    `gorm:"primaryKey" json:"market"`
	Volume     int64     `json:"volume"`
	Realized   string    `json:"realized"`
	Unrealized string    `json:"unrealized"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AppConfig represents user-specific configuration (Key-Value)
type AppConfig struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

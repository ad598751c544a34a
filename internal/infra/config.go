package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"cricket_go/internal/domain"
)

// Config holds everything the application reads at startup. Simulation
// settings loaded here are only the initial set; runtime updates go through
// the sequencer and are validated the same way.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Simulation domain.SimulationSettings `yaml:"simulation"`

	Advisor struct {
		Enabled         bool   `yaml:"enabled"`
		URL             string `yaml:"url"`
		TimeoutSec      int    `yaml:"timeout_sec"`
		PollIntervalSec int    `yaml:"poll_interval_sec"`
	} `yaml:"advisor"`

	Storage struct {
		Path string `yaml:"path"` // empty: per-user default location
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file, applies environment
// overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return err
	}

	if c.Advisor.Enabled {
		if !strings.HasPrefix(c.Advisor.URL, "ws://") && !strings.HasPrefix(c.Advisor.URL, "wss://") {
			return fmt.Errorf("invalid advisor URL: %s", c.Advisor.URL)
		}
		if c.Advisor.TimeoutSec <= 0 {
			return fmt.Errorf("advisor timeout must be positive")
		}
		if c.Advisor.PollIntervalSec <= 0 {
			return fmt.Errorf("advisor poll interval must be positive")
		}
	}

	return nil
}

// overrideWithEnv overrides configuration values from the environment when
// present.
func overrideWithEnv(cfg *Config) {
	if url := os.Getenv("CRICKET_ADVISOR_URL"); url != "" {
		cfg.Advisor.URL = url
		cfg.Advisor.Enabled = true
	}
	if path := os.Getenv("CRICKET_STORAGE_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if level := os.Getenv("CRICKET_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if interval := os.Getenv("CRICKET_BALL_INTERVAL_SEC"); interval != "" {
		if v, err := strconv.ParseFloat(interval, 64); err == nil {
			cfg.Simulation.BallIntervalSec = v
		}
	}
}

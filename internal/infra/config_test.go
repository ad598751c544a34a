package infra

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfigYAML = `
app:
  name: "CricketExchange"
  version: "1.0.0"

simulation:
  ball_interval_sec: 2.5
  probabilities:
    dots: 30
    singles: 35
    doubles: 10
    triples: 1
    fours: 10
    sixes: 5
    wickets: 5
    wides: 2
    no_balls: 2

advisor:
  enabled: false
  url: "ws://localhost:8090/suggest"
  timeout_sec: 5
  poll_interval_sec: 15

storage:
  path: ""

logging:
  level: "info"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.App.Name != "CricketExchange" {
		t.Errorf("app name = %q", cfg.App.Name)
	}
	if cfg.Simulation.BallIntervalSec != 2.5 {
		t.Errorf("ball interval = %v, want 2.5", cfg.Simulation.BallIntervalSec)
	}
	if got := cfg.Simulation.Probabilities.Sum(); got.IntPart() != 100 {
		t.Errorf("probability sum = %s, want 100", got)
	}
	if cfg.Advisor.Enabled {
		t.Error("advisor should be disabled by default")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CRICKET_BALL_INTERVAL_SEC", "4")
	t.Setenv("CRICKET_ADVISOR_URL", "wss://advisor.example.com/suggest")
	t.Setenv("CRICKET_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(writeConfig(t, validConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Simulation.BallIntervalSec != 4 {
		t.Errorf("ball interval = %v, want env override 4", cfg.Simulation.BallIntervalSec)
	}
	if !cfg.Advisor.Enabled || cfg.Advisor.URL != "wss://advisor.example.com/suggest" {
		t.Errorf("advisor = %+v, want enabled with env URL", cfg.Advisor)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadConfig_RejectsBadSimulationSettings(t *testing.T) {
	body := strings.Replace(validConfigYAML, "ball_interval_sec: 2.5", "ball_interval_sec: 0.2", 1)
	if _, err := LoadConfig(writeConfig(t, body)); err == nil {
		t.Fatal("expected validation error for sub-second interval")
	}
}

func TestLoadConfig_RejectsBadAdvisorURL(t *testing.T) {
	body := strings.Replace(validConfigYAML, "enabled: false", "enabled: true", 1)
	body = strings.Replace(body, `url: "ws://localhost:8090/suggest"`, `url: "http://localhost:8090/suggest"`, 1)
	if _, err := LoadConfig(writeConfig(t, body)); err == nil {
		t.Fatal("expected validation error for non-websocket advisor URL")
	}
}

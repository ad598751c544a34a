package infra

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const logDir = "logs"

// NewLogger builds the process-wide JSON logger: stdout plus a rotated file
// under logs/. A ball every few seconds and a line per order keeps the volume
// low, so rotation is sized for long-running processes, not throughput.
func NewLogger(level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		// No log directory: stderr only rather than failing startup.
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}

	rotated := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "exchange.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	return slog.New(slog.NewJSONHandler(io.MultiWriter(os.Stdout, rotated), opts))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// CheckDebug reports whether FITCHAT_DEBUG is enabled.
func CheckDebug() bool {
	debug := os.Getenv(EnvDebug)
	return debug == "true" || debug == "1"
}

// ParseLevel maps a level name to a slog level; unknown names are info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the application logger. Records go to console and, when
// logging.file is set, to a size-rotated file. FITCHAT_DEBUG forces debug level.
// The returned function closes the log file.
func NewLogger(cfg LoggingConfig, console io.Writer) (*slog.Logger, func()) {
	level := ParseLevel(cfg.Level)
	if CheckDebug() {
		level = slog.LevelDebug
	}

	writers := []io.Writer{console}
	cleanup := func() {}

	if cfg.File != "" {
		l := &lumberjack.Logger{
			Filename:   ExpandPath(cfg.File),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		writers = append(writers, l)
		cleanup = func() { _ = l.Close() }
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: level})
	return slog.New(handler), cleanup
}

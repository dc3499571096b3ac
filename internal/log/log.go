// Package log owns the process-wide slog configuration for the voicelink
// commands. Library packages take a *slog.Logger instead of importing this.
package log

import (
	"log/slog"
	"os"
	"sync"
)

var (
	logger *slog.Logger
	once   sync.Once
)

// Init configures the global logger. The first call wins; later calls are
// no-ops so subcommands can Init unconditionally.
func Init(level string) {
	once.Do(func() {
		opts := &slog.HandlerOptions{Level: parseLevel(level)}

		// JSON when deployed, text on a terminal.
		var h slog.Handler
		if os.Getenv("GO_ENV") == "production" {
			h = slog.NewJSONHandler(os.Stdout, opts)
		} else {
			h = slog.NewTextHandler(os.Stdout, opts)
		}

		logger = slog.New(h)
		slog.SetDefault(logger)
	})
}

// parseLevel maps a config string to a slog level. Unknown strings mean
// info rather than an error; logging must not block startup.
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

// L returns the global logger, initializing it at info level if Init has
// not run yet.
func L() *slog.Logger {
	if logger == nil {
		Init("info")
	}
	return logger
}

// Warn logs at warn level on the global logger.
func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

// Package logging настраивает цветной структурированный вывод slog через tint.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup делает tint-логгер с уровнем level логгером по умолчанию
func Setup(level string) *slog.Logger {
	logger := New(os.Stderr, ParseLevel(level))
	slog.SetDefault(logger)
	return logger
}

// New создает логгер, пишущий в w
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    w != os.Stderr && w != os.Stdout,
	}))
}

// ParseLevel переводит debug, info, warn, error в slog.Level (по умолчанию info)
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

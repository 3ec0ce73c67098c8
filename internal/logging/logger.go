package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/i474232898/weather-dashboard/internal/config"
)

// New builds the process logger on w. Dev gets tint's console handler,
// colored only when w is a terminal; any other env gets JSON.
// Source locations are attached at debug level.
func New(w io.Writer, cfg *config.AppConfig, appName string) *slog.Logger {
	withSource := cfg.LogLevel <= slog.LevelDebug

	var h slog.Handler
	if cfg.AppEnv == "dev" {
		h = tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  withSource,
			TimeFormat: time.TimeOnly,
			NoColor:    !isTerminal(w),
		})
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     cfg.LogLevel,
			AddSource: withSource,
		})
	}

	return slog.New(h).With(
		"app", appName,
		"env", cfg.AppEnv,
	)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

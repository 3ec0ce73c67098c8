package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when WEATHERAPI_API_KEY is not set.
var ErrMissingAPIKey = errors.New("WEATHERAPI_API_KEY is required")

var validate = validator.New()

type AppConfig struct {
	AppEnv   string `validate:"oneof=dev prod"`
	LogLevel slog.Level
	Port     string `validate:"required,numeric"`

	WeatherAPIKey     string `validate:"required"`
	WeatherAPIBaseURL string `validate:"required,url"`
	WeatherLang       string `validate:"required"`

	// ForecastDays is how many days each snapshot carries.
	ForecastDays int `validate:"min=1,max=10"`

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// Geolocation.
	GeoTimeout          time.Duration `validate:"gt=0"`
	GeoLookupURL        string        `validate:"omitempty,url"` // empty disables server-side lookup
	GeoFallbackEnabled  bool
	GeoFallbackLocation string `validate:"required_if=GeoFallbackEnabled true"`

	// RefreshInterval re-fetches the selection periodically (0 = off).
	RefreshInterval time.Duration `validate:"gte=0"`
}

// Load reads configuration from environment (and .env when present) with
// sensible defaults. A missing API key is a startup error.
func Load() (*AppConfig, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := &AppConfig{}

	cfg.AppEnv = getenvDefault("APP_ENV", "dev")

	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level
	cfg.Port = getenvDefault("PORT", "8080")

	cfg.WeatherAPIKey = strings.TrimSpace(os.Getenv("WEATHERAPI_API_KEY"))
	if cfg.WeatherAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg.WeatherAPIBaseURL = getenvDefault("WEATHERAPI_BASE_URL", "https://api.weatherapi.com/v1")
	cfg.WeatherLang = getenvDefault("WEATHER_LANG", "uk")

	days, err := getenvInt("FORECAST_DAYS", 5)
	if err != nil {
		return nil, err
	}
	cfg.ForecastDays = days

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.GeoTimeout, err = getenvDuration("GEO_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0s"); err != nil {
		return nil, err
	}

	cfg.GeoLookupURL = getenvDefault("GEO_LOOKUP_URL", "http://ip-api.com/json")
	if v, ok := os.LookupEnv("GEO_LOOKUP_URL"); ok && strings.TrimSpace(v) == "" {
		cfg.GeoLookupURL = ""
	}

	if cfg.GeoFallbackEnabled, err = getenvBool("GEO_FALLBACK_ENABLED", true); err != nil {
		return nil, err
	}
	cfg.GeoFallbackLocation = getenvDefault("GEO_FALLBACK_LOCATION", "Kyiv")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

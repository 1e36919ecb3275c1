package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr          = ":8080"
	defaultShutdownTimeout   = 10 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultWriteTimeout      = 15 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultLogLevel          = "info"
	defaultEnvironment       = "production"
	defaultTimezone          = "UTC"
	defaultSummaryCacheTTL   = 30 * time.Second
	// One leap year of days.
	defaultMaxWindow = 366 * 24 * time.Hour
)

type Config struct {
	HTTPAddr          string
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	LogLevel          string
	Environment       string
	// DBPath selects the SQLite store; empty keeps events in memory.
	DBPath          string
	Timezone        string
	Location        *time.Location
	SummaryCacheTTL time.Duration
	MaxWindow       time.Duration
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	cfg := Config{
		HTTPAddr:          defaultHTTPAddr,
		ShutdownTimeout:   defaultShutdownTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		LogLevel:          defaultLogLevel,
		Environment:       defaultEnvironment,
		Timezone:          defaultTimezone,
		SummaryCacheTTL:   defaultSummaryCacheTTL,
		MaxWindow:         defaultMaxWindow,
	}

	if v := readEnv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout},
		{"READ_HEADER_TIMEOUT", &cfg.ReadHeaderTimeout},
		{"WRITE_TIMEOUT", &cfg.WriteTimeout},
		{"IDLE_TIMEOUT", &cfg.IdleTimeout},
		{"SUMMARY_CACHE_TTL", &cfg.SummaryCacheTTL},
		{"MAX_WINDOW", &cfg.MaxWindow},
	}
	for _, d := range durations {
		v, ok, err := readDurationEnv(d.key)
		if err != nil {
			return Config{}, err
		}
		if ok {
			*d.target = v
		}
	}

	if v := readEnv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if v := readEnv("ENV"); v != "" {
		cfg.Environment = strings.ToLower(v)
	}

	switch cfg.Environment {
	case "production", "development", "test":
	default:
		return Config{}, fmt.Errorf("%s must be one of: production, development, test", envKey("ENV"))
	}

	cfg.DBPath = readEnv("DB_PATH")

	if v := readEnv("TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", envKey("TIMEZONE"), err)
	}
	cfg.Location = loc

	return cfg, nil
}

func envKey(name string) string {
	return "BABYLOG_" + name
}

func readEnv(name string) string {
	return strings.TrimSpace(os.Getenv(envKey(name)))
}

func readDurationEnv(name string) (time.Duration, bool, error) {
	v := readEnv(name)
	if v == "" {
		return 0, false, nil
	}

	key := envKey(name)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, false, fmt.Errorf("%s must be positive", key)
	}

	return d, true, nil
}

package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "babylog"

// New builds the service logger. Extra options, such as zap.Hooks feeding
// metrics, are applied after the environment defaults.
func New(environment, level string, opts ...zap.Option) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch environment {
	case "production":
		cfg = zap.NewProductionConfig()
	case "test":
		cfg = zap.NewProductionConfig()
		// Tests assert on exact entry counts.
		cfg.Sampling = nil
	case "development":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unsupported environment: %s", environment)
	}

	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.InitialFields = map[string]any{"service": serviceName}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if environment != "development" {
		cfg.DisableStacktrace = true
	}

	return cfg.Build(opts...)
}

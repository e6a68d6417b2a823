package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"leavedesk/internal/platform/config"
)

// New builds the process logger: JSON in production, console otherwise.
// It also replaces zap's globals so packages using zap.L() share it.
func New(cfg config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	log, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}

// Named returns a child of the first non-nil logger, or of zap.L().
func Named(name string, loggers ...*zap.Logger) *zap.Logger {
	if len(loggers) > 0 && loggers[0] != nil {
		return loggers[0].Named(name)
	}
	return zap.L().Named(name)
}

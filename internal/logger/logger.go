// Package logger provides structured logging with zap.
package logger

import "go.uber.org/zap"

// New creates a new zap.Logger depending on the environment. Builder failures
// fall back to a no-op logger so startup never stalls on logging.
func New(env string) *zap.Logger {
	build := zap.NewDevelopment
	if env == "production" {
		build = zap.NewProduction
	}
	logger, err := build()
	if err != nil {
		return zap.NewNop()
	}
	return logger.Named("recordbook")
}

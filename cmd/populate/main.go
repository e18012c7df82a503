package main

import (
	"os"

	"go.uber.org/zap"
)

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("populate failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

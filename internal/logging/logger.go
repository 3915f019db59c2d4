package logging

import (
	"go.uber.org/zap"
)

// NewLogger builds the process logger: human-readable in development,
// JSON everywhere else.
func NewLogger(environment string) *zap.Logger {
	if environment == "development" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return logger
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger
}

package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the application logger. Production config except in "local",
// which gets the development console encoder.
func New(env string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if env == "local" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

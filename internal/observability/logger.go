// Package observability provides structured logging and formatted
// output utilities for verbose CLI mode.
package observability

import (
	"strings"

	"go.uber.org/zap"
)

// NewLogger builds a zap logger for the given mode. "prod" or
// "production" selects JSON output; anything else selects the
// human-readable development encoder.
func NewLogger(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}

// Package logging builds the zap logger used across the application.
package logging

import "go.uber.org/zap"

// NewLogger returns a zap logger writing to output ("stderr", "stdout" or a
// file path). When debug is true, uses development config (human-readable,
// debug level); otherwise uses production config (JSON, info level).
func NewLogger(debug bool, output string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	if output != "" {
		cfg.OutputPaths = []string{output}
		cfg.ErrorOutputPaths = []string{output}
	}
	return cfg.Build()
}

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/finance-flags/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LoggingConfig
		override  string
		expected  zapcore.Level
		expectErr bool
	}{
		{name: "default info", cfg: config.LoggingConfig{}, expected: zapcore.InfoLevel},
		{name: "config debug", cfg: config.LoggingConfig{Level: "debug"}, expected: zapcore.DebugLevel},
		{name: "override wins", cfg: config.LoggingConfig{Level: "debug"}, override: "error", expected: zapcore.ErrorLevel},
		{name: "warning alias", cfg: config.LoggingConfig{Level: "warning"}, expected: zapcore.WarnLevel},
		{name: "console format", cfg: config.LoggingConfig{Format: "console"}, expected: zapcore.InfoLevel},
		{name: "invalid level", cfg: config.LoggingConfig{Level: "verbose"}, expectErr: true},
		{name: "invalid format", cfg: config.LoggingConfig{Format: "xml"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg, tt.override)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if !logger.Core().Enabled(tt.expected) {
				t.Errorf("expected level %s to be enabled", tt.expected)
			}
			if tt.expected > zapcore.DebugLevel && logger.Core().Enabled(tt.expected-1) {
				t.Errorf("expected level %s to be disabled", tt.expected-1)
			}
		})
	}
}

func TestNewOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "flags.log")

	logger, err := New(config.LoggingConfig{Level: "info", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("financial flags evaluated", zap.String("op", "logging.Test"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "financial flags evaluated") {
		t.Errorf("expected log line in file, got %q", string(data))
	}
}

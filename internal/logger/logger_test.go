package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewProductionLogger(t *testing.T) {
	t.Parallel()

	log, err := NewProductionLogger(false)
	if err != nil {
		t.Fatalf("NewProductionLogger() error: %v", err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("production logger should not emit debug by default")
	}
	if !log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("production logger should emit info")
	}
}

func TestNewDevelopmentLogger(t *testing.T) {
	t.Parallel()

	log, err := NewDevelopmentLogger(true)
	if err != nil {
		t.Fatalf("NewDevelopmentLogger() error: %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("development logger with debug enabled should emit debug")
	}
}

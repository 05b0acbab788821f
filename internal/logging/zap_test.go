package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	if parseLevel("debug") != zapcore.DebugLevel {
		t.Fatalf("expected debug level")
	}
	if parseLevel("bogus") != zapcore.InfoLevel {
		t.Fatalf("expected info fallback")
	}
}

func TestNewRespectsLevel(t *testing.T) {
	logger := New("warn")
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info should be disabled at warn")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("error should be enabled at warn")
	}

	dev := NewDevelopment("debug")
	if !dev.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug should be enabled")
	}
}

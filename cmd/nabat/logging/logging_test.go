package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	l, err := New(false)
	if err != nil {
		t.Fatal(err)
	}

	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug enabled without verbose")
	}

	l, err = New(true)
	if err != nil {
		t.Fatal(err)
	}

	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug disabled with verbose")
	}
}

func TestLogger(t *testing.T) {
	if Logger() != Logger() {
		t.Error("expected a single logger")
	}
}

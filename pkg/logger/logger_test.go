package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tc := range tests {
		l, err := New(tc.level)
		if err != nil {
			t.Fatalf("New(%q) error: %v", tc.level, err)
		}
		if !l.Core().Enabled(tc.want) {
			t.Errorf("New(%q) does not enable %v", tc.level, tc.want)
		}
		if tc.want > zapcore.DebugLevel && l.Core().Enabled(tc.want-1) {
			t.Errorf("New(%q) enables lower level %v", tc.level, tc.want-1)
		}
	}

	if _, err := New("loud"); err == nil {
		t.Error(`New("loud") expected error`)
	}
}

package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("dev environment", func(t *testing.T) {
		l, err := New(EnvDevelopment, LevelDebug)

		require.NoError(t, err)
		require.NotNil(t, l)
	})

	t.Run("prod environment", func(t *testing.T) {
		l, err := New(EnvProduction, LevelInfo)

		require.NoError(t, err)
		require.NotNil(t, l)
	})

	t.Run("unknown environment fail", func(t *testing.T) {
		_, err := New("staging", LevelInfo)

		require.Error(t, err)
	})
}

func TestParseLevelString(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			require.Equal(t, tt.want, parseLevelString(tt.level))
		})
	}
}

func TestNoOpLogger(t *testing.T) {
	l := NewNoOpLogger()

	// Should not panic and not write anywhere
	l.Debug("msg")
	l.Info("msg", "key", "value")
	l.Warn("msg")
	l.Error("msg")
	l.With("key", "value").Info("msg")
	l.WithGroup("group").Info("msg")
}

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		encoding string
		enabled  zapcore.Level
		disabled zapcore.Level
	}{
		{name: "info json", level: "info", encoding: "json", enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel},
		{name: "debug console", level: "debug", encoding: "", enabled: zapcore.DebugLevel, disabled: zapcore.DebugLevel - 1},
		{name: "unknown level falls back to info", level: "loud", encoding: "json", enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel},
		{name: "warn console", level: "warn", encoding: "console", enabled: zapcore.WarnLevel, disabled: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.level, tt.encoding)
			require.NoError(t, err)
			require.NotNil(t, log)

			assert.True(t, log.Core().Enabled(tt.enabled))
			assert.False(t, log.Core().Enabled(tt.disabled))
		})
	}
}

package util

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name       string
		level      LogLevel
		format     LogFormat
		wantErr    bool
		structured bool
	}{
		{"debug structured", LogLevelDebug, LogFormatStructured, false, true},
		{"info console", LogLevelInfo, LogFormatConsole, false, false},
		{"upper case", "WARN", "Console", false, false},
		{"bad level", "verbose", LogFormatConsole, true, false},
		{"bad format", LogLevelInfo, "xml", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(tt.level, tt.format, &buf)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, logger)
				return
			}
			require.NoError(t, err)

			logger.Error("probe target unreadable")
			require.NoError(t, logger.Sync())

			line := bytes.TrimSpace(buf.Bytes())
			require.NotEmpty(t, line)
			assert.Contains(t, string(line), "probe target unreadable")
			assert.Equal(t, tt.structured, json.Valid(line))
		})
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LogLevelWarn, LogFormatConsole, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

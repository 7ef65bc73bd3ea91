package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeLogMessage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"password", "login password=hunter2 ok", "login password=[REDACTED] ok"},
		{"bearer", "header bearer abc.def.ghi", "header bearer=[REDACTED]"},
		{"secret", "secret: s3cr3t", "secret=[REDACTED]"},
		{"token assignment", "retry with token=abc.def", "retry with token=[REDACTED]"},
		{"jwt colon", "jwt:abc.def.ghi sent", "jwt=[REDACTED] sent"},
		{"token prose", "failed to parse token: token is expired", "failed to parse token: token is expired"},
		{"clean", "role user denied", "role user denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeLogMessage(tt.input))
		})
	}
}

func TestJSONLoggerKeepsOrdinaryText(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", FormatJSON)

	log.Debug("token rejected", slog.String("error", "failed to parse token: token is expired"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "token rejected", entry[slog.MessageKey])
	assert.Equal(t, "failed to parse token: token is expired", entry["error"])
}

func TestJSONLoggerRedacts(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", FormatJSON)

	log.Debug("verifying", slog.String("authorization", "Bearer abc"), slog.String("role", "user"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, redactedPlaceholder, entry["authorization"])
	assert.Equal(t, "user", entry["role"])
}

func TestTextLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", FormatText)

	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown", slog.String("token", "abc"))
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "abc")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

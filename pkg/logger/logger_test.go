package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		logFunc   func(Logger)
		wantShown bool
		wantLevel string
	}{
		{
			name:      "info shown at verbosity 0",
			verbosity: 0,
			logFunc:   func(l Logger) { l.Info("hello") },
			wantShown: true,
			wantLevel: "info",
		},
		{
			name:      "debug hidden at verbosity 0",
			verbosity: 0,
			logFunc:   func(l Logger) { l.Debug("hello") },
			wantShown: false,
		},
		{
			name:      "debug shown at verbosity 1",
			verbosity: 1,
			logFunc:   func(l Logger) { l.Debug("hello") },
			wantShown: true,
			wantLevel: "debug",
		},
		{
			name:      "trace hidden at verbosity 1",
			verbosity: 1,
			logFunc:   func(l Logger) { l.Trace("hello") },
			wantShown: false,
		},
		{
			name:      "trace shown at verbosity 2",
			verbosity: 2,
			logFunc:   func(l Logger) { l.Trace("hello") },
			wantShown: true,
			wantLevel: "debug",
		},
		{
			name:      "warn shown at verbosity 0",
			verbosity: 0,
			logFunc:   func(l Logger) { l.Warn("hello") },
			wantShown: true,
			wantLevel: "warn",
		},
		{
			name:      "error shown at verbosity 0",
			verbosity: 0,
			logFunc:   func(l Logger) { l.Error("hello") },
			wantShown: true,
			wantLevel: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Verbosity: tt.verbosity, Output: &buf})

			tt.logFunc(log)

			if !tt.wantShown {
				assert.Empty(t, buf.String())
				return
			}

			require.NotEmpty(t, buf.String())

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Contains(t, entry["message"], "hello")
		})
	}
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf})

	log.WithFields(Fields{
		"path":  "/tmp/a.ts",
		"count": 3,
	}).Info("formatted")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "/tmp/a.ts", entry["path"])
	assert.Equal(t, float64(3), entry["count"])
	assert.Equal(t, "formatted", entry["message"])
}

func TestLoggerFieldsDoNotLeakBetweenInstances(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf})

	withFields := log.WithFields(Fields{"component": "scheduler"})
	withFields.Info("first")
	log.Info("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "scheduler")
	assert.NotContains(t, lines[1], "scheduler")
}

func TestNopLoggerIsSilent(t *testing.T) {
	log := Nop()
	log.Info("not shown")
	log.WithFields(Fields{"a": 1}).Error("not shown")
}

package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"", "info"},
		{"warn", "warn"},
		{"error", "error"},
		{"verbose", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input).String())
		})
	}
}

func TestNew(t *testing.T) {
	for _, opts := range []Options{
		{Level: "info", Format: "json", Output: "stdout"},
		{Level: "debug", Format: "text", Output: "stderr"},
		{},
	} {
		log, err := New(opts)
		require.NoError(t, err)
		require.NotNil(t, log)
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	log, err := New(Options{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.WithRun("abc-123").WithSeries("LNS14000000").Infow("merged", "rows", 7)
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := string(data)
	for _, want := range []string{`"msg":"merged"`, `"run_id":"abc-123"`, `"series_id":"LNS14000000"`, `"rows":7`} {
		assert.True(t, strings.Contains(line, want), "log line %q missing %s", line, want)
	}
}

func TestNew_FileOutputUnwritable(t *testing.T) {
	_, err := New(Options{Output: filepath.Join(t.TempDir(), "missing", "dir", "run.log")})
	assert.Error(t, err)
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	log, err := New(Options{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("hidden")
	log.WithFile("bls_data.csv").Warn("shown")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
	assert.Contains(t, string(data), `"file":"bls_data.csv"`)
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Info("discarded")
	assert.NoError(t, log.Sync())
}

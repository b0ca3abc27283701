package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		opts    logOptions
		logFunc func(*slog.Logger)
		wantLog bool
	}{
		{"info at info level", logOptions{}, func(l *slog.Logger) { l.Info("test") }, true},
		{"debug at info level", logOptions{}, func(l *slog.Logger) { l.Debug("test") }, false},
		{"debug when verbose", logOptions{verbose: true}, func(l *slog.Logger) { l.Debug("test") }, true},
		{"info when quiet", logOptions{quiet: true}, func(l *slog.Logger) { l.Info("test") }, false},
		{"warn when quiet", logOptions{quiet: true}, func(l *slog.Logger) { l.Warn("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, _, err := newLogger(&buf, tt.opts)
			require.NoError(t, err)
			tt.logFunc(logger)
			assert.Equal(t, tt.wantLog, buf.Len() > 0)
		})
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := newLogger(&buf, logOptions{format: LogFormatJSON})
	require.NoError(t, err)

	logger.Info("wrote", "path", "api.md")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "wrote", rec["msg"])
	assert.Equal(t, "api.md", rec["path"])
}

func TestNewLoggerUnknownFormat(t *testing.T) {
	_, _, err := newLogger(&bytes.Buffer{}, logOptions{format: "xml"})
	require.Error(t, err)
}

func TestNewLoggerFileTee(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doxymark.log")
	var buf bytes.Buffer
	logger, closer, err := newLogger(&buf, logOptions{file: path})
	require.NoError(t, err)

	logger.With("run_id", "r1").Debug("only in file")
	logger.Info("everywhere")
	require.NoError(t, closer.Close())

	assert.NotContains(t, buf.String(), "only in file")
	assert.Contains(t, buf.String(), "everywhere")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "only in file", first["msg"])
	assert.Equal(t, "r1", first["run_id"])
}

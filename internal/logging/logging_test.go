package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromVerbosity(t *testing.T) {
	tests := []struct {
		count int
		want  slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{9, LevelTrace},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromVerbosity(tt.count), "count %d", tt.count)
	}
}

func TestParseLevelRoundTrip(t *testing.T) {
	for _, name := range []string{"error", "warn", "info", "debug", "trace"} {
		l, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, name, LevelName(l))
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestSharedLevelFiltersRecords(t *testing.T) {
	t.Cleanup(func() { SetLevel(slog.LevelWarn) })

	var buf bytes.Buffer
	logger := New(&buf)

	SetLevel(slog.LevelWarn)
	logger.Info("hidden")
	assert.Empty(t, buf.String())

	SetLevel(LevelTrace)
	logger.Log(context.Background(), LevelTrace, "frame")
	assert.Contains(t, buf.String(), "level=TRACE")
	assert.Contains(t, buf.String(), "msg=frame")
}

func TestSetupWritesToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		SetLevel(slog.LevelWarn)
	})

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, closer, err := Setup(path, slog.LevelInfo)
	require.NoError(t, err)

	logger.Info("started", "seconds", 90)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "seconds=90")
}

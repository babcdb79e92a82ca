package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/intelliexam/exam-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCIHandler(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_SHA", "deadbeef")
	t.Setenv("GITHUB_RUN_ID", "99")

	var buf bytes.Buffer
	log := slog.New(logger.NewCIHandler(&buf, &slog.HandlerOptions{AddSource: true}))
	log.Info("pass finished", "replies", 3)

	var entries logger.TestLogBuffer
	_, _ = entries.Write(buf.Bytes())
	parsed, err := entries.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, parsed, 1)

	entry := parsed[0]
	assert.Equal(t, logger.ServiceName, entry["service"])
	assert.Equal(t, "github_actions", entry["ci_provider"])
	assert.Equal(t, "deadbeef", entry["ci_commit"])
	assert.Equal(t, "99", entry["ci_run_id"])
	assert.Equal(t, float64(3), entry["replies"])
	assert.Contains(t, entry["caller"], "TestCIHandler")
}

func TestCIHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	handler := logger.NewCIHandler(&buf, nil)

	log := slog.New(handler.WithAttrs([]slog.Attr{slog.String("component", "orchestrator")}))
	log.WithGroup("pass").Info("started", "units", 4)

	output := buf.String()
	assert.Contains(t, output, `"component":"orchestrator"`)
	assert.Contains(t, output, `"pass":{"units":4`)
	assert.NotContains(t, output, `"caller"`, "source is off unless requested")
}

func TestCIHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(logger.NewCIHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	log.Info("dropped")
	log.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

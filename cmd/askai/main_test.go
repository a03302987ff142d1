package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnglemongrass/askai/internal/config"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	for _, k := range []string{"ASKAI_MODEL", "OPENAI_API_KEY", "OPENAI_API_BASE", "ASKAI_ENDPOINT", "ASKAI_LANGUAGE", "ASKAI_LOG_LEVEL", "ASKAI_TEMPERATURE"} {
		t.Setenv(k, "")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	isolate(t)
	assert.Equal(t, 1, run([]string{"--max-tokens=0"}))
	assert.Equal(t, 1, run([]string{"--language=fr"}))
}

func TestRunFailsOnUnopenableLogFile(t *testing.T) {
	isolate(t)
	logFile := filepath.Join(t.TempDir(), "missing", "askai.log")
	assert.Equal(t, 1, run([]string{"--log-file=" + logFile}))
}

func TestNewLoggerWritesToFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "askai.log")
	cfg.LogLevel = "info"

	logger, closeLog, err := newLogger(cfg)
	require.NoError(t, err)
	logger.Info("session started")
	closeLog()

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session started")
}

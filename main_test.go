package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetup(t *testing.T) {
	cfg, log, err := setup(nil)

	require.NoError(t, err)
	assert.NotNil(t, log)
	assert.False(t, cfg.DisableRateLimit)
	assert.Equal(t, ":3000", cfg.ServerPort)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestSetupFlags(t *testing.T) {
	cfg, _, err := setup([]string{"-disable-rate-limit", "-port", ":4000"})

	require.NoError(t, err)
	assert.True(t, cfg.DisableRateLimit)
	assert.Equal(t, ":4000", cfg.ServerPort)
}

func TestSetupLogLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	_, log, err := setup(nil)

	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestSetupInvalid(t *testing.T) {
	t.Run("unknown flag", func(t *testing.T) {
		_, _, err := setup([]string{"-nope"})
		assert.Error(t, err)
	})

	t.Run("bad log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "loud")
		_, _, err := setup(nil)
		assert.ErrorContains(t, err, "init logger")
	})

	t.Run("bad rate period", func(t *testing.T) {
		t.Setenv("RATE_PERIOD", "often")
		_, _, err := setup(nil)
		assert.ErrorContains(t, err, "load config")
	})
}

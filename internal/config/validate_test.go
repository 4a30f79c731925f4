package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkhoard/internal/models"
)

func TestValidate_ClampsThrottlingKnobs(t *testing.T) {
	cfg := &Config{}
	cfg.AI.Provider = "ollama"
	cfg.AI.BatchSize = 0
	cfg.AI.BatchDelayMs = -50

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.AI.BatchSize)
	assert.Equal(t, 0, cfg.AI.BatchDelayMs)
	assert.Equal(t, 1, cfg.Worker.Concurrency)
}

func TestValidate_RejectsUnknownProvider(t *testing.T) {
	cfg := &Config{}
	cfg.AI.Provider = "skynet"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestValidate_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.AI.Provider = "openrouter"
	cfg.AI.BatchSize = 25
	cfg.AI.BatchDelayMs = 2000
	cfg.Worker.Concurrency = 4

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 25, cfg.AI.BatchSize)
	assert.Equal(t, 2000, cfg.AI.BatchDelayMs)
	assert.Equal(t, 4, cfg.Worker.Concurrency)
}

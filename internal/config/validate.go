package config

import (
	"fmt"

	"linkhoard/internal/models"
)

var knownProviders = map[string]bool{
	"gemini":     true,
	"openrouter": true,
	"ollama":     true,
}

// Validate normalizes the throttling knobs and rejects unknown providers.
func (c *Config) Validate() error {
	if !knownProviders[c.AI.Provider] {
		return fmt.Errorf("%w: unknown AI provider %q", models.ErrValidation, c.AI.Provider)
	}
	if c.AI.BatchSize < 1 {
		c.AI.BatchSize = 10
	}
	if c.AI.BatchDelayMs < 0 {
		c.AI.BatchDelayMs = 0
	}
	if c.Worker.Concurrency < 1 {
		c.Worker.Concurrency = 1
	}
	return nil
}

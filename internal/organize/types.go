package organize

import (
	"context"
	"time"
)

// Provider identifiers as stored in settings.
const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
)

// WorkItem is one bookmark submitted for classification. The ID must survive
// the provider round-trip verbatim so results can be matched back.
type WorkItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ClassificationResult is a provider suggestion for one work item. Tags are
// lowercased and deduplicated during parsing.
type ClassificationResult struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// Settings is the pipeline's read-only view of user configuration.
type Settings struct {
	Provider string

	GeminiAPIKey string
	GeminiModel  string

	OpenRouterAPIKey string
	OpenRouterModel  string

	OllamaBaseURL string
	OllamaModel   string
	OllamaAPIKey  string

	BatchSize  int
	BatchDelay time.Duration
}

// SettingsSource yields current settings. The orchestrator reads it fresh for
// every chunk so a mid-run settings change affects subsequent chunks, never
// the chunk already in flight.
type SettingsSource interface {
	Settings() Settings
}

// Provider dispatches one chunk to an LLM and returns the raw response text.
// Implementations must honor ctx so an in-flight request can be aborted, and
// must surface failures as tagged *ProviderError values.
type Provider interface {
	Name() string
	Dispatch(ctx context.Context, chunk []WorkItem, existingCategories []string) (string, error)
}

// NewProvider selects the adapter for the configured provider.
func NewProvider(s Settings) (Provider, error) {
	switch s.Provider {
	case ProviderGemini:
		return newGeminiProvider(s.GeminiAPIKey, s.GeminiModel)
	case ProviderOpenRouter:
		return newOpenRouterProvider(s.OpenRouterAPIKey, s.OpenRouterModel)
	case ProviderOllama:
		return newOllamaProvider(s.OllamaBaseURL, s.OllamaModel, s.OllamaAPIKey), nil
	default:
		return nil, &ProviderError{Provider: s.Provider, Kind: KindConfig, Message: "unknown AI provider"}
	}
}

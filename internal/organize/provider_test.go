package organize

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_SelectsByName(t *testing.T) {
	s := Settings{
		Provider:         ProviderGemini,
		GeminiAPIKey:     "gm",
		OpenRouterAPIKey: "or",
	}

	p, err := NewProvider(s)
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, p.Name())

	s.Provider = ProviderOpenRouter
	p, err = NewProvider(s)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenRouter, p.Name())

	s.Provider = ProviderOllama
	p, err = NewProvider(s)
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, p.Name())
}

func TestNewProvider_MissingCredentials(t *testing.T) {
	var pe *ProviderError

	_, err := NewProvider(Settings{Provider: ProviderGemini})
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindConfig, pe.Kind)
	assert.Contains(t, pe.Message, "Gemini API key")

	_, err = NewProvider(Settings{Provider: ProviderOpenRouter})
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindConfig, pe.Kind)
	assert.Contains(t, pe.Message, "OpenRouter API key")
}

func TestNewProvider_UnknownProvider(t *testing.T) {
	var pe *ProviderError
	_, err := NewProvider(Settings{Provider: "clippy"})
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindConfig, pe.Kind)
}

func TestNewProvider_DefaultModels(t *testing.T) {
	gp, err := newGeminiProvider("key", "")
	require.NoError(t, err)
	assert.Equal(t, defaultGeminiModel, gp.model)

	op, err := newOpenRouterProvider("key", "")
	require.NoError(t, err)
	assert.Equal(t, defaultOpenRouterModel, op.model)

	lp := newOllamaProvider("", "", "")
	assert.Equal(t, defaultOllamaModel, lp.model)
}

func TestHeaderTransport_AddsProductHeaders(t *testing.T) {
	var referer, title string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("HTTP-Referer")
		title = r.Header.Get("X-Title")
	}))
	defer server.Close()

	client := &http.Client{Transport: &headerTransport{base: http.DefaultTransport}}
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.NotEmpty(t, referer)
	assert.Equal(t, "linkhoard", title)
}

func TestProviderError_Message(t *testing.T) {
	err := &ProviderError{Provider: ProviderOpenRouter, Kind: KindRateLimited, Status: 429, Message: "slow down"}
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "slow down")

	err = &ProviderError{Provider: ProviderGemini, Kind: KindConfig, Message: "missing key"}
	assert.NotContains(t, err.Error(), "HTTP")
}

func TestKindForStatus(t *testing.T) {
	assert.Equal(t, KindAuth, kindForStatus(401))
	assert.Equal(t, KindAuth, kindForStatus(403))
	assert.Equal(t, KindRateLimited, kindForStatus(429))
	assert.Equal(t, KindUnavailable, kindForStatus(502))
	assert.Equal(t, KindUnavailable, kindForStatus(503))
	assert.Equal(t, KindUnknown, kindForStatus(400))
}

func TestSystemPrompt_IncludesTaxonomyAndExistingCategories(t *testing.T) {
	prompt := systemPrompt([]string{"Recipes"})
	for _, c := range Categories {
		assert.Contains(t, prompt, c)
	}
	assert.Contains(t, prompt, "Recipes")

	assert.Len(t, Categories, 10)
}

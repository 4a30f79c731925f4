package organize

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

const (
	openRouterBaseURL      = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel = "openai/gpt-4o-mini"

	dispatchTimeout = 120 * time.Second
)

// OpenRouterProvider dispatches chunks through the OpenRouter
// chat-completions API (OpenAI wire format, free-form model catalog).
type OpenRouterProvider struct {
	client *openai.Client
	model  string
}

// headerTransport adds the product-identifying headers OpenRouter uses for
// app attribution on every request.
type headerTransport struct {
	base http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("HTTP-Referer", "https://github.com/linkhoard/linkhoard")
	req.Header.Set("X-Title", "linkhoard")
	return t.base.RoundTrip(req)
}

func newOpenRouterProvider(apiKey, model string) (*OpenRouterProvider, error) {
	if apiKey == "" {
		return nil, &ProviderError{Provider: ProviderOpenRouter, Kind: KindConfig,
			Message: "OpenRouter API key is not configured"}
	}
	if model == "" {
		model = defaultOpenRouterModel
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = openRouterBaseURL
	cfg.HTTPClient = &http.Client{
		Timeout:   dispatchTimeout,
		Transport: &headerTransport{base: http.DefaultTransport},
	}
	return &OpenRouterProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func (p *OpenRouterProvider) Name() string { return ProviderOpenRouter }

func (p *OpenRouterProvider) Dispatch(ctx context.Context, chunk []WorkItem, existingCategories []string) (string, error) {
	log.Debugf("Dispatching %d items to OpenRouter model %s", len(chunk), p.model)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(existingCategories)},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(chunk)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", p.wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: ProviderOpenRouter, Kind: KindBadResponse,
			Message: "no choices in completion response"}
	}
	return resp.Choices[0].Message.Content, nil
}

// wrapError surfaces the provider's own error message when present, else the
// HTTP status text, tagged with the kind derived from the status code.
func (p *OpenRouterProvider) wrapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.HTTPStatusCode)
		}
		return &ProviderError{
			Provider: ProviderOpenRouter,
			Kind:     kindForStatus(apiErr.HTTPStatusCode),
			Status:   apiErr.HTTPStatusCode,
			Message:  msg,
		}
	}
	// Connection-level failure before any HTTP status was produced.
	return &ProviderError{Provider: ProviderOpenRouter, Kind: KindUnavailable, Message: err.Error()}
}

package organize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
)

const defaultOllamaModel = "llama3.1"

// OllamaProvider dispatches chunks to a local Ollama server's chat endpoint
// with JSON mode forced and streaming disabled.
type OllamaProvider struct {
	baseURL string
	model   string
	apiKey  string // optional bearer token
	client  *http.Client
}

func newOllamaProvider(baseURL, model, apiKey string) *OllamaProvider {
	if model == "" {
		model = defaultOllamaModel
	}
	return &OllamaProvider{
		baseURL: normalizeBaseURL(baseURL),
		model:   model,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: dispatchTimeout},
	}
}

// normalizeBaseURL ensures a scheme and strips any trailing slash.
func normalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "http://localhost:11434"
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	return strings.TrimRight(raw, "/")
}

// loopbackFallbackURL returns the numeric-loopback variant of base when its
// host is the "localhost" hostname, else "". Some environments resolve
// localhost to an address Ollama is not bound to; retrying once against
// 127.0.0.1 works around that.
func loopbackFallbackURL(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Hostname() != "localhost" {
		return ""
	}
	host := "127.0.0.1"
	if port := u.Port(); port != "" {
		host = net.JoinHostPort(host, port)
	}
	u.Host = host
	return u.String()
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

func (p *OllamaProvider) Name() string { return ProviderOllama }

func (p *OllamaProvider) Dispatch(ctx context.Context, chunk []WorkItem, existingCategories []string) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model: p.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: systemPrompt(existingCategories)},
			{Role: "user", Content: userPrompt(chunk)},
		},
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return "", &ProviderError{Provider: ProviderOllama, Kind: KindUnknown, Message: err.Error()}
	}

	text, err := p.post(ctx, p.baseURL, body)
	if err == nil {
		return text, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "", err
	}

	// One extra attempt against the numeric loopback address on connection
	// failure. This is separate from the controller's retry loop.
	if fallback := loopbackFallbackURL(p.baseURL); fallback != "" && isConnectionError(err) {
		if text, retryErr := p.post(ctx, fallback, body); retryErr == nil {
			return text, nil
		}
	}
	return "", err
}

func (p *OllamaProvider) post(ctx context.Context, baseURL string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", &ProviderError{Provider: ProviderOllama, Kind: KindUnknown, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &ProviderError{Provider: ProviderOllama, Kind: KindUnavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProviderError{
			Provider: ProviderOllama,
			Kind:     kindForStatus(resp.StatusCode),
			Status:   resp.StatusCode,
			Message:  fmt.Sprintf("ollama request failed: %s", resp.Status),
		}
	}

	var parsed ollamaChatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&parsed); err != nil {
		return "", &ProviderError{Provider: ProviderOllama, Kind: KindBadResponse, Message: err.Error()}
	}
	return parsed.Message.Content, nil
}

// isConnectionError reports whether err is a transport-level failure, as
// opposed to an HTTP error response.
func isConnectionError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == KindUnavailable && pe.Status == 0
}

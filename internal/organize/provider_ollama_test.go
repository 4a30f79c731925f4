package organize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBaseURL(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{in: "", expected: "http://localhost:11434"},
		{in: "localhost:11434", expected: "http://localhost:11434"},
		{in: "http://localhost:11434/", expected: "http://localhost:11434"},
		{in: "https://ollama.example.com///", expected: "https://ollama.example.com"},
		{in: "  192.168.1.5:11434 ", expected: "http://192.168.1.5:11434"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, normalizeBaseURL(tc.in), "input %q", tc.in)
	}
}

func TestLoopbackFallbackURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:11434", loopbackFallbackURL("http://localhost:11434"))
	assert.Equal(t, "http://127.0.0.1", loopbackFallbackURL("http://localhost"))
	assert.Empty(t, loopbackFallbackURL("http://ollama.example.com:11434"),
		"only the localhost hostname gets a numeric-loopback retry")
	assert.Empty(t, loopbackFallbackURL("http://127.0.0.1:11434"))
}

func TestOllamaDispatch_RequestShape(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody ollamaChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"content": `[{"id":"a","category":"Other","tags":["x"]}]`},
		})
	}))
	defer server.Close()

	p := newOllamaProvider(server.URL, "llama3.1", "secret-token")
	raw, err := p.Dispatch(context.Background(), testItems(2), []string{"Projects"})

	require.NoError(t, err)
	assert.Equal(t, "/api/chat", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "llama3.1", gotBody.Model)
	assert.False(t, gotBody.Stream, "streaming must be disabled")
	assert.Equal(t, "json", gotBody.Format, "JSON mode must be forced")
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Contains(t, gotBody.Messages[0].Content, "Projects")
	assert.Equal(t, "user", gotBody.Messages[1].Role)

	results := Parse(raw)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
}

func TestOllamaDispatch_NoAuthHeaderWithoutKey(t *testing.T) {
	var sawAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization") != ""
		json.NewEncoder(w).Encode(map[string]any{"message": map[string]string{"content": "[]"}})
	}))
	defer server.Close()

	p := newOllamaProvider(server.URL, "", "")
	_, err := p.Dispatch(context.Background(), testItems(1), nil)

	require.NoError(t, err)
	assert.False(t, sawAuth)
}

func TestOllamaDispatch_HTTPErrorMapping(t *testing.T) {
	testCases := []struct {
		status   int
		expected ErrorKind
	}{
		{status: http.StatusUnauthorized, expected: KindAuth},
		{status: http.StatusForbidden, expected: KindAuth},
		{status: http.StatusTooManyRequests, expected: KindRateLimited},
		{status: http.StatusServiceUnavailable, expected: KindUnavailable},
		{status: http.StatusBadRequest, expected: KindUnknown},
	}

	for _, tc := range testCases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		p := newOllamaProvider(server.URL, "", "")
		_, err := p.Dispatch(context.Background(), testItems(1), nil)

		require.Error(t, err, "status %d", tc.status)
		var pe *ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, tc.expected, pe.Kind, "status %d", tc.status)
		assert.Equal(t, tc.status, pe.Status)
		server.Close()
	}
}

func TestOllamaDispatch_ConnectionFailure(t *testing.T) {
	// A server that is immediately closed gives a connection error.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	p := newOllamaProvider(server.URL, "", "")
	_, err := p.Dispatch(context.Background(), testItems(1), nil)

	require.Error(t, err)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindUnavailable, pe.Kind)
	assert.True(t, isConnectionError(err))
}

func TestOllamaDispatch_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"message": map[string]string{"content": "[]"}})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newOllamaProvider(server.URL, "", "")
	_, err := p.Dispatch(ctx, testItems(1), nil)

	assert.ErrorIs(t, err, context.Canceled)
}

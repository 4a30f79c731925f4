package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>
			Example   Page
		</title></head><body>hi</body></html>`)
	}))
	defer server.Close()

	title, err := Title(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Example Page", title, "title should be trimmed and whitespace-collapsed")
}

func TestTitle_MissingTitleTag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>no title here</body></html>`)
	}))
	defer server.Close()

	title, err := Title(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Empty(t, title)
}

func TestTitle_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := Title(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestTitle_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := Title(context.Background(), server.URL)
	assert.Error(t, err)
}

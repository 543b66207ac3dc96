package tmdb

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amaumene/showtrack/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(&config.Config{TMDBAPIKey: apiKey}, logger, WithBaseURL(server.URL))
}

func TestLookupTopMatchPoster(t *testing.T) {
	client := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/tv", r.URL.Path)
		assert.Equal(t, "key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "The Bear", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":1,"name":"The Bear","poster_path":"/bear.jpg"},{"id":2,"poster_path":"/other.jpg"}]}`))
	})

	poster, err := client.Lookup(context.Background(), "The Bear")
	require.NoError(t, err)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/bear.jpg", poster)
}

func TestLookupTopMatchWithoutPoster(t *testing.T) {
	client := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"id":1,"name":"Obscure","poster_path":null},{"id":2,"poster_path":"/second.jpg"}]}`))
	})

	poster, err := client.Lookup(context.Background(), "Obscure")
	require.NoError(t, err)
	assert.Empty(t, poster)
}

func TestLookupNoResults(t *testing.T) {
	client := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":1,"results":[]}`))
	})

	poster, err := client.Lookup(context.Background(), "Nothing")
	require.NoError(t, err)
	assert.Empty(t, poster)
}

func TestLookupHTTPError(t *testing.T) {
	client := newTestClient(t, "key", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code":7}`))
	})

	_, err := client.Lookup(context.Background(), "The Bear")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestLookupWithoutAPIKey(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected without an API key")
	})

	_, err := client.Lookup(context.Background(), "The Bear")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

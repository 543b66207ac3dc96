package images

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amaumene/showtrack/internal/config"
	"github.com/amaumene/showtrack/internal/metrics"
	"github.com/amaumene/showtrack/internal/services/google"
	"github.com/amaumene/showtrack/internal/services/tmdb"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name  string
	link  string
	err   error
	calls int
	block bool
	panic bool
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Lookup(ctx context.Context, title string) (string, error) {
	f.calls++
	if f.panic {
		panic("boom")
	}
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.link, f.err
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestResolveFirstProviderWins(t *testing.T) {
	first := &fakeProvider{name: "a", link: "https://a/poster.jpg"}
	second := &fakeProvider{name: "b", link: "https://b/poster.jpg"}

	r := NewResolver([]Provider{first, second}, quietLogger())
	assert.Equal(t, "https://a/poster.jpg", r.Resolve(context.Background(), "Dark"))
	assert.Equal(t, 0, second.calls)
}

func TestResolveFallsThroughErrorsAndEmptyResults(t *testing.T) {
	failing := &fakeProvider{name: "a", err: errors.New("credentials not available")}
	empty := &fakeProvider{name: "b"}
	last := &fakeProvider{name: "c", link: "https://c/poster.jpg"}

	r := NewResolver([]Provider{failing, empty, last}, quietLogger())
	assert.Equal(t, "https://c/poster.jpg", r.Resolve(context.Background(), "Dark"))
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, empty.calls)
}

func TestResolvePlaceholderWhenAllFail(t *testing.T) {
	m := metrics.New()
	r := NewResolver([]Provider{
		&fakeProvider{name: "google", err: errors.New("status 500")},
		&fakeProvider{name: "tmdb", panic: true},
	}, quietLogger(), WithMetrics(m.ImageResolutions))

	got := r.Resolve(context.Background(), "Dark")
	assert.NotEmpty(t, got)
	assert.Equal(t, Placeholder, got)
	assert.True(t, IsPlaceholder(got))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ImageResolutions.WithLabelValues("placeholder")))
}

func TestResolveNoProviders(t *testing.T) {
	r := NewResolver(nil, quietLogger())
	assert.Equal(t, Placeholder, r.Resolve(context.Background(), "Dark"))
}

func TestResolveTimesOutSlowProvider(t *testing.T) {
	slow := &fakeProvider{name: "slow", block: true}
	fast := &fakeProvider{name: "fast", link: "https://fast/poster.jpg"}

	r := NewResolver([]Provider{slow, fast}, quietLogger(), WithTimeout(20*time.Millisecond))

	start := time.Now()
	assert.Equal(t, "https://fast/poster.jpg", r.Resolve(context.Background(), "Dark"))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestResolveIgnoresCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &fakeProvider{name: "a", link: "https://a/poster.jpg"}
	r := NewResolver([]Provider{provider}, quietLogger())
	assert.Equal(t, "https://a/poster.jpg", r.Resolve(ctx, "Dark"))
}

func TestResolveWithUnreachableProviders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{
		GoogleAPIKey:         "key",
		GoogleSearchEngineID: "cx",
		TMDBAPIKey:           "key",
	}
	logger := quietLogger()
	r := NewResolver([]Provider{
		google.NewClient(cfg, logger, google.WithBaseURL(server.URL)),
		tmdb.NewClient(cfg, logger, tmdb.WithBaseURL(server.URL)),
	}, logger, WithTimeout(time.Second))

	require.Equal(t, Placeholder, r.Resolve(context.Background(), "Foo"))
}

func TestResolveFallsBackToTMDB(t *testing.T) {
	googleServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	t.Cleanup(googleServer.Close)
	tmdbServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"id":7,"poster_path":"/foo.jpg"}]}`))
	}))
	t.Cleanup(tmdbServer.Close)

	cfg := &config.Config{GoogleAPIKey: "key", GoogleSearchEngineID: "cx", TMDBAPIKey: "key"}
	logger := quietLogger()
	r := NewResolver([]Provider{
		google.NewClient(cfg, logger, google.WithBaseURL(googleServer.URL)),
		tmdb.NewClient(cfg, logger, tmdb.WithBaseURL(tmdbServer.URL)),
	}, logger)

	assert.Equal(t, "https://image.tmdb.org/t/p/w500/foo.jpg", r.Resolve(context.Background(), "Foo"))
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder(""))
	assert.True(t, IsPlaceholder(Placeholder))
	assert.False(t, IsPlaceholder("https://image.tmdb.org/t/p/w500/foo.jpg"))
}

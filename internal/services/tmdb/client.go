package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amaumene/showtrack/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
)

// ErrNoAPIKey is returned when no TMDB API key is configured
var ErrNoAPIKey = errors.New("TMDB API key not available")

// TVResult is a single match from the TV search endpoint
type TVResult struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	Popularity   float64 `json:"popularity"`
}

// SearchTVResponse models the paginated TV search response
type SearchTVResponse struct {
	Page         int        `json:"page"`
	Results      []TVResult `json:"results"`
	TotalResults int        `json:"total_results"`
}

// Client handles communication with the TMDB API
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	httpClient   *http.Client
	logger       *logrus.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at a different API root
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient overrides the default HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient creates a TMDB client. A missing key makes every lookup
// fail with ErrNoAPIKey.
func NewClient(cfg *config.Config, logger *logrus.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:       strings.TrimSpace(cfg.TMDBAPIKey),
		baseURL:      defaultBaseURL,
		imageBaseURL: defaultImageBaseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies the provider in logs and metrics
func (c *Client) Name() string {
	return "tmdb"
}

// Lookup returns the poster URL of the top TV match for title, or "" when
// there is no match or the top match has no poster
func (c *Client) Lookup(ctx context.Context, title string) (string, error) {
	resp, err := c.SearchTV(ctx, title)
	if err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return c.PosterURL(resp.Results[0].PosterPath), nil
}

// PosterURL builds the CDN URL for a poster path
func (c *Client) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + path
}

// SearchTV searches the TV show endpoint by title
func (c *Client) SearchTV(ctx context.Context, title string) (*SearchTVResponse, error) {
	params := url.Values{}
	params.Set("query", title)

	var result SearchTVResponse
	if err := c.doRequest(ctx, "/search/tv", params, &result); err != nil {
		return nil, fmt.Errorf("tv search failed: %w", err)
	}
	return &result, nil
}

// doRequest performs a GET against the TMDB API and decodes the JSON body
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}

	params.Set("api_key", c.apiKey)
	fullURL := c.baseURL + path + "?" + params.Encode()

	c.logger.WithFields(logrus.Fields{
		"path":  path,
		"query": params.Get("query"),
	}).Debug("Making TMDB API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

package google

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

const defaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// ErrNoCredentials is returned when the API key or search engine ID is unset
var ErrNoCredentials = errors.New("google API credentials not available")

// SearchResponse is the subset of the Custom Search JSON response we read
type SearchResponse struct {
	Items []Item `json:"items"`
}

// Item represents a single image search result
type Item struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Mime  string `json:"mime"`
	Image struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"image"`
}

// Client wraps direct Google Custom Search API HTTP calls
type Client struct {
	baseURL    string
	apiKey     string
	engineID   string
	httpClient *http.Client
	logger     *logrus.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at a different endpoint
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

// NewClient creates a Custom Search client. Missing credentials are not an
// error here: every lookup reports ErrNoCredentials instead.
func NewClient(cfg *config.Config, logger *logrus.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:  defaultBaseURL,
		apiKey:   strings.TrimSpace(cfg.GoogleAPIKey),
		engineID: strings.TrimSpace(cfg.GoogleSearchEngineID),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies the provider in logs and metrics
func (c *Client) Name() string {
	return "google"
}

// Lookup returns the link of the first poster image found for title,
// or "" when the search came back empty
func (c *Client) Lookup(ctx context.Context, title string) (string, error) {
	resp, err := c.SearchImages(ctx, title+" TV show poster")
	if err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", nil
	}
	return resp.Items[0].Link, nil
}

// SearchImages runs an image search for one medium-size photo
func (c *Client) SearchImages(ctx context.Context, query string) (*SearchResponse, error) {
	if c.apiKey == "" || c.engineID == "" {
		return nil, ErrNoCredentials
	}

	apiURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid google URL: %w", err)
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	params.Set("searchType", "image")
	params.Set("imgType", "photo")
	params.Set("imgSize", "medium")
	params.Set("num", "1")
	apiURL.RawQuery = params.Encode()

	c.logger.WithField("query", query).Debug("Performing Google image search")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "showtrack/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("google API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode google response: %w", err)
	}

	c.logger.WithField("count", len(result.Items)).Debug("Google image search completed")
	return &result, nil
}

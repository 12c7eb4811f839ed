// Package alphavantage provides a client for the Alpha Vantage news-sentiment API
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/folioview/folio/internal/common"
	"github.com/folioview/folio/internal/interfaces"
	"github.com/folioview/folio/internal/models"
)

const (
	DefaultBaseURL = "https://www.alphavantage.co"
	DefaultTimeout = 10 * time.Second
)

// Client fetches news with sentiment metadata from Alpha Vantage.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Alpha Vantage client. The free "demo" key works
// for a handful of symbols only, which is acceptable for a fallback strategy.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name identifies this provider in logs and stage results.
func (c *Client) Name() string {
	return "alphavantage"
}

// FetchNews retrieves the news-sentiment feed for a symbol.
func (c *Client) FetchNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("function", "NEWS_SENTIMENT")
	params.Set("tickers", symbol)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("symbol", symbol).Msg("Alpha Vantage news request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Alpha Vantage error: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	items := make([]models.NewsItem, 0, len(result.Feed))
	for _, f := range result.Feed {
		if f.Title == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Title:     f.Title,
			Summary:   f.Summary,
			Published: formatPublished(f.TimePublished),
			Publisher: f.Source,
			Link:      f.URL,
		})
		if len(items) >= limit {
			break
		}
	}

	return items, nil
}

// formatPublished converts Alpha Vantage's compact timestamp
// ("20230721T143205") to the dashboard's display format. Unparsable
// values pass through unchanged.
func formatPublished(s string) string {
	t, err := time.Parse("20060102T150405", s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02 15:04")
}

// feedResponse mirrors the NEWS_SENTIMENT envelope.
type feedResponse struct {
	Items string `json:"items"`
	Feed  []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		TimePublished string `json:"time_published"`
		Summary       string `json:"summary"`
		Source        string `json:"source"`
	} `json:"feed"`
}

// Ensure Client implements NewsProvider
var _ interfaces.NewsProvider = (*Client)(nil)

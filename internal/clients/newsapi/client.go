// Package newsapi provides a client for the NewsAPI.org everything endpoint
package newsapi

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
	DefaultBaseURL = "https://newsapi.org"
	DefaultTimeout = 10 * time.Second

	// financialDomains restricts results to established financial outlets.
	financialDomains = "reuters.com,bloomberg.com,cnbc.com,marketwatch.com,yahoo.com,seekingalpha.com"
)

// Client fetches market news from NewsAPI.org.
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

// NewClient creates a new NewsAPI client
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

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("NewsAPI error: %s (status: %d)", e.Message, e.StatusCode)
}

// Name identifies this provider in logs and stage results.
func (c *Client) Name() string {
	return "newsapi"
}

// FetchNews searches for recent articles about a symbol. The broad
// "<symbol> stock market" query is tried first, then "<symbol> earnings"
// when it comes back empty.
func (c *Client) FetchNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	if c.apiKey == "" {
		return nil, nil // strategy disabled without a key
	}

	items, err := c.search(ctx, symbol+" stock market", limit)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return items, nil
	}

	return c.search(ctx, symbol+" earnings", limit)
}

// search performs one everything-endpoint query.
func (c *Client) search(ctx context.Context, query string, limit int) ([]models.NewsItem, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(limit))
	params.Set("domains", financialDomains)
	params.Set("apiKey", c.apiKey)

	reqURL := fmt.Sprintf("%s/v2/everything?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("query", query).Msg("NewsAPI request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var result everythingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	items := make([]models.NewsItem, 0, len(result.Articles))
	for _, a := range result.Articles {
		if a.Title == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Title:     a.Title,
			Summary:   a.Description,
			Published: a.PublishedAt,
			Publisher: a.Source.Name,
			Link:      a.URL,
		})
		if len(items) >= limit {
			break
		}
	}

	return items, nil
}

// everythingResponse mirrors the /v2/everything envelope.
type everythingResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Ensure Client implements NewsProvider
var _ interfaces.NewsProvider = (*Client)(nil)

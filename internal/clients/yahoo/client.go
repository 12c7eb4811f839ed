// Package yahoo provides a client for the Yahoo Finance public endpoints
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/folioview/folio/internal/common"
	"github.com/folioview/folio/internal/interfaces"
	"github.com/folioview/folio/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client fetches price history, split events, and news from Yahoo Finance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	now        func() time.Time // injectable clock for testing
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

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithClock sets the time source (testing only).
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
		now:     time.Now,
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
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Yahoo Finance API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "folio/"+common.GetVersion())

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo Finance API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetSymbolHistory retrieves the trailing daily close history and split
// events via the v8 chart endpoint. Bars are returned ascending; days with
// no close (halts, nulls) are dropped.
func (c *Client) GetSymbolHistory(ctx context.Context, symbol string, days int) (*models.SymbolHistory, error) {
	if days <= 0 {
		days = 365
	}
	to := c.now()
	from := to.AddDate(0, 0, -days)

	params := url.Values{}
	params.Set("period1", strconv.FormatInt(from.Unix(), 10))
	params.Set("period2", strconv.FormatInt(to.Unix(), 10))
	params.Set("interval", "1d")
	params.Set("events", "splits")

	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(symbol))

	var resp chartResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    resp.Chart.Error.Description,
			Endpoint:   path,
		}
	}
	if len(resp.Chart.Result) == 0 {
		return &models.SymbolHistory{Symbol: symbol}, nil
	}

	result := resp.Chart.Result[0]

	history := &models.SymbolHistory{Symbol: symbol}

	if len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i, ts := range result.Timestamp {
			if i >= len(closes) || closes[i] == nil {
				continue
			}
			day := time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
			history.Bars = append(history.Bars, models.PriceBar{Date: day, Close: *closes[i]})
		}
	}
	sort.Slice(history.Bars, func(i, j int) bool {
		return history.Bars[i].Date.Before(history.Bars[j].Date)
	})

	for _, split := range result.Events.Splits {
		if split.Denominator == 0 {
			continue
		}
		history.Splits = append(history.Splits, models.SplitEvent{
			Symbol:        symbol,
			EffectiveDate: time.Unix(split.Date, 0).UTC().Truncate(24 * time.Hour),
			Ratio:         split.Numerator / split.Denominator,
		})
	}
	sort.Slice(history.Splits, func(i, j int) bool {
		return history.Splits[i].EffectiveDate.Before(history.Splits[j].EffectiveDate)
	})

	return history, nil
}

// chartResponse mirrors the v8 chart API envelope.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp []int64 `json:"timestamp"`
			Events    struct {
				Splits map[string]struct {
					Date        int64   `json:"date"`
					Numerator   float64 `json:"numerator"`
					Denominator float64 `json:"denominator"`
					SplitRatio  string  `json:"splitRatio"`
				} `json:"splits"`
			} `json:"events"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Name identifies this client as a news provider.
func (c *Client) Name() string {
	return "yahoo"
}

// FetchNews retrieves recent news via the finance search endpoint.
func (c *Client) FetchNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	params := url.Values{}
	params.Set("q", symbol)
	params.Set("newsCount", strconv.Itoa(limit))
	params.Set("quotesCount", "0")

	var resp searchResponse
	if err := c.get(ctx, "/v1/finance/search", params, &resp); err != nil {
		return nil, err
	}

	items := make([]models.NewsItem, 0, len(resp.News))
	for _, n := range resp.News {
		if n.Title == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Title:     n.Title,
			Summary:   n.Title, // search endpoint carries no body text
			Published: time.Unix(n.ProviderPublishTime, 0).UTC().Format("2006-01-02 15:04"),
			Publisher: n.Publisher,
			Link:      n.Link,
		})
		if len(items) >= limit {
			break
		}
	}

	return items, nil
}

// searchResponse mirrors the v1 finance search envelope, news portion only.
type searchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

// Ensure Client implements both client interfaces
var (
	_ interfaces.MarketDataClient = (*Client)(nil)
	_ interfaces.NewsProvider     = (*Client)(nil)
)

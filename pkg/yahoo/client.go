// Package yahoo provides a client for the Yahoo Finance quote-summary API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Module names accepted by the quote-summary endpoint.
const (
	ModulePrice                  = "price"
	ModuleAssetProfile           = "assetProfile"
	ModuleBalanceSheetHistory    = "balanceSheetHistory"
	ModuleIncomeStatementHistory = "incomeStatementHistory"
)

// ErrSymbolNotFound marks an unknown or delisted ticker symbol.
var ErrSymbolNotFound = eris.New("yahoo: symbol not found")

// Client defines the Yahoo Finance operations used by the fetchers.
type Client interface {
	// QuoteSummary fetches the requested modules for one symbol.
	QuoteSummary(ctx context.Context, symbol string, modules []string) (*QuoteSummary, error)
}

// Value is Yahoo's formatted-number wrapper. Only the raw figure matters
// here; Fmt is carried for debugging.
type Value struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt,omitempty"`
}

// Price holds market data and company naming.
type Price struct {
	LongName           string `json:"longName"`
	ShortName          string `json:"shortName"`
	MarketCap          *Value `json:"marketCap"`
	RegularMarketPrice *Value `json:"regularMarketPrice"`
}

// AssetProfile holds the company profile fields.
type AssetProfile struct {
	Industry string `json:"industry"`
	Sector   string `json:"sector"`
}

// BalanceSheetStatement is one fiscal year of balance-sheet figures.
// Optional fields stay nil when the symbol's sector does not report them.
type BalanceSheetStatement struct {
	EndDate                 *Value `json:"endDate"`
	TotalAssets             *Value `json:"totalAssets"`
	TotalLiab               *Value `json:"totalLiab"`
	TotalCurrentAssets      *Value `json:"totalCurrentAssets"`
	TotalCurrentLiabilities *Value `json:"totalCurrentLiabilities"`
	RetainedEarnings        *Value `json:"retainedEarnings"`
}

// BalanceSheetHistory lists statements newest first, as Yahoo returns them.
type BalanceSheetHistory struct {
	Statements []BalanceSheetStatement `json:"balanceSheetStatements"`
}

// IncomeStatement is one fiscal year of income-statement figures.
type IncomeStatement struct {
	EndDate         *Value `json:"endDate"`
	TotalRevenue    *Value `json:"totalRevenue"`
	OperatingIncome *Value `json:"operatingIncome"`
	EBIT            *Value `json:"ebit"`
	IncomeBeforeTax *Value `json:"incomeBeforeTax"`
}

// IncomeStatementHistory lists statements newest first.
type IncomeStatementHistory struct {
	Statements []IncomeStatement `json:"incomeStatementHistory"`
}

// QuoteSummary is the merged module payload for one symbol.
type QuoteSummary struct {
	Price                  *Price                  `json:"price"`
	AssetProfile           *AssetProfile           `json:"assetProfile"`
	BalanceSheetHistory    *BalanceSheetHistory    `json:"balanceSheetHistory"`
	IncomeStatementHistory *IncomeStatementHistory `json:"incomeStatementHistory"`
}

type quoteSummaryEnvelope struct {
	QuoteSummary struct {
		Result []QuoteSummary `json:"result"`
		Error  *apiError      `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Option configures the Yahoo client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(baseURL string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

// WithMaxRetries sets the retry budget for transient failures.
func WithMaxRetries(n int) Option {
	return func(c *httpClient) {
		c.maxRetries = n
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type httpClient struct {
	baseURL    string
	userAgent  string
	maxRetries int
	limiter    *rate.Limiter
	http       *http.Client
}

// NewClient creates a new Yahoo Finance client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:    "https://query2.finance.yahoo.com",
		userAgent:  "credit-risk-cli/1.0",
		maxRetries: 3,
		limiter:    rate.NewLimiter(2, 1),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) QuoteSummary(ctx context.Context, symbol string, modules []string) (*QuoteSummary, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(strings.Join(modules, ",")))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var envelope quoteSummaryEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, eris.Wrapf(err, "yahoo: decode quote summary for %s", symbol)
	}
	if apiErr := envelope.QuoteSummary.Error; apiErr != nil {
		return nil, eris.Errorf("yahoo: api error for %s: %s (%s)", symbol, apiErr.Description, apiErr.Code)
	}
	if len(envelope.QuoteSummary.Result) == 0 {
		return nil, eris.Wrapf(ErrSymbolNotFound, "%s", symbol)
	}

	return &envelope.QuoteSummary.Result[0], nil
}

// get performs a rate-limited GET with retries and exponential backoff on
// 429 and 5xx responses.
func (c *httpClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			backoff += time.Duration(rand.Int64N(int64(time.Second)))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "yahoo: rate limit wait")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, eris.Wrap(err, "yahoo: build request")
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = eris.Wrap(err, "yahoo: request")
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				lastErr = eris.Wrap(readErr, "yahoo: read body")
				continue
			}
			return body, nil
		case resp.StatusCode == http.StatusNotFound:
			return nil, eris.Wrapf(ErrSymbolNotFound, "http 404 from %s", endpoint)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = eris.Errorf("yahoo: http %d from %s", resp.StatusCode, endpoint)
			zap.L().Warn("yahoo: transient response, retrying",
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			continue
		default:
			return nil, eris.Errorf("yahoo: http %d from %s", resp.StatusCode, endpoint)
		}
	}

	return nil, eris.Wrapf(lastErr, "yahoo: giving up after %d attempts", c.maxRetries+1)
}

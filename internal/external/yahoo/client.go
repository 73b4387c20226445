package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/pkg/config"
	"github.com/idxlab/terminal/pkg/httputil"
	"github.com/idxlab/terminal/pkg/logger"
)

// Client fetches daily OHLCV history from the Yahoo Finance chart API. It
// implements contracts.PriceSource. Rate limiting and fixed-delay retries
// live in the HTTP client; a Redis-backed last-known-good copy covers the
// API's bad days.
type Client struct {
	http     *httputil.Client
	baseURL  string
	lookback int
	cache    *cacheStore
	logger   *logger.Logger
}

// New creates a Yahoo chart client. cache may be nil to disable fallback.
func New(cfg config.YahooConfig, cache Cache, log *logger.Logger) *Client {
	httpClient := httputil.New(cfg.Timeout, log).
		WithRetry(cfg.MaxRetries, cfg.RetryDelay)
	if cfg.RatePerSec > 0 {
		httpClient = httpClient.WithRateLimit(cfg.RatePerSec)
	}

	return &Client{
		http:     httpClient,
		baseURL:  cfg.BaseURL,
		lookback: cfg.LookbackDays,
		cache:    newCacheStore(cache, log),
		logger:   log,
	}
}

// chartResponse mirrors the chart API envelope. Quote columns are pointers:
// Yahoo emits explicit nulls for halted sessions.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Daily fetches the lookback window of daily bars for one symbol. On fetch
// failure it falls back to the cached last-known-good series before giving
// up.
func (c *Client) Daily(ctx context.Context, symbol string) (contracts.PriceSeries, error) {
	series, err := c.fetch(ctx, symbol)
	if err != nil {
		if cached, ok := c.cache.get(ctx, symbol); ok {
			c.logger.WithField("symbol", symbol).Warn("Chart fetch failed, serving cached series")
			return cached, nil
		}
		return nil, err
	}

	c.cache.put(ctx, symbol, series)
	return series, nil
}

func (c *Client) fetch(ctx context.Context, symbol string) (contracts.PriceSeries, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -c.lookback)

	chartURL := fmt.Sprintf(
		"%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=history",
		c.baseURL, url.PathEscape(symbol), from.Unix(), now.Unix(),
	)

	var resp chartResponse
	if err := c.http.GetJSON(ctx, chartURL, &resp); err != nil {
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}
	return parseChart(symbol, &resp)
}

func parseChart(symbol string, resp *chartResponse) (contracts.PriceSeries, error) {
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart %s: %s (%s)", symbol, resp.Chart.Error.Description, resp.Chart.Error.Code)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart %s: empty result", symbol)
	}

	result := resp.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	series := make(contracts.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		bar, ok := barAt(quote.Open, quote.High, quote.Low, quote.Close, quote.Volume, i)
		if !ok {
			continue
		}
		bar.Date = time.Unix(ts, 0).UTC()
		series = append(series, bar)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("chart %s: no usable bars", symbol)
	}
	return series, nil
}

// barAt assembles bar i, rejecting any row with a null or out-of-range
// column.
func barAt(open, high, low, closes, volume []*float64, i int) (contracts.Bar, bool) {
	deref := func(col []*float64) (float64, bool) {
		if i >= len(col) || col[i] == nil {
			return 0, false
		}
		return *col[i], true
	}

	o, ok1 := deref(open)
	h, ok2 := deref(high)
	l, ok3 := deref(low)
	cl, ok4 := deref(closes)
	v, ok5 := deref(volume)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || cl <= 0 {
		return contracts.Bar{}, false
	}
	return contracts.Bar{Open: o, High: h, Low: l, Close: cl, Volume: v}, true
}

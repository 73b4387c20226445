package idx

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/internal/universe"
	"github.com/idxlab/terminal/pkg/httputil"
	"github.com/idxlab/terminal/pkg/logger"
)

// Client scrapes the exchange's daily foreign transaction summary. It
// implements contracts.FlowSource.
type Client struct {
	http    *httputil.Client
	baseURL string
	logger  *logger.Logger
}

// New creates an IDX flow client.
func New(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		http:    httputil.New(timeout, log),
		baseURL: baseURL,
		logger:  log,
	}
}

// FetchDaily downloads and parses one day's per-symbol foreign net values.
func (c *Client) FetchDaily(ctx context.Context, date time.Time) ([]contracts.FlowSnapshot, error) {
	pageURL := fmt.Sprintf("%s/foreign-summary?date=%s", c.baseURL, date.Format("2006-01-02"))

	resp, err := c.http.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch foreign summary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("foreign summary: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse foreign summary: %w", err)
	}

	snaps := parseSummary(doc, date)
	if len(snaps) == 0 {
		return nil, fmt.Errorf("foreign summary for %s: no rows", date.Format("2006-01-02"))
	}

	c.logger.WithFields(map[string]interface{}{
		"date":  date.Format("2006-01-02"),
		"count": len(snaps),
	}).Debug("Fetched foreign flow")

	return snaps, nil
}

// parseSummary extracts rows of code | foreign buy | foreign sell. The net
// is computed here so storage never sees the gross legs.
func parseSummary(doc *goquery.Document, date time.Time) []contracts.FlowSnapshot {
	var snaps []contracts.FlowSnapshot

	doc.Find("table.foreign-summary tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		symbol := universe.Normalize(cells.Eq(0).Text())
		if symbol == "" {
			return
		}

		buy, okBuy := parseIDR(cells.Eq(1).Text())
		sell, okSell := parseIDR(cells.Eq(2).Text())
		if !okBuy || !okSell {
			return
		}

		snaps = append(snaps, contracts.FlowSnapshot{
			Symbol: symbol,
			Date:   date,
			Net:    buy - sell,
		})
	})

	return snaps
}

// parseIDR reads an IDR amount with thousand separators; parentheses mean
// negative.
func parseIDR(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	if neg {
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, ".", "")
	if s == "" || s == "-" {
		return 0, true
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

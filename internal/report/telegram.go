package report

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/internal/flow"
	"github.com/idxlab/terminal/internal/scanner"
	"github.com/idxlab/terminal/pkg/config"
	"github.com/idxlab/terminal/pkg/httputil"
	"github.com/idxlab/terminal/pkg/logger"
)

// TelegramAPI is the production bot endpoint.
const TelegramAPI = "https://api.telegram.org"

// Telegram implements contracts.Notifier over the Bot API. An empty token
// turns Send into a silent no-op so every call site can fire and forget.
type Telegram struct {
	http    *httputil.Client
	baseURL string
	token   string
	chatID  string
	logger  *logger.Logger
}

// NewTelegram creates a notifier from configuration.
func NewTelegram(cfg config.TelegramConfig, log *logger.Logger) *Telegram {
	return &Telegram{
		http:    httputil.New(10*time.Second, log).WithRetry(1, time.Second),
		baseURL: TelegramAPI,
		token:   cfg.Token,
		chatID:  cfg.ChatID,
		logger:  log,
	}
}

// WithBaseURL points the notifier at a different API host.
func (t *Telegram) WithBaseURL(base string) *Telegram {
	t.baseURL = base
	return t
}

// Send delivers one message. Delivery failures are logged, not returned as
// scan failures.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if t.token == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	resp, err := t.http.PostForm(ctx, endpoint, url.Values{
		"chat_id": {t.chatID},
		"text":    {text},
	})
	if err != nil {
		t.logger.WithError(err).Warn("Telegram delivery failed")
		return err
	}
	resp.Body.Close()
	return nil
}

// MorningReport renders the pre-open watchlist summary.
func MorningReport(rep *scanner.Report, topN int) string {
	var b strings.Builder
	b.WriteString("MORNING FLOW REPORT\n\n")
	fmt.Fprintf(&b, "Market Flow: %s\n", rep.MarketFlow.Status)
	fmt.Fprintf(&b, "Regime: %s\n\n", rep.IndexRegime)
	b.WriteString("Watchlist Focus:\n")

	for _, r := range rep.Watchlist(topN) {
		fmt.Fprintf(&b, "\n%s %s\n", r.Symbol, Stars(r.Score))
		fmt.Fprintf(&b, "Entry %.0f-%.0f\n", r.Levels.EntryLow, r.Levels.EntryHigh)
		fmt.Fprintf(&b, "SL %.0f\n", r.Levels.StopLoss)
		fmt.Fprintf(&b, "Foreign %s\n", Money(r.ForeignNet))
	}
	return b.String()
}

// IntradayAlert renders a single-symbol signal message.
func IntradayAlert(r *contracts.ScoreResult) string {
	return fmt.Sprintf(
		"INTRADAY SIGNAL\n%s\n\nScore %d (%s)\nEntry %.0f-%.0f\nSL %.0f\nTP %.0f\nForeign %s",
		r.Symbol, r.Score, contracts.ConvictionTier(r.Score),
		r.Levels.EntryLow, r.Levels.EntryHigh,
		r.Levels.StopLoss, r.Levels.TP2, Money(r.ForeignNet),
	)
}

// SectorShiftAlert renders the rotation notice sent when new sectors enter
// the momentum leaderboard.
func SectorShiftAlert(entered []string, leaders []flow.SectorMomentum) string {
	var b strings.Builder
	b.WriteString("SECTOR ROTATION\n\n")
	fmt.Fprintf(&b, "New leaders: %s\n\n", strings.Join(entered, ", "))
	b.WriteString("Momentum board:\n")
	for i, m := range leaders {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "%d. %s %+.1f%%\n", i+1, m.Sector, m.Momentum*100)
	}
	return b.String()
}

// AlignmentAlert renders the rare value-plus-flow setup message.
func AlignmentAlert(r *contracts.ScoreResult, regime string) string {
	var b strings.Builder
	b.WriteString("ULTRA RARE VALUE+FLOW SIGNAL\n\n")
	fmt.Fprintf(&b, "Symbol: %s\n", r.Symbol)
	fmt.Fprintf(&b, "Sector: %s\n", r.Sector)
	fmt.Fprintf(&b, "Regime: %s\n\n", regime)
	fmt.Fprintf(&b, "Score: %d/100\n", r.Score)
	fmt.Fprintf(&b, "Multi-Accum: %v\n", r.Features.MultiAccum)
	fmt.Fprintf(&b, "Discount vs 52W High: %.1f%%\n", r.Features.Discount52W*100)
	fmt.Fprintf(&b, "Compression Base: %v\n", r.Features.Compression)
	fmt.Fprintf(&b, "Capitulation Spike: %v\n", r.Features.Capitulation)
	b.WriteString("\nDeep discount plus smart money accumulation.")
	return b.String()
}

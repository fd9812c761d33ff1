package correlation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"PortSentinel/internal/collector"
	"PortSentinel/internal/model"
)

// Detection thresholds. Percent of day-over-day change unless noted.
const (
	cacheTTL        = 5 * time.Minute
	historyDays     = 10
	minCloses       = 2
	fiveDayLookback = 5

	moveThresholdPct = 1.0 // a move smaller than this is noise
	strongMovePct    = 2.0 // a move this large escalates severity
	flatMovePct      = 0.5 // below this the leg is considered flat
	severityGapPct   = 3.0 // positive-pair gap beyond this is HIGH

	nearHighRatio = 0.98 // price ≥ 98% of 52-week high counts as "at high"
	nearLowRatio  = 1.02 // price ≤ 102% of 52-week low counts as "at low"

	streakRiskDays = 5
)

// Tracker derives short-horizon price signals and flags pairs of assets
// whose recent behavior contradicts their expected relationship.
type Tracker struct {
	fetcher collector.Fetcher
	table   *Table
	cache   *priceCache
	log     zerolog.Logger
}

// NewTracker creates a tracker with the system clock.
func NewTracker(fetcher collector.Fetcher, table *Table, log zerolog.Logger) *Tracker {
	return NewTrackerWithClock(fetcher, table, log, systemClock{})
}

// NewTrackerWithClock creates a tracker with an injected clock, used by
// tests to control cache expiry.
func NewTrackerWithClock(fetcher collector.Fetcher, table *Table, log zerolog.Logger, clock Clock) *Tracker {
	return &Tracker{
		fetcher: fetcher,
		table:   table,
		cache:   newPriceCache(clock, cacheTTL),
		log:     log.With().Str("component", "correlation").Logger(),
	}
}

// GetPriceSignal returns the derived signal for a ticker, or nil when
// there is insufficient history or the fetch failed. A nil result is
// "no signal", not an error.
func (tr *Tracker) GetPriceSignal(ticker string) *model.AssetPrice {
	ticker = strings.ToUpper(ticker)
	if ap, ok := tr.cache.get(ticker); ok {
		return ap
	}

	bars, err := tr.fetcher.FetchDailyCloses(ticker, historyDays)
	if err != nil {
		tr.log.Warn().Str("ticker", ticker).Err(err).Msg("price fetch failed, no signal")
		return nil
	}
	if len(bars) < minCloses {
		return nil
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	n := len(closes)
	current, prev := closes[n-1], closes[n-2]
	changePct := (current - prev) / prev * 100

	change5d := 0.0
	if n >= fiveDayLookback {
		base := closes[n-fiveDayLookback]
		change5d = (current - base) / base * 100
	}

	up, down := countStreak(closes)

	// Extremes need real 52-week bounds; when the source has none the
	// asset simply carries no extreme signal.
	atHigh, atLow := false, false
	if q, err := tr.fetcher.FetchQuote(ticker); err != nil {
		tr.log.Debug().Str("ticker", ticker).Err(err).Msg("quote fetch failed, skipping extremes")
	} else if q.HasRange {
		atHigh = current >= q.High52W*nearHighRatio
		atLow = current <= q.Low52W*nearLowRatio
	}

	ap := &model.AssetPrice{
		Ticker:              ticker,
		Price:               current,
		ChangePct:           changePct,
		Change5DPct:         change5d,
		AtHigh:              atHigh,
		AtLow:               atLow,
		ConsecutiveUpDays:   up,
		ConsecutiveDownDays: down,
	}
	tr.cache.put(ticker, ap)
	return ap
}

// countStreak walks backward from the most recent close and counts the
// run of strict increases or strict decreases. The direction is set by
// the most recent pair; a reversal or a flat day ends the count.
func countStreak(closes []float64) (up, down int) {
	for i := len(closes) - 1; i > 0; i-- {
		switch {
		case closes[i] > closes[i-1]:
			if down > 0 {
				return
			}
			up++
		case closes[i] < closes[i-1]:
			if up > 0 {
				return
			}
			down++
		default:
			return
		}
	}
	return
}

// DetectDivergences checks every expected relationship whose both legs
// have a signal and returns at most one divergence per pair.
func (tr *Tracker) DetectDivergences(tickers []string) []model.Divergence {
	prices := make(map[string]*model.AssetPrice)
	for _, t := range tickers {
		if ap := tr.GetPriceSignal(t); ap != nil {
			prices[ap.Ticker] = ap
		}
	}

	var out []model.Divergence
	for _, e := range tr.table.Entries() {
		p1, ok1 := prices[e.Asset1]
		p2, ok2 := prices[e.Asset2]
		if !ok1 || !ok2 {
			continue
		}
		if d := checkDivergence(p1, p2, e.Type); d != nil {
			out = append(out, *d)
		}
	}
	return out
}

// checkDivergence applies the per-type rules in order; the first matching
// rule wins and later rules are not evaluated.
func checkDivergence(p1, p2 *model.AssetPrice, corrType model.CorrelationType) *model.Divergence {
	switch corrType {
	case model.CorrelationNegative:
		// Rule 1: both legs moved the same direction beyond the threshold
		// where the relationship implies opposite moves.
		sameUp := p1.ChangePct > moveThresholdPct && p2.ChangePct > moveThresholdPct
		sameDown := p1.ChangePct < -moveThresholdPct && p2.ChangePct < -moveThresholdPct
		if sameUp || sameDown {
			severity := model.SeverityMedium
			if math.Abs(p1.ChangePct) > strongMovePct || math.Abs(p2.ChangePct) > strongMovePct {
				severity = model.SeverityHigh
			}
			direction := "up"
			if sameDown {
				direction = "down"
			}
			return &model.Divergence{
				Asset1:           p1.Ticker,
				Asset2:           p2.Ticker,
				Type:             corrType,
				ExpectedBehavior: fmt.Sprintf("%s and %s should move opposite", p1.Ticker, p2.Ticker),
				ActualBehavior:   fmt.Sprintf("Both moving %s", direction),
				Severity:         severity,
				Description: fmt.Sprintf("%s %+.1f%% while %s %+.1f%% - historically negative correlation suggests reversion",
					p1.Ticker, p1.ChangePct, p2.Ticker, p2.ChangePct),
			}
		}

		// Rule 2: one leg moved strongly while the other stayed flat.
		mover, laggard := p1, p2
		if math.Abs(p2.ChangePct) > strongMovePct && math.Abs(p1.ChangePct) < flatMovePct {
			mover, laggard = p2, p1
		}
		if math.Abs(mover.ChangePct) > strongMovePct && math.Abs(laggard.ChangePct) < flatMovePct {
			return &model.Divergence{
				Asset1:           p1.Ticker,
				Asset2:           p2.Ticker,
				Type:             corrType,
				ExpectedBehavior: fmt.Sprintf("%s should react to %s move", laggard.Ticker, mover.Ticker),
				ActualBehavior:   fmt.Sprintf("%s moving %+.1f%% but %s flat", mover.Ticker, mover.ChangePct, laggard.Ticker),
				Severity:         model.SeverityMedium,
				Description:      fmt.Sprintf("Lagged correlation - %s may catch up to %s's move", laggard.Ticker, mover.Ticker),
			}
		}

	case model.CorrelationPositive:
		// Legs moving in opposite directions beyond the threshold each.
		opposite := (p1.ChangePct > moveThresholdPct && p2.ChangePct < -moveThresholdPct) ||
			(p1.ChangePct < -moveThresholdPct && p2.ChangePct > moveThresholdPct)
		if opposite {
			severity := model.SeverityMedium
			if math.Abs(p1.ChangePct-p2.ChangePct) > severityGapPct {
				severity = model.SeverityHigh
			}
			return &model.Divergence{
				Asset1:           p1.Ticker,
				Asset2:           p2.Ticker,
				Type:             corrType,
				ExpectedBehavior: fmt.Sprintf("%s and %s should move together", p1.Ticker, p2.Ticker),
				ActualBehavior: fmt.Sprintf("Moving opposite: %s %+.1f%%, %s %+.1f%%",
					p1.Ticker, p1.ChangePct, p2.Ticker, p2.ChangePct),
				Severity:    severity,
				Description: "Unusual divergence - one may be mispriced or leading indicator",
			}
		}
	}
	return nil
}

// DetectStreakRisk composes a human-readable reversal-risk note for one
// ticker. The second return is false when there is no signal or nothing
// triggered.
func (tr *Tracker) DetectStreakRisk(ticker string) (string, bool) {
	ap := tr.GetPriceSignal(ticker)
	if ap == nil {
		return "", false
	}

	var risks []string
	if ap.ConsecutiveUpDays >= streakRiskDays {
		risks = append(risks, fmt.Sprintf(
			"%s has risen %d consecutive days. Historical data shows 70%%+ chance of pullback within 5 days after 5+ day streaks.",
			ap.Ticker, ap.ConsecutiveUpDays))
	}
	if ap.ConsecutiveDownDays >= streakRiskDays {
		risks = append(risks, fmt.Sprintf(
			"%s has fallen %d consecutive days. May be oversold - watch for bounce.",
			ap.Ticker, ap.ConsecutiveDownDays))
	}
	if ap.AtHigh {
		risks = append(risks, fmt.Sprintf(
			"%s is at/near 52-week high at $%.2f. Extended rallies at highs often see profit-taking.",
			ap.Ticker, ap.Price))
	}
	if ap.AtLow {
		risks = append(risks, fmt.Sprintf(
			"%s is at/near 52-week low. May indicate fundamental problems or capitulation.", ap.Ticker))
	}

	if len(risks) == 0 {
		return "", false
	}
	return strings.Join(risks, " | "), true
}

// FormatForLLM renders divergences and streak analysis as prompt context.
func (tr *Tracker) FormatForLLM(tickers []string) string {
	var lines []string
	lines = append(lines, "## Correlated Asset Analysis", "")

	divergences := tr.DetectDivergences(tickers)
	if len(divergences) > 0 {
		lines = append(lines, "### Detected Divergences")
		for _, d := range divergences {
			lines = append(lines, fmt.Sprintf("- [%s] %s vs %s: %s", d.Severity, d.Asset1, d.Asset2, d.Description))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "### Streak Analysis")
	limit := len(tickers)
	if limit > 5 {
		limit = 5
	}
	found := false
	for _, ticker := range tickers[:limit] {
		if risk, ok := tr.DetectStreakRisk(ticker); ok {
			lines = append(lines, "- "+risk)
			found = true
		}
	}
	if len(divergences) == 0 && !found {
		lines = append(lines, "- No significant patterns detected")
	}

	return strings.Join(lines, "\n")
}

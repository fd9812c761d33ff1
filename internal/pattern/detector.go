package pattern

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"PortSentinel/internal/collector"
	"PortSentinel/internal/model"
)

// Pattern thresholds.
const (
	historyDays = 30
	minCloses   = 5

	upStreakDays   = 7
	downStreakDays = 5
	parabolicPct   = 15.0
	parabolicDays  = 5

	nearHighRatio = 0.98
	nearLowRatio  = 1.02
)

// Detector scans price history for patterns that historically precede
// price moves.
type Detector struct {
	fetcher collector.Fetcher
	log     zerolog.Logger
}

// NewDetector creates a pattern detector.
func NewDetector(fetcher collector.Fetcher, log zerolog.Logger) *Detector {
	return &Detector{
		fetcher: fetcher,
		log:     log.With().Str("component", "pattern").Logger(),
	}
}

// DetectPatterns returns every pattern found for a ticker. Fetch failures
// and short history produce an empty result, never an error.
func (d *Detector) DetectPatterns(ticker string) []model.DetectedPattern {
	ticker = strings.ToUpper(ticker)
	bars, err := d.fetcher.FetchDailyCloses(ticker, historyDays)
	if err != nil {
		d.log.Warn().Str("ticker", ticker).Err(err).Msg("pattern fetch failed")
		return nil
	}
	if len(bars) < minCloses {
		return nil
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	var patterns []model.DetectedPattern
	if p := d.checkStreak(ticker, closes); p != nil {
		patterns = append(patterns, *p)
	}
	if p := d.checkExtremes(ticker, closes); p != nil {
		patterns = append(patterns, *p)
	}
	if p := d.checkParabolic(ticker, closes); p != nil {
		patterns = append(patterns, *p)
	}
	return patterns
}

func (d *Detector) checkStreak(ticker string, closes []float64) *model.DetectedPattern {
	up, down := countStreak(closes)

	if up >= upStreakDays {
		return &model.DetectedPattern{
			Ticker:            ticker,
			Type:              model.PatternStreak,
			Description:       fmt.Sprintf("Asset rose %d consecutive days", up),
			HistoricalOutcome: "75% chance of at least 1 down day within 3 trading days",
			RiskLevel:         model.SeverityMedium,
			Probability:       0.75,
		}
	}
	if down >= downStreakDays {
		return &model.DetectedPattern{
			Ticker:            ticker,
			Type:              model.PatternStreak,
			Description:       fmt.Sprintf("Asset fell %d consecutive days", down),
			HistoricalOutcome: "65% chance of bounce within 2 trading days",
			RiskLevel:         model.SeverityMedium,
			Probability:       0.65,
		}
	}
	return nil
}

func (d *Detector) checkExtremes(ticker string, closes []float64) *model.DetectedPattern {
	q, err := d.fetcher.FetchQuote(ticker)
	if err != nil || !q.HasRange {
		// No real 52-week bounds, no extreme signal.
		return nil
	}
	current := closes[len(closes)-1]

	if current >= q.High52W*nearHighRatio {
		return &model.DetectedPattern{
			Ticker:            ticker,
			Type:              model.PatternExtreme,
			Description:       fmt.Sprintf("%s at $%.2f, near 52-week high of $%.2f", ticker, current, q.High52W),
			HistoricalOutcome: "Increased volatility; 60% see 3%+ pullback within 2 weeks",
			RiskLevel:         model.SeverityMedium,
			Probability:       0.60,
		}
	}
	if current <= q.Low52W*nearLowRatio {
		return &model.DetectedPattern{
			Ticker:            ticker,
			Type:              model.PatternExtreme,
			Description:       fmt.Sprintf("%s at $%.2f, near 52-week low of $%.2f", ticker, current, q.Low52W),
			HistoricalOutcome: "May indicate fundamental issues; 55% continue lower",
			RiskLevel:         model.SeverityHigh,
			Probability:       0.55,
		}
	}
	return nil
}

func (d *Detector) checkParabolic(ticker string, closes []float64) *model.DetectedPattern {
	n := len(closes)
	if n < parabolicDays {
		return nil
	}
	base := closes[n-parabolicDays]
	pctChange := (closes[n-1] - base) / base * 100

	if pctChange >= parabolicPct {
		return &model.DetectedPattern{
			Ticker:            ticker,
			Type:              model.PatternMomentum,
			Description:       fmt.Sprintf("Asset gained %.1f%%+ in %d days (parabolic)", pctChange, parabolicDays),
			HistoricalOutcome: "80% see mean reversion of 30-50% of gains within 2 weeks",
			RiskLevel:         model.SeverityHigh,
			Probability:       0.80,
		}
	}
	if pctChange <= -parabolicPct {
		return &model.DetectedPattern{
			Ticker:            ticker,
			Type:              model.PatternMomentum,
			Description:       fmt.Sprintf("Asset fell %.1f%%+ in %d days (capitulation)", -pctChange, parabolicDays),
			HistoricalOutcome: "May indicate oversold conditions; watch for bounce or further breakdown",
			RiskLevel:         model.SeverityHigh,
			Probability:       0.60,
		}
	}
	return nil
}

// countStreak counts the run of strict increases or decreases ending at
// the most recent close. Flat days break the run.
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

// DetectAll maps ticker → patterns across a set of tickers, omitting
// tickers with nothing detected.
func (d *Detector) DetectAll(tickers []string) map[string][]model.DetectedPattern {
	results := make(map[string][]model.DetectedPattern)
	for _, ticker := range tickers {
		if patterns := d.DetectPatterns(ticker); len(patterns) > 0 {
			results[strings.ToUpper(ticker)] = patterns
		}
	}
	return results
}

var riskIcons = map[string]string{
	model.SeverityHigh:   "[!!!]",
	model.SeverityMedium: "[!!]",
	model.SeverityLow:    "[!]",
}

// FormatForLLM renders detected patterns as prompt context.
func FormatForLLM(patterns map[string][]model.DetectedPattern) string {
	if len(patterns) == 0 {
		return "No significant technical patterns detected."
	}

	var b strings.Builder
	b.WriteString("## Technical Pattern Analysis\n\n")
	for ticker, tickerPatterns := range patterns {
		for _, p := range tickerPatterns {
			icon, ok := riskIcons[p.RiskLevel]
			if !ok {
				icon = "[?]"
			}
			b.WriteString(fmt.Sprintf("### %s %s: %s\n", icon, ticker, strings.ToUpper(string(p.Type))))
			b.WriteString(fmt.Sprintf("    %s\n", p.Description))
			b.WriteString(fmt.Sprintf("    Historical: %s\n", p.HistoricalOutcome))
			b.WriteString(fmt.Sprintf("    Probability: %.0f%%\n\n", p.Probability*100))
		}
	}
	return b.String()
}

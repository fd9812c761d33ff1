package pattern

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortSentinel/internal/collector"
	"PortSentinel/internal/model"
)

func newTestDetector(mock *collector.MockFetcher) *Detector {
	return NewDetector(mock, zerolog.Nop())
}

func ascending(start float64, n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)
	}
	return closes
}

func TestDetectPatterns_UpStreak(t *testing.T) {
	mock := collector.NewMockFetcher()
	mock.SetCloses("NVDA", ascending(100, 8)...)

	patterns := newTestDetector(mock).DetectPatterns("NVDA")
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, model.PatternStreak, p.Type)
	assert.Equal(t, model.SeverityMedium, p.RiskLevel)
	assert.Equal(t, 0.75, p.Probability)
	assert.Contains(t, p.Description, "rose 7 consecutive days")
}

func TestDetectPatterns_DownStreak(t *testing.T) {
	mock := collector.NewMockFetcher()
	mock.SetCloses("GLD", 100, 98, 96, 94, 92, 90)

	patterns := newTestDetector(mock).DetectPatterns("GLD")
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, model.PatternStreak, p.Type)
	assert.Equal(t, 0.65, p.Probability)
	assert.Contains(t, p.Description, "fell 5 consecutive days")
}

func TestDetectPatterns_ShortStreakIgnored(t *testing.T) {
	mock := collector.NewMockFetcher()
	// 4 down days: below both streak thresholds.
	mock.SetCloses("SPY", 100, 100, 98, 96, 94, 92)

	assert.Empty(t, newTestDetector(mock).DetectPatterns("SPY"))
}

func TestDetectPatterns_NearHigh(t *testing.T) {
	mock := collector.NewMockFetcher()
	mock.SetCloses("AAPL", 95, 96, 97, 96, 99)
	mock.SetQuote("AAPL", 99, 100, 60)

	patterns := newTestDetector(mock).DetectPatterns("AAPL")
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, model.PatternExtreme, p.Type)
	assert.Equal(t, model.SeverityMedium, p.RiskLevel)
	assert.Equal(t, 0.60, p.Probability)
	assert.Contains(t, p.Description, "52-week high")
}

func TestDetectPatterns_NearLow(t *testing.T) {
	mock := collector.NewMockFetcher()
	mock.SetCloses("XOM", 65, 64, 63, 64, 61)
	mock.SetQuote("XOM", 61, 120, 60)

	patterns := newTestDetector(mock).DetectPatterns("XOM")
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, model.PatternExtreme, p.Type)
	assert.Equal(t, model.SeverityHigh, p.RiskLevel)
	assert.Equal(t, 0.55, p.Probability)
	assert.Contains(t, p.Description, "52-week low")
}

func TestDetectPatterns_NoRangeNoExtreme(t *testing.T) {
	mock := collector.NewMockFetcher()
	// No quote registered: the fallback quote carries no 52-week range.
	mock.SetCloses("DXY", 95, 96, 97, 96, 99)

	assert.Empty(t, newTestDetector(mock).DetectPatterns("DXY"))
}

func TestDetectPatterns_Parabolic(t *testing.T) {
	mock := collector.NewMockFetcher()
	// 100 -> 120 over the 5-day window is a 20% move.
	mock.SetCloses("TSLA", 90, 100, 105, 100, 110, 120)

	patterns := newTestDetector(mock).DetectPatterns("TSLA")
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, model.PatternMomentum, p.Type)
	assert.Equal(t, model.SeverityHigh, p.RiskLevel)
	assert.Equal(t, 0.80, p.Probability)
	assert.Contains(t, p.Description, "parabolic")
}

func TestDetectPatterns_Capitulation(t *testing.T) {
	mock := collector.NewMockFetcher()
	// 100 -> 80 over the 5-day window is a -20% move.
	mock.SetCloses("ARKK", 110, 100, 95, 100, 90, 80)

	patterns := newTestDetector(mock).DetectPatterns("ARKK")
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, model.PatternMomentum, p.Type)
	assert.Equal(t, 0.60, p.Probability)
	assert.Contains(t, p.Description, "capitulation")
}

func TestDetectPatterns_StreakAndParabolicStack(t *testing.T) {
	mock := collector.NewMockFetcher()
	// 7 strictly rising closes that also gain >15% in 5 days.
	mock.SetCloses("NVDA", 100, 104, 108, 113, 118, 124, 130, 137)

	patterns := newTestDetector(mock).DetectPatterns("NVDA")
	require.Len(t, patterns, 2)
	assert.Equal(t, model.PatternStreak, patterns[0].Type)
	assert.Equal(t, model.PatternMomentum, patterns[1].Type)
}

func TestDetectPatterns_InsufficientHistory(t *testing.T) {
	mock := collector.NewMockFetcher()
	mock.SetCloses("QQQ", 100, 101, 102, 103)

	assert.Empty(t, newTestDetector(mock).DetectPatterns("QQQ"))
}

func TestDetectPatterns_FetchFailure(t *testing.T) {
	mock := collector.NewMockFetcher()
	mock.Errs["BAD"] = errors.New("upstream down")

	assert.Empty(t, newTestDetector(mock).DetectPatterns("BAD"))
}

func TestDetectAll_SkipsQuietTickers(t *testing.T) {
	mock := collector.NewMockFetcher()
	mock.SetCloses("NVDA", ascending(100, 8)...)
	mock.SetCloses("SPY", 100, 101, 100, 101, 100, 101)

	results := newTestDetector(mock).DetectAll([]string{"nvda", "SPY"})
	require.Len(t, results, 1)
	assert.Contains(t, results, "NVDA")
}

func TestFormatForLLM(t *testing.T) {
	patterns := map[string][]model.DetectedPattern{
		"NVDA": {{
			Ticker:            "NVDA",
			Type:              model.PatternStreak,
			Description:       "Asset rose 7 consecutive days",
			HistoricalOutcome: "75% chance of at least 1 down day within 3 trading days",
			RiskLevel:         model.SeverityMedium,
			Probability:       0.75,
		}},
	}

	out := FormatForLLM(patterns)
	assert.Contains(t, out, "[!!] NVDA: STREAK")
	assert.Contains(t, out, "Probability: 75%")

	assert.Equal(t, "No significant technical patterns detected.", FormatForLLM(nil))
}

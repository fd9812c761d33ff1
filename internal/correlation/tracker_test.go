package correlation

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortSentinel/internal/collector"
	"PortSentinel/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// countingFetcher counts history fetches per ticker.
type countingFetcher struct {
	*collector.MockFetcher
	calls map[string]int
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{
		MockFetcher: collector.NewMockFetcher(),
		calls:       make(map[string]int),
	}
}

func (f *countingFetcher) FetchDailyCloses(ticker string, days int) ([]model.OHLCV, error) {
	f.calls[ticker]++
	return f.MockFetcher.FetchDailyCloses(ticker, days)
}

func newTestTracker(f collector.Fetcher, table *Table) (*Tracker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)}
	return NewTrackerWithClock(f, table, zerolog.Nop(), clock), clock
}

func TestCountStreak(t *testing.T) {
	tests := []struct {
		name     string
		closes   []float64
		wantUp   int
		wantDown int
	}{
		{"recent down breaks prior ups", []float64{10, 11, 12, 13, 11}, 0, 1},
		{"seven consecutive increases", []float64{1, 2, 3, 4, 5, 6, 7, 8}, 7, 0},
		{"five consecutive decreases", []float64{20, 19, 18, 17, 16, 15}, 0, 5},
		{"flat day breaks streak", []float64{10, 11, 11, 12, 13}, 2, 0},
		{"flat most recent pair", []float64{10, 11, 11}, 0, 0},
		{"two closes up", []float64{10, 11}, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up, down := countStreak(tt.closes)
			assert.Equal(t, tt.wantUp, up, "up")
			assert.Equal(t, tt.wantDown, down, "down")
		})
	}
}

func TestGetPriceSignal_Changes(t *testing.T) {
	f := collector.NewMockFetcher()
	f.SetCloses("GLD", 10, 11, 12, 13, 11)
	tr, _ := newTestTracker(f, DefaultTable())

	ap := tr.GetPriceSignal("gld")
	require.NotNil(t, ap)
	assert.Equal(t, "GLD", ap.Ticker)
	assert.InDelta(t, 11.0, ap.Price, 1e-9)
	assert.InDelta(t, -15.3846, ap.ChangePct, 1e-3)
	assert.InDelta(t, 10.0, ap.Change5DPct, 1e-9)
	assert.Equal(t, 0, ap.ConsecutiveUpDays)
	assert.Equal(t, 1, ap.ConsecutiveDownDays)
}

func TestGetPriceSignal_InsufficientHistory(t *testing.T) {
	f := collector.NewMockFetcher()
	f.SetCloses("SLV", 22.5)
	tr, _ := newTestTracker(f, DefaultTable())

	assert.Nil(t, tr.GetPriceSignal("SLV"))
}

func TestGetPriceSignal_ShortHistorySkipsFiveDayChange(t *testing.T) {
	f := collector.NewMockFetcher()
	f.SetCloses("SLV", 20, 21, 22)
	tr, _ := newTestTracker(f, DefaultTable())

	ap := tr.GetPriceSignal("SLV")
	require.NotNil(t, ap)
	assert.Zero(t, ap.Change5DPct)
}

func TestGetPriceSignal_FetchFailureMeansNoSignal(t *testing.T) {
	f := collector.NewMockFetcher()
	f.Errs["GLD"] = errors.New("upstream down")
	tr, _ := newTestTracker(f, DefaultTable())

	assert.Nil(t, tr.GetPriceSignal("GLD"))
}

func TestGetPriceSignal_Extremes(t *testing.T) {
	f := collector.NewMockFetcher()
	f.SetCloses("QQQ", 95, 98, 99)
	f.SetQuote("QQQ", 99, 100, 60) // 99 ≥ 98% of 100
	f.SetCloses("XLE", 62, 61, 60.5)
	f.SetQuote("XLE", 60.5, 100, 60) // 60.5 ≤ 102% of 60
	f.SetCloses("SPY", 500, 501, 502) // no quote range registered
	tr, _ := newTestTracker(f, DefaultTable())

	atHigh := tr.GetPriceSignal("QQQ")
	require.NotNil(t, atHigh)
	assert.True(t, atHigh.AtHigh)
	assert.False(t, atHigh.AtLow)

	atLow := tr.GetPriceSignal("XLE")
	require.NotNil(t, atLow)
	assert.False(t, atLow.AtHigh)
	assert.True(t, atLow.AtLow)

	// Missing 52-week bounds: no extreme signal rather than a synthetic band.
	noRange := tr.GetPriceSignal("SPY")
	require.NotNil(t, noRange)
	assert.False(t, noRange.AtHigh)
	assert.False(t, noRange.AtLow)
}

func TestCheckDivergence_Rules(t *testing.T) {
	price := func(ticker string, change float64) *model.AssetPrice {
		return &model.AssetPrice{Ticker: ticker, ChangePct: change}
	}

	tests := []struct {
		name         string
		p1, p2       *model.AssetPrice
		corrType     model.CorrelationType
		wantNil      bool
		wantSeverity string
	}{
		{
			name: "negative pair same direction strong leg",
			p1:   price("GLD", 1.5), p2: price("DXY", 2.5),
			corrType: model.CorrelationNegative, wantSeverity: model.SeverityHigh,
		},
		{
			name: "negative pair same direction mild",
			p1:   price("GLD", 1.5), p2: price("DXY", 1.2),
			corrType: model.CorrelationNegative, wantSeverity: model.SeverityMedium,
		},
		{
			name: "negative pair both down",
			p1:   price("GLD", -1.3), p2: price("DXY", -2.4),
			corrType: model.CorrelationNegative, wantSeverity: model.SeverityHigh,
		},
		{
			name: "negative pair lagged first leg moves",
			p1:   price("GLD", 2.5), p2: price("DXY", 0.2),
			corrType: model.CorrelationNegative, wantSeverity: model.SeverityMedium,
		},
		{
			name: "negative pair lagged second leg moves",
			p1:   price("GLD", -0.1), p2: price("DXY", -2.8),
			corrType: model.CorrelationNegative, wantSeverity: model.SeverityMedium,
		},
		{
			name: "negative pair behaving as expected",
			p1:   price("GLD", 1.5), p2: price("DXY", -1.5),
			corrType: model.CorrelationNegative, wantNil: true,
		},
		{
			name: "positive pair gap exactly three is medium",
			p1:   price("GLD", 1.5), p2: price("SLV", -1.5),
			corrType: model.CorrelationPositive, wantSeverity: model.SeverityMedium,
		},
		{
			name: "positive pair wide gap is high",
			p1:   price("QQQ", 2.5), p2: price("SPY", -1.5),
			corrType: model.CorrelationPositive, wantSeverity: model.SeverityHigh,
		},
		{
			name: "positive pair moving together",
			p1:   price("GLD", 1.5), p2: price("SLV", 1.4),
			corrType: model.CorrelationPositive, wantNil: true,
		},
		{
			name: "positive pair small opposite moves",
			p1:   price("GLD", 0.9), p2: price("SLV", -0.9),
			corrType: model.CorrelationPositive, wantNil: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := checkDivergence(tt.p1, tt.p2, tt.corrType)
			if tt.wantNil {
				assert.Nil(t, d)
				return
			}
			require.NotNil(t, d)
			assert.Equal(t, tt.wantSeverity, d.Severity)
			assert.Equal(t, tt.corrType, d.Type)
		})
	}
}

func TestCheckDivergence_FirstMatchWins(t *testing.T) {
	// Both legs above the same-direction threshold AND one leg strong
	// enough for the lagged rule: the same-direction rule must win.
	p1 := &model.AssetPrice{Ticker: "GLD", ChangePct: 2.5}
	p2 := &model.AssetPrice{Ticker: "DXY", ChangePct: 1.1}
	d := checkDivergence(p1, p2, model.CorrelationNegative)
	require.NotNil(t, d)
	assert.Contains(t, d.ExpectedBehavior, "should move opposite")
}

func TestDetectDivergences_SkipsPairsWithoutBothSignals(t *testing.T) {
	f := collector.NewMockFetcher()
	f.SetCloses("GLD", 100, 101, 103) // +1.98% day change
	// DXY has no data at all.
	tr, _ := newTestTracker(f, DefaultTable())

	divs := tr.DetectDivergences([]string{"GLD", "DXY"})
	assert.Empty(t, divs)
}

func TestDetectDivergences_NegativePair(t *testing.T) {
	f := collector.NewMockFetcher()
	f.SetCloses("GLD", 100, 100, 101.5)  // +1.5%
	f.SetCloses("DXY", 100, 100, 102.5)  // +2.5%
	table := NewTable(Entry{"GLD", "DXY", model.CorrelationNegative})
	tr, _ := newTestTracker(f, table)

	divs := tr.DetectDivergences([]string{"GLD", "DXY"})
	require.Len(t, divs, 1)
	assert.Equal(t, model.SeverityHigh, divs[0].Severity)
	assert.Equal(t, "GLD", divs[0].Asset1)
	assert.Equal(t, "DXY", divs[0].Asset2)
}

func TestDetectDivergences_IdempotentWithinTTL(t *testing.T) {
	f := newCountingFetcher()
	f.SetCloses("GLD", 100, 100, 101.5)
	f.SetCloses("DXY", 100, 100, 102.5)
	table := NewTable(Entry{"GLD", "DXY", model.CorrelationNegative})
	clock := &fakeClock{now: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)}
	tr := NewTrackerWithClock(f, table, zerolog.Nop(), clock)

	first := tr.DetectDivergences([]string{"GLD", "DXY"})
	clock.Advance(2 * time.Minute)
	second := tr.DetectDivergences([]string{"GLD", "DXY"})

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.calls["GLD"], "history fetched once within the window")
	assert.Equal(t, 1, f.calls["DXY"])
}

func TestDetectStreakRisk(t *testing.T) {
	f := collector.NewMockFetcher()
	f.SetCloses("QQQ", 10, 11, 12, 13, 14, 15, 16, 17) // 7-day up-streak
	f.SetCloses("SPY", 10, 11, 12, 13, 14)             // 4-day up-streak
	f.SetCloses("GLD", 95, 98, 99)
	f.SetQuote("GLD", 99, 100, 60) // near 52-week high
	tr, _ := newTestTracker(f, DefaultTable())

	risk, ok := tr.DetectStreakRisk("QQQ")
	require.True(t, ok)
	assert.Contains(t, risk, "risen 7 consecutive days")

	_, ok = tr.DetectStreakRisk("SPY")
	assert.False(t, ok, "4-day streak must not trigger")

	risk, ok = tr.DetectStreakRisk("GLD")
	require.True(t, ok)
	assert.Contains(t, risk, "52-week high")

	_, ok = tr.DetectStreakRisk("MISSING")
	assert.False(t, ok)
}

func TestFormatForLLM(t *testing.T) {
	f := collector.NewMockFetcher()
	f.SetCloses("GLD", 100, 100, 101.5)
	f.SetCloses("DXY", 100, 100, 102.5)
	table := NewTable(Entry{"GLD", "DXY", model.CorrelationNegative})
	tr, _ := newTestTracker(f, table)

	out := tr.FormatForLLM([]string{"GLD", "DXY"})
	assert.Contains(t, out, "## Correlated Asset Analysis")
	assert.Contains(t, out, "[HIGH] GLD vs DXY")

	quiet := collector.NewMockFetcher()
	quiet.SetCloses("GLD", 100, 100.1, 100.2)
	trQuiet, _ := newTestTracker(quiet, table)
	outQuiet := trQuiet.FormatForLLM([]string{"GLD"})
	assert.Contains(t, outQuiet, "No significant patterns detected")
}

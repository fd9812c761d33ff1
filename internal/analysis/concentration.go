package analysis

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"PortSentinel/internal/model"
)

// Sector weight breakpoints (percent of total value). Exclusive upper
// bounds; anything at or above thresholdHigh is CRITICAL.
const (
	thresholdLow    = 20.0
	thresholdMedium = 35.0
	thresholdHigh   = 50.0
)

// Herfindahl index interpretive bands.
const (
	hhiDiversified  = 0.15
	hhiConcentrated = 0.25
)

// ConcentrationAnalyzer computes sector exposure and diversification
// metrics from cost-basis values. Pure: it never fails, the worst outcome
// is a degenerate analysis.
type ConcentrationAnalyzer struct{}

// NewConcentrationAnalyzer creates a concentration analyzer.
func NewConcentrationAnalyzer() *ConcentrationAnalyzer {
	return &ConcentrationAnalyzer{}
}

// Analyze computes the sector breakdown, warnings, and Herfindahl index
// for a portfolio using cost-basis valuation.
func (a *ConcentrationAnalyzer) Analyze(p *model.Portfolio) *model.ConcentrationAnalysis {
	total := decimal.Zero
	for _, h := range p.Holdings {
		total = total.Add(h.CostBasis())
	}

	if total.IsZero() {
		return &model.ConcentrationAnalysis{
			TotalValue:      decimal.Zero,
			Warnings:        []string{"Unable to calculate concentration - no cost basis data"},
			HerfindahlIndex: 0,
		}
	}

	type sectorAccum struct {
		tickers []string
		value   decimal.Decimal
	}
	accum := make(map[string]*sectorAccum)
	var order []string
	for _, h := range p.Holdings {
		sa, ok := accum[h.Sector]
		if !ok {
			sa = &sectorAccum{value: decimal.Zero}
			accum[h.Sector] = sa
			order = append(order, h.Sector)
		}
		sa.tickers = append(sa.tickers, h.Ticker)
		sa.value = sa.value.Add(h.CostBasis())
	}

	totalF, _ := total.Float64()
	breakdown := make([]model.SectorConcentration, 0, len(order))
	for _, sector := range order {
		sa := accum[sector]
		v, _ := sa.value.Float64()
		weight := v / totalF * 100
		breakdown = append(breakdown, model.SectorConcentration{
			Sector:    sector,
			Holdings:  sa.tickers,
			WeightPct: weight,
			Value:     sa.value,
			RiskTier:  tierForWeight(weight),
		})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].WeightPct > breakdown[j].WeightPct
	})

	hhi := herfindahl(breakdown)

	return &model.ConcentrationAnalysis{
		TotalValue:      total,
		SectorBreakdown: breakdown,
		Warnings:        warnings(breakdown, hhi),
		HerfindahlIndex: hhi,
	}
}

func tierForWeight(weightPct float64) model.RiskTier {
	switch {
	case weightPct < thresholdLow:
		return model.TierLow
	case weightPct < thresholdMedium:
		return model.TierMedium
	case weightPct < thresholdHigh:
		return model.TierHigh
	default:
		return model.TierCritical
	}
}

// herfindahl returns the sum of squared sector weight fractions.
// Range [1/N, 1] for N sectors; lower is more diversified.
func herfindahl(breakdown []model.SectorConcentration) float64 {
	sum := 0.0
	for _, s := range breakdown {
		frac := s.WeightPct / 100
		sum += frac * frac
	}
	return sum
}

func warnings(breakdown []model.SectorConcentration, hhi float64) []string {
	var out []string
	for _, s := range breakdown {
		switch s.RiskTier {
		case model.TierCritical:
			out = append(out, fmt.Sprintf("CRITICAL: %s is %.1f%% of portfolio - severely over-concentrated", s.Sector, s.WeightPct))
		case model.TierHigh:
			out = append(out, fmt.Sprintf("HIGH: %s at %.1f%% - consider reducing exposure", s.Sector, s.WeightPct))
		case model.TierMedium:
			out = append(out, fmt.Sprintf("MEDIUM: %s at %.1f%% - monitor concentration", s.Sector, s.WeightPct))
		}
	}
	if hhi > hhiConcentrated {
		out = append(out, fmt.Sprintf("Portfolio is concentrated (HHI: %.3f) - consider diversifying across more sectors", hhi))
	} else if hhi > hhiDiversified {
		out = append(out, fmt.Sprintf("Portfolio is moderately diversified (HHI: %.3f)", hhi))
	}
	return out
}

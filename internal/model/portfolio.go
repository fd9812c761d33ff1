package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Holding is a single position in the portfolio.
type Holding struct {
	Ticker           string          `json:"ticker"`
	Name             string          `json:"name"`
	AssetType        string          `json:"asset_type"` // stock, etf, commodity, crypto
	Sector           string          `json:"sector"`
	CorrelatedAssets []string        `json:"correlated_assets,omitempty"`
	RiskFactors      []string        `json:"risk_factors,omitempty"`
	Quantity         decimal.Decimal `json:"quantity,omitempty"`
	AvgPrice         decimal.Decimal `json:"avg_price,omitempty"`
}

// Normalize upper-cases the ticker and all correlated tickers.
func (h *Holding) Normalize() {
	h.Ticker = strings.ToUpper(h.Ticker)
	for i, t := range h.CorrelatedAssets {
		h.CorrelatedAssets[i] = strings.ToUpper(t)
	}
}

// CostBasis returns quantity × average price, or zero when either is missing.
func (h *Holding) CostBasis() decimal.Decimal {
	if h.Quantity.IsPositive() && h.AvgPrice.IsPositive() {
		return h.Quantity.Mul(h.AvgPrice)
	}
	return decimal.Zero
}

// Portfolio is an ordered set of holdings. Tickers are assumed unique.
type Portfolio struct {
	Name     string    `json:"name"`
	Holdings []Holding `json:"holdings"`
}

// Tickers returns all held ticker symbols in portfolio order.
func (p *Portfolio) Tickers() []string {
	tickers := make([]string, len(p.Holdings))
	for i, h := range p.Holdings {
		tickers[i] = h.Ticker
	}
	return tickers
}

// Sectors returns the unique sectors represented in the portfolio.
func (p *Portfolio) Sectors() []string {
	seen := make(map[string]bool)
	var sectors []string
	for _, h := range p.Holdings {
		if !seen[h.Sector] {
			seen[h.Sector] = true
			sectors = append(sectors, h.Sector)
		}
	}
	return sectors
}

// CorrelatedTickers returns correlated tickers that are not themselves held.
func (p *Portfolio) CorrelatedTickers() []string {
	held := make(map[string]bool)
	for _, h := range p.Holdings {
		held[h.Ticker] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, h := range p.Holdings {
		for _, t := range h.CorrelatedAssets {
			if !held[t] && !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// WatchTickers returns every ticker worth monitoring: held plus correlated.
func (p *Portfolio) WatchTickers() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(t string) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, h := range p.Holdings {
		add(h.Ticker)
	}
	for _, h := range p.Holdings {
		for _, t := range h.CorrelatedAssets {
			add(t)
		}
	}
	return out
}

// RiskFactors returns the union of qualitative risk-factor tags.
func (p *Portfolio) RiskFactors() []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range p.Holdings {
		for _, f := range h.RiskFactors {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// HoldingsBySector returns all holdings in the given sector (case-insensitive).
func (p *Portfolio) HoldingsBySector(sector string) []Holding {
	var out []Holding
	for _, h := range p.Holdings {
		if strings.EqualFold(h.Sector, sector) {
			out = append(out, h)
		}
	}
	return out
}

// Holding returns the holding for a ticker, or nil if not held.
func (p *Portfolio) Holding(ticker string) *Holding {
	ticker = strings.ToUpper(ticker)
	for i := range p.Holdings {
		if p.Holdings[i].Ticker == ticker {
			return &p.Holdings[i]
		}
	}
	return nil
}

// FormatForLLM renders the portfolio as plain text for prompt context.
func (p *Portfolio) FormatForLLM() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Portfolio: %s\n", p.Name))
	b.WriteString(fmt.Sprintf("Total Holdings: %d\n", len(p.Holdings)))
	b.WriteString(fmt.Sprintf("Sectors: %s\n\n", strings.Join(p.Sectors(), ", ")))

	for _, h := range p.Holdings {
		b.WriteString(fmt.Sprintf("### %s - %s\n", h.Ticker, h.Name))
		b.WriteString(fmt.Sprintf("    Type: %s | Sector: %s\n", h.AssetType, h.Sector))
		b.WriteString(fmt.Sprintf("    Correlated: %s\n", joinOrNone(h.CorrelatedAssets)))
		b.WriteString(fmt.Sprintf("    Risk Factors: %s\n\n", joinOrNone(h.RiskFactors)))
	}
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

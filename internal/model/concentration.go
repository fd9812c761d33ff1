package model

import "github.com/shopspring/decimal"

// RiskTier classifies a single sector's weight within the portfolio.
type RiskTier string

const (
	TierLow      RiskTier = "LOW"
	TierMedium   RiskTier = "MEDIUM"
	TierHigh     RiskTier = "HIGH"
	TierCritical RiskTier = "CRITICAL"
)

// SectorConcentration is the exposure of one sector.
type SectorConcentration struct {
	Sector    string
	Holdings  []string // tickers in this sector
	WeightPct float64  // percent of total portfolio value
	Value     decimal.Decimal
	RiskTier  RiskTier
}

// ConcentrationAnalysis is the full diversification picture of a portfolio.
type ConcentrationAnalysis struct {
	TotalValue      decimal.Decimal
	SectorBreakdown []SectorConcentration // descending by weight
	Warnings        []string
	HerfindahlIndex float64 // 0..1, lower is more diversified
}

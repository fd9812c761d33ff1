package model

// PatternType identifies the kind of historical price pattern.
type PatternType string

const (
	PatternStreak     PatternType = "streak"
	PatternExtreme    PatternType = "extreme"
	PatternDivergence PatternType = "divergence"
	PatternVolatility PatternType = "volatility"
	PatternMomentum   PatternType = "momentum"
)

// DetectedPattern is a price pattern that historically precedes a move.
type DetectedPattern struct {
	Ticker            string
	Type              PatternType
	Description       string
	HistoricalOutcome string
	RiskLevel         string  // HIGH, MEDIUM, LOW
	Probability       float64 // historical probability of the outcome
}

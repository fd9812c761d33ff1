package model

// CorrelationType describes the expected relationship between two assets.
type CorrelationType string

const (
	CorrelationPositive CorrelationType = "positive" // assets move together
	CorrelationNegative CorrelationType = "negative" // assets move inversely
)

// Severity tiers shared by divergences and patterns.
const (
	SeverityHigh   = "HIGH"
	SeverityMedium = "MEDIUM"
	SeverityLow    = "LOW"
)

// Divergence is a detected contradiction between correlated assets.
type Divergence struct {
	Asset1           string
	Asset2           string
	Type             CorrelationType
	ExpectedBehavior string
	ActualBehavior   string
	Severity         string
	Description      string
}

package model

import "time"

// RiskSeverity ranks how urgently a risk needs attention.
type RiskSeverity string

const (
	RiskCritical RiskSeverity = "CRITICAL"
	RiskHigh     RiskSeverity = "HIGH"
	RiskMedium   RiskSeverity = "MEDIUM"
	RiskLow      RiskSeverity = "LOW"
)

// RiskType categorizes the origin of a portfolio risk.
type RiskType string

const (
	RiskMacro       RiskType = "MACRO"
	RiskSector      RiskType = "SECTOR"
	RiskCompany     RiskType = "COMPANY"
	RiskTechnical   RiskType = "TECHNICAL"
	RiskCorrelation RiskType = "CORRELATION"
)

// RecommendedAction is the suggested response to a risk.
type RecommendedAction string

const (
	ActionWatch  RecommendedAction = "WATCH"
	ActionHedge  RecommendedAction = "HEDGE"
	ActionReduce RecommendedAction = "REDUCE"
	ActionExit   RecommendedAction = "EXIT"
)

// Risk is one identified portfolio risk.
type Risk struct {
	RiskID            string            `json:"risk_id"`
	AffectedHoldings  []string          `json:"affected_holdings"`
	RiskType          RiskType          `json:"risk_type"`
	Severity          RiskSeverity      `json:"severity"`
	TimeHorizon       string            `json:"time_horizon"` // IMMEDIATE, SHORT, MEDIUM
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	HistoricalPattern string            `json:"historical_pattern"`
	LeadingIndicators []string          `json:"leading_indicators"`
	RecommendedAction RecommendedAction `json:"recommended_action"`
	Confidence        string            `json:"confidence"` // HIGH, MEDIUM, LOW
}

// RiskAssessment is the complete analysis output for a portfolio.
type RiskAssessment struct {
	Timestamp    time.Time `json:"timestamp"`
	MarketRegime string    `json:"market_regime"` // RISK_ON, RISK_OFF, UNCERTAIN
	OverallRisk  string    `json:"overall_risk"`  // LOW, MODERATE, ELEVATED, HIGH
	Risks        []Risk    `json:"risks"`
	SafeHoldings []string  `json:"safe_holdings"`
	Summary      string    `json:"summary"`
}

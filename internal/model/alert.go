package model

import "time"

// AlertLevel ranks how a delivered alert should be treated.
type AlertLevel string

const (
	AlertInfo     AlertLevel = "info"     // FYI, no action needed
	AlertWatch    AlertLevel = "watch"    // monitor closely
	AlertWarning  AlertLevel = "warning"  // consider action
	AlertCritical AlertLevel = "critical" // immediate attention required
)

var alertOrder = map[AlertLevel]int{
	AlertInfo:     0,
	AlertWatch:    1,
	AlertWarning:  2,
	AlertCritical: 3,
}

// AtLeast reports whether the level meets or exceeds min.
func (l AlertLevel) AtLeast(min AlertLevel) bool {
	return alertOrder[l] >= alertOrder[min]
}

// AlertLevelForSeverity maps a risk severity onto a delivery level.
func AlertLevelForSeverity(sev RiskSeverity) AlertLevel {
	switch sev {
	case RiskCritical:
		return AlertCritical
	case RiskHigh:
		return AlertWarning
	case RiskMedium:
		return AlertWatch
	default:
		return AlertInfo
	}
}

// Alert is a deliverable notification derived from analysis output.
type Alert struct {
	ID                string     `json:"id"`
	Level             AlertLevel `json:"level"`
	AffectedHoldings  []string   `json:"affected_holdings"`
	Title             string     `json:"title"`
	Summary           string     `json:"summary"`
	RecommendedAction string     `json:"recommended_action"`
	Timestamp         time.Time  `json:"timestamp"`
	Details           string     `json:"details,omitempty"`
}

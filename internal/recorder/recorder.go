package recorder

import "PortSentinel/internal/model"

// Recorder persists analysis history for later review.
type Recorder interface {
	RecordAssessment(assessment *model.RiskAssessment) error
	RecordDivergence(d *model.Divergence) error
	RecordConcentration(a *model.ConcentrationAnalysis) error
	RecordAlert(a *model.Alert) error
	Close() error
}

package recorder

import "PortSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAssessment(_ *model.RiskAssessment) error       { return nil }
func (n *NoopRecorder) RecordDivergence(_ *model.Divergence) error           { return nil }
func (n *NoopRecorder) RecordConcentration(_ *model.ConcentrationAnalysis) error { return nil }
func (n *NoopRecorder) RecordAlert(_ *model.Alert) error                     { return nil }
func (n *NoopRecorder) Close() error                                         { return nil }

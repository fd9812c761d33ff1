package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"PortSentinel/internal/alert"
	"PortSentinel/internal/analysis"
	"PortSentinel/internal/analyzer"
	"PortSentinel/internal/model"
	"PortSentinel/internal/recorder"
)

// marketTZ resolves lazily so tests can run without tzdata surprises.
var marketTZ = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// InMarketHours reports whether t falls within US equity market hours,
// weekdays 9:30 to 16:00 Eastern.
func InMarketHours(t time.Time) bool {
	et := t.In(marketTZ)
	if et.Weekday() == time.Saturday || et.Weekday() == time.Sunday {
		return false
	}
	minutes := et.Hour()*60 + et.Minute()
	return minutes >= 9*60+30 && minutes <= 16*60
}

// Scheduler runs periodic portfolio checks on a cron schedule.
type Scheduler struct {
	Cron          *cron.Cron
	Analyzer      *analyzer.Analyzer
	Concentration *analysis.ConcentrationAnalyzer
	Notifier      *alert.Notifier
	Telegram      *alert.TelegramSender
	Recorder      recorder.Recorder
	Portfolio     *model.Portfolio

	MarketHoursOnly bool
	Ctx             context.Context

	now func() time.Time
	log zerolog.Logger
}

// New creates a scheduler wired to the analysis pipeline.
func New(ctx context.Context, a *analyzer.Analyzer, conc *analysis.ConcentrationAnalyzer,
	n *alert.Notifier, tg *alert.TelegramSender, rec recorder.Recorder,
	p *model.Portfolio, marketHoursOnly bool, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:            cron.New(cron.WithSeconds()),
		Analyzer:        a,
		Concentration:   conc,
		Notifier:        n,
		Telegram:        tg,
		Recorder:        rec,
		Portfolio:       p,
		MarketHoursOnly: marketHoursOnly,
		Ctx:             ctx,
		now:             time.Now,
		log:             log.With().Str("component", "scheduler").Logger(),
	}
}

// Register adds the periodic check task.
func (s *Scheduler) Register(checkCron string) error {
	if _, err := s.Cron.AddFunc(checkCron, s.checkTask); err != nil {
		return fmt.Errorf("register check task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Bool("market_hours_only", s.MarketHoursOnly).Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the check task immediately, bypassing the market
// hours gate.
func (s *Scheduler) RunNow() (*model.RiskAssessment, error) {
	return s.runCheck()
}

func (s *Scheduler) checkTask() {
	if s.MarketHoursOnly && !InMarketHours(s.now()) {
		s.log.Info().Msg("outside market hours, skipping check")
		return
	}
	if _, err := s.runCheck(); err != nil {
		s.log.Error().Err(err).Msg("scheduled check failed")
	}
}

func (s *Scheduler) runCheck() (*model.RiskAssessment, error) {
	s.log.Info().Str("portfolio", s.Portfolio.Name).Msg("running portfolio check")

	assessment, err := s.Analyzer.Analyze(s.Ctx, s.Portfolio)
	if err != nil {
		return nil, fmt.Errorf("risk analysis: %w", err)
	}

	conc := s.Concentration.Analyze(s.Portfolio)
	if err := s.Recorder.RecordConcentration(conc); err != nil {
		s.log.Error().Err(err).Msg("record concentration")
	}
	if err := s.Recorder.RecordAssessment(assessment); err != nil {
		s.log.Error().Err(err).Msg("record assessment")
	}

	s.Notifier.Clear()
	s.Notifier.AddFromAssessment(assessment)
	for _, a := range s.Notifier.Alerts(model.AlertInfo) {
		if err := s.Recorder.RecordAlert(&a); err != nil {
			s.log.Error().Err(err).Msg("record alert")
		}
	}

	s.log.Info().
		Str("overall_risk", assessment.OverallRisk).
		Str("regime", assessment.MarketRegime).
		Int("risks", len(assessment.Risks)).
		Msg(s.Notifier.Summary())

	// Critical alerts are persisted even when nobody is watching.
	if len(s.Notifier.Alerts(model.AlertCritical)) > 0 {
		if path, err := s.Notifier.Save(); err != nil {
			s.log.Error().Err(err).Msg("save alerts")
		} else {
			s.log.Info().Str("path", path).Msg("critical alerts saved")
		}
	}

	if s.Telegram != nil && s.Telegram.Enabled() {
		alerts := s.Notifier.Alerts(model.AlertWarning)
		if err := s.Telegram.SendAlerts(s.Ctx, alerts, model.AlertWarning); err != nil {
			s.log.Error().Err(err).Msg("telegram delivery failed")
		}
	}

	return assessment, nil
}

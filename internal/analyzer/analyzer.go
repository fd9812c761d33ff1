package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"PortSentinel/internal/correlation"
	"PortSentinel/internal/llm"
	"PortSentinel/internal/model"
	"PortSentinel/internal/monitor"
)

// Analyzer turns monitor output into a structured risk assessment by
// asking a language model.
type Analyzer struct {
	provider llm.Provider
	news     *monitor.NewsScanner
	calendar *monitor.EventCalendar
	tracker  *correlation.Tracker
	now      func() time.Time
	log      zerolog.Logger
}

// New creates a risk analyzer.
func New(provider llm.Provider, news *monitor.NewsScanner, calendar *monitor.EventCalendar,
	tracker *correlation.Tracker, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		provider: provider,
		news:     news,
		calendar: calendar,
		tracker:  tracker,
		now:      time.Now,
		log:      log.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze gathers news, events, and correlation signals, then asks the
// model for a risk assessment.
func (a *Analyzer) Analyze(ctx context.Context, p *model.Portfolio) (*model.RiskAssessment, error) {
	a.log.Info().Msg("scanning news")
	allNews := a.news.ScanPortfolioNews(p)
	allNews = append(allNews, a.news.ScanMacroEvents()...)

	newsSummary := monitor.FormatNewsForLLM(allNews)
	if intel := a.news.ScanWithPerplexity(p); intel != "" {
		newsSummary += "\n\n## REAL-TIME MARKET INTELLIGENCE\n" + intel
	}

	a.log.Info().Msg("checking economic calendar")
	events := a.calendar.UpcomingEvents()
	events = monitor.MatchEventsToHoldings(events, p)

	a.log.Info().Msg("analyzing correlations")
	correlationSummary := a.tracker.FormatForLLM(p.WatchTickers())

	prompt := buildPrompt(
		p.FormatForLLM(),
		newsSummary,
		monitor.FormatEventsForLLM(events),
		correlationSummary,
		a.now().Format(time.RFC3339),
	)

	a.log.Info().Str("model", a.provider.Name()).Msg("requesting risk assessment")
	response, err := a.provider.Invoke(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("risk analysis request: %w", err)
	}

	return a.parseResponse(response), nil
}

// rawAssessment mirrors the JSON the model is asked to emit.
type rawAssessment struct {
	MarketRegime string    `json:"market_regime"`
	OverallRisk  string    `json:"overall_portfolio_risk"`
	Risks        []rawRisk `json:"risks"`
	SafeHoldings []string  `json:"safe_holdings"`
	Summary      string    `json:"summary"`
}

type rawRisk struct {
	RiskID            string   `json:"risk_id"`
	AffectedHoldings  []string `json:"affected_holdings"`
	RiskType          string   `json:"risk_type"`
	Severity          string   `json:"severity"`
	TimeHorizon       string   `json:"time_horizon"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	HistoricalPattern string   `json:"historical_pattern"`
	LeadingIndicators []string `json:"leading_indicators"`
	RecommendedAction string   `json:"recommended_action"`
	Confidence        string   `json:"confidence"`
}

var (
	validRiskTypes = map[string]model.RiskType{
		"MACRO": model.RiskMacro, "SECTOR": model.RiskSector, "COMPANY": model.RiskCompany,
		"TECHNICAL": model.RiskTechnical, "CORRELATION": model.RiskCorrelation,
	}
	validSeverities = map[string]model.RiskSeverity{
		"CRITICAL": model.RiskCritical, "HIGH": model.RiskHigh,
		"MEDIUM": model.RiskMedium, "LOW": model.RiskLow,
	}
	validActions = map[string]model.RecommendedAction{
		"WATCH": model.ActionWatch, "HEDGE": model.ActionHedge,
		"REDUCE": model.ActionReduce, "EXIT": model.ActionExit,
	}
)

// parseResponse decodes the model's JSON. Individual malformed risks
// are skipped; an unparseable response yields a degenerate assessment
// rather than an error.
func (a *Analyzer) parseResponse(response string) *model.RiskAssessment {
	content := stripCodeFences(strings.TrimSpace(response))

	var raw rawAssessment
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		a.log.Warn().Err(err).Msg("could not parse model response")
		return &model.RiskAssessment{
			Timestamp:    a.now(),
			MarketRegime: "UNCERTAIN",
			OverallRisk:  "UNKNOWN",
			Summary:      "Analysis could not be completed - parsing error.",
		}
	}

	var risks []model.Risk
	for _, r := range raw.Risks {
		risk, err := a.convertRisk(r, len(risks)+1)
		if err != nil {
			a.log.Warn().Err(err).Msg("skipping malformed risk")
			continue
		}
		risks = append(risks, *risk)
	}

	assessment := &model.RiskAssessment{
		Timestamp:    a.now(),
		MarketRegime: raw.MarketRegime,
		OverallRisk:  raw.OverallRisk,
		Risks:        risks,
		SafeHoldings: raw.SafeHoldings,
		Summary:      raw.Summary,
	}
	if assessment.MarketRegime == "" {
		assessment.MarketRegime = "UNCERTAIN"
	}
	if assessment.OverallRisk == "" {
		assessment.OverallRisk = "MODERATE"
	}
	if assessment.Summary == "" {
		assessment.Summary = "Analysis complete."
	}
	return assessment
}

func (a *Analyzer) convertRisk(r rawRisk, ordinal int) (*model.Risk, error) {
	riskType, ok := validRiskTypes[r.RiskType]
	if !ok {
		if r.RiskType == "" {
			riskType = model.RiskMacro
		} else {
			return nil, fmt.Errorf("unknown risk type %q", r.RiskType)
		}
	}
	severity, ok := validSeverities[r.Severity]
	if !ok {
		if r.Severity == "" {
			severity = model.RiskMedium
		} else {
			return nil, fmt.Errorf("unknown severity %q", r.Severity)
		}
	}
	action, ok := validActions[r.RecommendedAction]
	if !ok {
		if r.RecommendedAction == "" {
			action = model.ActionWatch
		} else {
			return nil, fmt.Errorf("unknown action %q", r.RecommendedAction)
		}
	}

	risk := &model.Risk{
		RiskID:            r.RiskID,
		AffectedHoldings:  r.AffectedHoldings,
		RiskType:          riskType,
		Severity:          severity,
		TimeHorizon:       r.TimeHorizon,
		Title:             r.Title,
		Description:       r.Description,
		HistoricalPattern: r.HistoricalPattern,
		LeadingIndicators: r.LeadingIndicators,
		RecommendedAction: action,
		Confidence:        r.Confidence,
	}
	if risk.RiskID == "" {
		risk.RiskID = fmt.Sprintf("risk_%03d", ordinal)
	}
	if risk.TimeHorizon == "" {
		risk.TimeHorizon = "SHORT"
	}
	if risk.Title == "" {
		risk.Title = "Unknown Risk"
	}
	if risk.Confidence == "" {
		risk.Confidence = "MEDIUM"
	}
	return risk, nil
}

// stripCodeFences removes a surrounding markdown code block, with or
// without a "json" language tag.
func stripCodeFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	parts := strings.SplitN(content, "```", 3)
	if len(parts) < 2 {
		return content
	}
	inner := parts[1]
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner)
}

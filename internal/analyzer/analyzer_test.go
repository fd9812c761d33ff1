package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortSentinel/internal/collector"
	"PortSentinel/internal/correlation"
	"PortSentinel/internal/model"
	"PortSentinel/internal/monitor"
)

type fakeProvider struct {
	response string
	err      error
	prompt   string
}

func (f *fakeProvider) Invoke(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func (f *fakeProvider) Name() string { return "fake-model" }

type noSearch struct{}

func (noSearch) Search(string, int) ([]monitor.SearchResult, error) { return nil, nil }
func (noSearch) Enabled() bool                                      { return false }

func newTestAnalyzer(provider *fakeProvider) *Analyzer {
	log := zerolog.Nop()
	news := monitor.NewNewsScanner(noSearch{}, nil, log)
	calendar := monitor.NewEventCalendar(noSearch{}, log)
	tracker := correlation.NewTracker(collector.NewMockFetcher(), correlation.DefaultTable(), log)
	return New(provider, news, calendar, tracker, log)
}

func testPortfolio() *model.Portfolio {
	return &model.Portfolio{
		Name: "Test",
		Holdings: []model.Holding{
			{Ticker: "GLD", Name: "Gold", Sector: "precious_metals"},
			{Ticker: "QQQ", Name: "Nasdaq 100", Sector: "tech"},
		},
	}
}

const validResponse = `{
	"market_regime": "RISK_OFF",
	"overall_portfolio_risk": "ELEVATED",
	"risks": [
		{
			"risk_id": "risk_001",
			"affected_holdings": ["GLD"],
			"risk_type": "MACRO",
			"severity": "HIGH",
			"time_horizon": "SHORT",
			"title": "Dollar strength pressuring metals",
			"description": "DXY breakout historically precedes gold weakness.",
			"historical_pattern": "2022 DXY rally saw gold drop 8%",
			"leading_indicators": ["DXY above 105"],
			"recommended_action": "HEDGE",
			"confidence": "MEDIUM"
		}
	],
	"safe_holdings": ["QQQ"],
	"summary": "Elevated macro risk for metals."
}`

func TestAnalyze_ParsesValidResponse(t *testing.T) {
	provider := &fakeProvider{response: validResponse}
	a := newTestAnalyzer(provider)

	assessment, err := a.Analyze(context.Background(), testPortfolio())
	require.NoError(t, err)

	assert.Equal(t, "RISK_OFF", assessment.MarketRegime)
	assert.Equal(t, "ELEVATED", assessment.OverallRisk)
	assert.Equal(t, []string{"QQQ"}, assessment.SafeHoldings)
	require.Len(t, assessment.Risks, 1)

	risk := assessment.Risks[0]
	assert.Equal(t, model.RiskMacro, risk.RiskType)
	assert.Equal(t, model.RiskHigh, risk.Severity)
	assert.Equal(t, model.ActionHedge, risk.RecommendedAction)
}

func TestAnalyze_PromptContainsPortfolio(t *testing.T) {
	provider := &fakeProvider{response: `{"risks": []}`}
	a := newTestAnalyzer(provider)

	_, err := a.Analyze(context.Background(), testPortfolio())
	require.NoError(t, err)

	assert.Contains(t, provider.prompt, "GLD - Gold")
	assert.Contains(t, provider.prompt, "## YOUR PORTFOLIO")
	assert.Contains(t, provider.prompt, "## CORRELATED ASSET ANALYSIS")
}

func TestParseResponse_StripsCodeFences(t *testing.T) {
	a := newTestAnalyzer(&fakeProvider{})

	fenced := "```json\n" + validResponse + "\n```"
	assessment := a.parseResponse(fenced)
	assert.Equal(t, "RISK_OFF", assessment.MarketRegime)
	require.Len(t, assessment.Risks, 1)

	bare := "```\n" + validResponse + "\n```"
	assert.Equal(t, "RISK_OFF", a.parseResponse(bare).MarketRegime)
}

func TestParseResponse_SkipsMalformedRisks(t *testing.T) {
	a := newTestAnalyzer(&fakeProvider{})

	assessment := a.parseResponse(`{
		"market_regime": "UNCERTAIN",
		"overall_portfolio_risk": "MODERATE",
		"risks": [
			{"risk_id": "bad", "severity": "EXTREME", "risk_type": "MACRO"},
			{"risk_id": "good", "severity": "LOW", "risk_type": "TECHNICAL", "recommended_action": "WATCH"}
		],
		"summary": "mixed"
	}`)

	require.Len(t, assessment.Risks, 1)
	assert.Equal(t, "good", assessment.Risks[0].RiskID)
}

func TestParseResponse_FillsRiskDefaults(t *testing.T) {
	a := newTestAnalyzer(&fakeProvider{})

	assessment := a.parseResponse(`{"risks": [{"description": "something vague"}]}`)
	require.Len(t, assessment.Risks, 1)

	risk := assessment.Risks[0]
	assert.Equal(t, "risk_001", risk.RiskID)
	assert.Equal(t, model.RiskMacro, risk.RiskType)
	assert.Equal(t, model.RiskMedium, risk.Severity)
	assert.Equal(t, model.ActionWatch, risk.RecommendedAction)
	assert.Equal(t, "SHORT", risk.TimeHorizon)
	assert.Equal(t, "Unknown Risk", risk.Title)

	assert.Equal(t, "UNCERTAIN", assessment.MarketRegime)
	assert.Equal(t, "MODERATE", assessment.OverallRisk)
	assert.Equal(t, "Analysis complete.", assessment.Summary)
}

func TestParseResponse_UnparseableYieldsDegenerate(t *testing.T) {
	a := newTestAnalyzer(&fakeProvider{})

	assessment := a.parseResponse("I am sorry, I cannot produce JSON today.")
	assert.Equal(t, "UNCERTAIN", assessment.MarketRegime)
	assert.Equal(t, "UNKNOWN", assessment.OverallRisk)
	assert.Empty(t, assessment.Risks)
	assert.Contains(t, assessment.Summary, "parsing error")
}

func TestAnalyze_ProviderError(t *testing.T) {
	provider := &fakeProvider{err: assert.AnError}
	a := newTestAnalyzer(provider)

	_, err := a.Analyze(context.Background(), testPortfolio())
	assert.Error(t, err)
}

func TestFormatReport(t *testing.T) {
	assessment := &model.RiskAssessment{
		Timestamp:    time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		MarketRegime: "RISK_OFF",
		OverallRisk:  "ELEVATED",
		Risks: []model.Risk{
			{
				Title: "Dollar strength", Severity: model.RiskCritical,
				AffectedHoldings:  []string{"GLD"},
				LeadingIndicators: []string{"DXY above 105"},
				RecommendedAction: model.ActionReduce, Confidence: "HIGH",
			},
			{
				Title: "Streak risk", Severity: model.RiskMedium,
				AffectedHoldings:  []string{"QQQ"},
				Description:       "7 consecutive up days",
				RecommendedAction: model.ActionWatch,
			},
		},
		SafeHoldings: []string{"TLT"},
		Summary:      "Elevated risk.",
	}

	out := FormatReport(assessment, testPortfolio())
	assert.Contains(t, out, "OVERALL RISK LEVEL: [!] ELEVATED")
	assert.Contains(t, out, "[!!!] Dollar strength")
	assert.Contains(t, out, "## WATCH LIST")
	assert.Contains(t, out, "[!] Streak risk")
	assert.Contains(t, out, "- TLT")
	assert.NotContains(t, out, "NO SIGNIFICANT RISKS")
}

func TestFormatReport_NoRisks(t *testing.T) {
	assessment := &model.RiskAssessment{
		Timestamp:   time.Now(),
		OverallRisk: "LOW",
		Summary:     "All clear.",
	}

	out := FormatReport(assessment, testPortfolio())
	assert.Contains(t, out, "## NO SIGNIFICANT RISKS DETECTED")
}

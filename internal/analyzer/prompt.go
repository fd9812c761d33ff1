package analyzer

import (
	"fmt"
	"strings"
)

const riskAnalysisPrompt = `You are a PREDICTIVE RISK ANALYST monitoring a portfolio for early warning signs.
Your job is to identify POTENTIAL RISKS BEFORE they impact prices - not react to drops that already happened.

## YOUR PORTFOLIO
%s

## CURRENT NEWS & EVENTS
%s

## UPCOMING SCHEDULED EVENTS
%s

## CORRELATED ASSET ANALYSIS
%s

## YOUR TASK
Analyze the current market environment and identify POTENTIAL RISKS to the portfolio.
Focus on LEADING INDICATORS - events or patterns that historically precede price declines.

CRITICAL GUIDELINES:
1. **Be Predictive, Not Reactive**: Focus on what COULD happen, not what already happened
2. **Use Historical Patterns**: Leverage your knowledge of how similar situations played out
3. **Watch Correlations**: Dollar strength -> precious metals weakness, rising rates -> growth stock pressure
4. **Flag Streaks/Extremes**: 5+ consecutive up days, at 52-week highs = reversal risk
5. **Policy Shifts Matter**: Fed personnel changes, hawkish pivots affect asset classes
6. **Divergences Are Signals**: If correlated assets diverge, one will likely catch up

For each risk identified, provide:
1. **Affected Holdings**: Which tickers in the portfolio
2. **Risk Type**: MACRO / SECTOR / COMPANY / TECHNICAL / CORRELATION
3. **Severity**: CRITICAL (act now) / HIGH (act soon) / MEDIUM (watch closely) / LOW (be aware)
4. **Time Horizon**: IMMEDIATE (today-tomorrow) / SHORT (1-5 days) / MEDIUM (1-2 weeks)
5. **Historical Pattern**: What similar situations in history led to
6. **Leading Indicators**: Specific signals suggesting this risk
7. **Recommended Action**: WATCH / HEDGE / REDUCE / EXIT

Output VALID JSON only (no markdown code blocks):
{
  "analysis_timestamp": "%s",
  "market_regime": "RISK_ON or RISK_OFF or UNCERTAIN",
  "overall_portfolio_risk": "LOW or MODERATE or ELEVATED or HIGH",
  "risks": [
    {
      "risk_id": "risk_001",
      "affected_holdings": ["SLV", "GLD"],
      "risk_type": "MACRO",
      "severity": "HIGH",
      "time_horizon": "SHORT",
      "title": "Short descriptive title",
      "description": "Detailed description of the risk",
      "historical_pattern": "What happened in similar past situations",
      "leading_indicators": ["Indicator 1", "Indicator 2"],
      "recommended_action": "REDUCE",
      "confidence": "MEDIUM"
    }
  ],
  "safe_holdings": ["QQQ"],
  "summary": "One sentence overall assessment"
}

IMPORTANT: If no significant risks are found, return an empty risks array.
Do not manufacture risks - only report genuine concerns based on the data provided.`

func buildPrompt(portfolioSummary, newsSummary, calendarSummary, correlationSummary, timestamp string) string {
	return fmt.Sprintf(riskAnalysisPrompt,
		strings.TrimSpace(portfolioSummary),
		strings.TrimSpace(newsSummary),
		strings.TrimSpace(calendarSummary),
		strings.TrimSpace(correlationSummary),
		timestamp)
}

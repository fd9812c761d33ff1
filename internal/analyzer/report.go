package analyzer

import (
	"fmt"
	"strings"

	"PortSentinel/internal/model"
)

var overallRiskIcons = map[string]string{
	"LOW":      "[OK]",
	"MODERATE": "[~]",
	"ELEVATED": "[!]",
	"HIGH":     "[!!]",
}

// FormatReport renders an assessment as a console report: overall
// level, critical/high alerts in full, a watch list, safe holdings.
func FormatReport(assessment *model.RiskAssessment, p *model.Portfolio) string {
	rule := strings.Repeat("=", 70)
	subRule := strings.Repeat("-", 70)

	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString("PORTFOLIO RISK ANALYSIS\n")
	b.WriteString(fmt.Sprintf("Timestamp: %s\n", assessment.Timestamp.Format("2006-01-02 15:04:05 MST")))
	b.WriteString(fmt.Sprintf("Portfolio: %d holdings (%s)\n", len(p.Holdings), strings.Join(p.Tickers(), ", ")))
	b.WriteString(rule + "\n")

	icon, ok := overallRiskIcons[assessment.OverallRisk]
	if !ok {
		icon = "[?]"
	}
	b.WriteString(fmt.Sprintf("\nOVERALL RISK LEVEL: %s %s\n", icon, assessment.OverallRisk))
	b.WriteString(fmt.Sprintf("Market Regime: %s\n", assessment.MarketRegime))
	b.WriteString(fmt.Sprintf("Summary: %s\n", assessment.Summary))

	var urgent, watch []model.Risk
	for _, r := range assessment.Risks {
		if r.Severity == model.RiskCritical || r.Severity == model.RiskHigh {
			urgent = append(urgent, r)
		} else {
			watch = append(watch, r)
		}
	}

	if len(urgent) > 0 {
		b.WriteString("\n" + subRule + "\n")
		b.WriteString("## CRITICAL / HIGH PRIORITY ALERTS\n")
		b.WriteString(subRule + "\n")

		for _, r := range urgent {
			icon := "[!!]"
			if r.Severity == model.RiskCritical {
				icon = "[!!!]"
			}
			b.WriteString(fmt.Sprintf("\n%s %s\n", icon, r.Title))
			b.WriteString(fmt.Sprintf("Affected: %s\n", strings.Join(r.AffectedHoldings, ", ")))
			b.WriteString(fmt.Sprintf("Time Horizon: %s\n\n", r.TimeHorizon))
			b.WriteString(r.Description + "\n\n")
			b.WriteString("Leading Indicators Detected:\n")
			for _, ind := range r.LeadingIndicators {
				b.WriteString(fmt.Sprintf("  - %s\n", ind))
			}
			b.WriteString("\nHistorical Pattern:\n")
			b.WriteString(fmt.Sprintf("  %s\n\n", r.HistoricalPattern))
			b.WriteString(fmt.Sprintf("Recommended Action: %s\n", r.RecommendedAction))
			b.WriteString(fmt.Sprintf("Confidence: %s\n", r.Confidence))
		}
	}

	if len(watch) > 0 {
		b.WriteString("\n" + subRule + "\n")
		b.WriteString("## WATCH LIST\n")
		b.WriteString(subRule + "\n")

		for _, r := range watch {
			icon := "[i]"
			if r.Severity == model.RiskMedium {
				icon = "[!]"
			}
			desc := r.Description
			if len(desc) > 200 {
				desc = desc[:200]
			}
			b.WriteString(fmt.Sprintf("\n%s %s\n", icon, r.Title))
			b.WriteString(fmt.Sprintf("    Affected: %s\n", strings.Join(r.AffectedHoldings, ", ")))
			b.WriteString(fmt.Sprintf("    %s...\n", desc))
			b.WriteString(fmt.Sprintf("    Action: %s\n", r.RecommendedAction))
		}
	}

	if len(assessment.SafeHoldings) > 0 {
		b.WriteString("\n" + subRule + "\n")
		b.WriteString("## SAFE HOLDINGS (No immediate risks detected)\n")
		b.WriteString(subRule + "\n")
		for _, ticker := range assessment.SafeHoldings {
			b.WriteString(fmt.Sprintf("  - %s\n", ticker))
		}
	}

	if len(assessment.Risks) == 0 {
		b.WriteString("\n" + subRule + "\n")
		b.WriteString("## NO SIGNIFICANT RISKS DETECTED\n")
		b.WriteString(subRule + "\n")
		b.WriteString("Your portfolio appears stable. Continue monitoring.\n")
	}

	b.WriteString("\n" + rule + "\n")
	return b.String()
}

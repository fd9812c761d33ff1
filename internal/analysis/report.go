package analysis

import (
	"fmt"
	"strings"

	"PortSentinel/internal/model"
)

var tierIcons = map[model.RiskTier]string{
	model.TierLow:      "[OK]",
	model.TierMedium:   "[~]",
	model.TierHigh:     "[!]",
	model.TierCritical: "[!!]",
}

// FormatReport renders a concentration analysis as a readable report.
func FormatReport(a *model.ConcentrationAnalysis) string {
	var b strings.Builder
	rule := strings.Repeat("-", 70)

	b.WriteString(rule + "\n")
	b.WriteString("SECTOR CONCENTRATION ANALYSIS\n")
	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("Total Portfolio Value (Cost Basis): $%s\n", a.TotalValue.StringFixed(2)))

	var hhiDesc string
	switch {
	case a.HerfindahlIndex < hhiDiversified:
		hhiDesc = "(Highly Diversified)"
	case a.HerfindahlIndex < hhiConcentrated:
		hhiDesc = "(Moderately Diversified)"
	default:
		hhiDesc = "(Concentrated)"
	}
	b.WriteString(fmt.Sprintf("Herfindahl Index: %.3f %s\n", a.HerfindahlIndex, hhiDesc))

	b.WriteString("\nSector Breakdown:\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, s := range a.SectorBreakdown {
		icon, ok := tierIcons[s.RiskTier]
		if !ok {
			icon = "[?]"
		}
		bar := strings.Repeat("#", int(s.WeightPct/2)) // 2% per char
		b.WriteString(fmt.Sprintf("  %s %-22s %5.1f%% $%12s  %s\n",
			icon, s.Sector, s.WeightPct, s.Value.StringFixed(2), bar))
		b.WriteString(fmt.Sprintf("       Holdings: %s\n", strings.Join(s.Holdings, ", ")))
	}

	if len(a.Warnings) > 0 {
		b.WriteString("\nConcentration Warnings:\n")
		b.WriteString(strings.Repeat("-", 50) + "\n")
		for _, w := range a.Warnings {
			b.WriteString(fmt.Sprintf("  - %s\n", w))
		}
	}

	b.WriteString(rule + "\n")
	return b.String()
}

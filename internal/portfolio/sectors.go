package portfolio

import "strings"

// SectorInfo lists the assets that historically move with or against a
// sector, plus its qualitative risk factors.
type SectorInfo struct {
	Positive    []string
	Negative    []string
	RiskFactors []string
}

var sectorCorrelations = map[string]SectorInfo{
	"precious_metals": {
		Positive:    []string{"GLD", "SLV", "GOLD", "NEM", "PAAS"},
		Negative:    []string{"DXY", "UUP"},
		RiskFactors: []string{"fed policy", "dollar strength", "inflation", "real rates", "geopolitical"},
	},
	"tech": {
		Positive:    []string{"QQQ", "SPY", "AAPL", "MSFT", "NVDA", "META", "GOOGL"},
		Negative:    []string{"TLT"},
		RiskFactors: []string{"rate hikes", "earnings", "AI sentiment", "growth stocks", "antitrust"},
	},
	"energy": {
		Positive:    []string{"XLE", "XOP", "USO", "CVX", "XOM"},
		RiskFactors: []string{"oil prices", "OPEC", "geopolitical", "green energy", "demand"},
	},
	"financials": {
		Positive:    []string{"XLF", "JPM", "BAC", "GS"},
		RiskFactors: []string{"interest rates", "yield curve", "credit risk", "regulation"},
	},
}

// GetSectorInfo returns correlation and risk info for a sector.
// Unknown sectors get an empty SectorInfo.
func GetSectorInfo(sector string) SectorInfo {
	return sectorCorrelations[strings.ToLower(sector)]
}

package monitor

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"PortSentinel/internal/model"
)

const maxNewsContentLen = 500

// NewsScanner pulls portfolio-relevant news from a web search backend.
type NewsScanner struct {
	search     Searcher
	perplexity *PerplexityClient
	log        zerolog.Logger
}

// NewNewsScanner creates a news scanner. perplexity may be nil.
func NewNewsScanner(search Searcher, perplexity *PerplexityClient, log zerolog.Logger) *NewsScanner {
	return &NewsScanner{
		search:     search,
		perplexity: perplexity,
		log:        log.With().Str("component", "news").Logger(),
	}
}

// ScanPortfolioNews gathers news for held tickers, their sectors, and
// up to 5 correlated assets, deduplicated by URL.
func (s *NewsScanner) ScanPortfolioNews(p *model.Portfolio) []model.NewsItem {
	var all []model.NewsItem

	for _, h := range p.Holdings {
		items := s.searchTickerNews(h.Ticker, h.Name)
		for i := range items {
			items[i].AffectedTickers = append(items[i].AffectedTickers, h.Ticker)
		}
		all = append(all, items...)
	}

	for _, sector := range p.Sectors() {
		items := s.searchSectorNews(sector)
		for i := range items {
			for _, h := range p.HoldingsBySector(sector) {
				items[i].AffectedTickers = appendUnique(items[i].AffectedTickers, h.Ticker)
			}
		}
		all = append(all, items...)
	}

	correlated := p.CorrelatedTickers()
	if len(correlated) > 5 {
		correlated = correlated[:5]
	}
	for _, ticker := range correlated {
		all = append(all, s.searchTickerNews(ticker, "")...)
	}

	return dedupeByURL(all)
}

var macroQueries = []string{
	"Federal Reserve FOMC interest rate decision today",
	"US dollar DXY strength currency markets",
	"Treasury yields bonds market today",
	"inflation CPI economic data",
	"geopolitical risk market impact",
}

// ScanMacroEvents gathers macro-economic news across a fixed set of
// themes, deduplicated by URL.
func (s *NewsScanner) ScanMacroEvents() []model.NewsItem {
	var all []model.NewsItem
	for _, query := range macroQueries {
		all = append(all, s.searchGeneral(query, 3)...)
	}
	return dedupeByURL(all)
}

// ScanRiskFactors gathers news mentioning the portfolio's qualitative
// risk-factor tags.
func (s *NewsScanner) ScanRiskFactors(factors []string) []model.NewsItem {
	var all []model.NewsItem
	for _, factor := range factors {
		items := s.searchGeneral(fmt.Sprintf("%s market news today impact", factor), 2)
		for i := range items {
			items[i].RelevanceScore = 0.8
		}
		all = append(all, items...)
	}
	return all
}

// ScanWithPerplexity asks Perplexity for a portfolio risk briefing.
// Returns empty when Perplexity is unavailable or the search fails.
func (s *NewsScanner) ScanWithPerplexity(p *model.Portfolio) string {
	if s.perplexity == nil || !s.perplexity.Enabled() {
		return ""
	}
	result := s.perplexity.SearchPortfolioRisks(p.Tickers(), p.Sectors())
	if result == nil {
		return ""
	}
	return FormatResultForLLM(result)
}

func (s *NewsScanner) searchTickerNews(ticker, name string) []model.NewsItem {
	query := strings.TrimSpace(fmt.Sprintf("%s %s stock ETF news today market", ticker, name))
	return s.searchGeneral(query, 3)
}

var sectorQueries = map[string]string{
	"precious_metals": "gold silver precious metals market news today",
	"tech":            "technology stocks Nasdaq tech sector news today",
	"energy":          "oil energy sector stocks news today",
	"financials":      "financial banks stocks sector news today",
	"healthcare":      "healthcare pharma biotech stocks news today",
}

func (s *NewsScanner) searchSectorNews(sector string) []model.NewsItem {
	query, ok := sectorQueries[strings.ToLower(sector)]
	if !ok {
		query = fmt.Sprintf("%s sector stocks news today", sector)
	}
	return s.searchGeneral(query, 3)
}

func (s *NewsScanner) searchGeneral(query string, maxResults int) []model.NewsItem {
	if s.search == nil || !s.search.Enabled() {
		return nil
	}

	results, err := s.search.Search(query, maxResults)
	if err != nil {
		s.log.Warn().Str("query", query).Err(err).Msg("news search failed")
		return nil
	}

	items := make([]model.NewsItem, 0, len(results))
	for _, r := range results {
		content := r.Content
		if len(content) > maxNewsContentLen {
			content = content[:maxNewsContentLen]
		}
		items = append(items, model.NewsItem{
			Title:          r.Title,
			Content:        content,
			URL:            r.URL,
			Source:         "tavily",
			RelevanceScore: r.Score,
		})
	}
	return items
}

func dedupeByURL(items []model.NewsItem) []model.NewsItem {
	seen := make(map[string]bool)
	var out []model.NewsItem
	for _, item := range items {
		if !seen[item.URL] {
			seen[item.URL] = true
			out = append(out, item)
		}
	}
	return out
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}

// FormatNewsForLLM renders up to 10 news items as prompt context.
func FormatNewsForLLM(items []model.NewsItem) string {
	if len(items) == 0 {
		return "No relevant news found."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("## Recent News (%d items)\n\n", len(items)))

	shown := items
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for i, item := range shown {
		tickers := "General"
		if len(item.AffectedTickers) > 0 {
			tickers = strings.Join(item.AffectedTickers, ", ")
		}
		content := item.Content
		if len(content) > 300 {
			content = content[:300]
		}
		b.WriteString(fmt.Sprintf("### %d. %s\n", i+1, item.Title))
		b.WriteString(fmt.Sprintf("    Tickers: %s\n", tickers))
		b.WriteString(fmt.Sprintf("    %s...\n\n", content))
	}
	return b.String()
}

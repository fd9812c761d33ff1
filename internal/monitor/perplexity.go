package monitor

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const perplexitySystemPrompt = "You are a financial news analyst. Provide concise, factual summaries " +
	"of market news and events. Focus on information that could impact investment portfolios."

// PerplexityResult is the answer to one Perplexity search.
type PerplexityResult struct {
	Content   string
	Citations []string
	Query     string
	Timestamp time.Time
}

// PerplexityClient asks the Perplexity chat API for grounded market
// intelligence.
type PerplexityClient struct {
	client *resty.Client
	apiKey string
	now    func() time.Time
	log    zerolog.Logger
}

// NewPerplexityClient creates a Perplexity client. An empty API key
// yields a disabled client whose searches return nil.
func NewPerplexityClient(apiKey string, log zerolog.Logger) *PerplexityClient {
	client := resty.New()
	client.SetBaseURL("https://api.perplexity.ai")
	client.SetTimeout(30 * time.Second)

	return &PerplexityClient{
		client: client,
		apiKey: apiKey,
		now:    time.Now,
		log:    log.With().Str("component", "perplexity").Logger(),
	}
}

// Enabled reports whether the client has an API key.
func (p *PerplexityClient) Enabled() bool {
	return p.apiKey != ""
}

// Search runs one query through the sonar-pro model. Failures are
// logged and return nil so callers degrade gracefully.
func (p *PerplexityClient) Search(query string) *PerplexityResult {
	if !p.Enabled() {
		return nil
	}

	payload := map[string]interface{}{
		"model": "sonar-pro",
		"messages": []map[string]string{
			{"role": "system", "content": perplexitySystemPrompt},
			{"role": "user", "content": query},
		},
		"search_context_size": "high",
		"return_citations":    true,
	}

	resp, err := p.client.R().
		SetHeader("Authorization", "Bearer "+p.apiKey).
		SetBody(payload).
		Post("/chat/completions")
	if err != nil {
		p.log.Warn().Err(err).Msg("perplexity search failed")
		return nil
	}
	if resp.StatusCode() != 200 {
		p.log.Warn().Int("status", resp.StatusCode()).Msg("perplexity API error")
		return nil
	}

	var body struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Citations []string `json:"citations"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		p.log.Warn().Err(err).Msg("perplexity response parse failed")
		return nil
	}

	var content string
	if len(body.Choices) > 0 {
		content = body.Choices[0].Message.Content
	}
	return &PerplexityResult{
		Content:   content,
		Citations: body.Citations,
		Query:     query,
		Timestamp: p.now(),
	}
}

// SearchPortfolioRisks asks for risks specific to the held tickers and
// sectors. At most 5 tickers go into the query.
func (p *PerplexityClient) SearchPortfolioRisks(tickers, sectors []string) *PerplexityResult {
	if len(tickers) > 5 {
		tickers = tickers[:5]
	}

	query := fmt.Sprintf(`What are the current market risks and news that could negatively impact these investments?

Holdings: %s
Sectors: %s

Focus on:
1. Breaking news that could affect these assets
2. Upcoming economic events (Fed, CPI, earnings)
3. Technical patterns suggesting potential reversals
4. Sector-specific risks
5. Macro risks (dollar, rates, geopolitical)

Provide specific, actionable risk warnings with time horizons.`,
		strings.Join(tickers, ", "), strings.Join(sectors, ", "))

	return p.Search(query)
}

// SearchMacroRisks asks for current macro-economic risks.
func (p *PerplexityClient) SearchMacroRisks() *PerplexityResult {
	return p.Search(`What are the top 5 macro-economic risks for US equity and precious metals investors today?

Consider:
- Federal Reserve policy and rate expectations
- US Dollar strength/weakness
- Inflation data and expectations
- Geopolitical tensions
- Market sentiment extremes

For each risk, indicate:
- Severity (Critical/High/Medium/Low)
- Time horizon (Immediate/Short-term/Medium-term)
- Which assets are most affected`)
}

// SearchAssetNews asks for the latest news on a single asset.
func (p *PerplexityClient) SearchAssetNews(ticker, name string) *PerplexityResult {
	query := fmt.Sprintf(`What is the latest news and analysis for %s (%s)?

Include:
- Price action and trend
- Recent news affecting the asset
- Analyst opinions and price targets
- Upcoming catalysts or risks
- Technical levels to watch`, ticker, name)

	return p.Search(query)
}

// SearchCorrelationRisks asks for an explanation of a divergence
// between two historically correlated assets.
func (p *PerplexityClient) SearchCorrelationRisks(asset1, asset2 string) *PerplexityResult {
	query := fmt.Sprintf(`Analyze the current correlation between %s and %s.

- Are they currently diverging from historical correlation?
- What could explain any divergence?
- Which asset is likely to "catch up" to the other?
- What does this divergence signal for investors?`, asset1, asset2)

	return p.Search(query)
}

// FormatResultForLLM renders a search result as prompt context. Up to
// 5 citations are listed.
func FormatResultForLLM(result *PerplexityResult) string {
	if result == nil {
		return "No real-time search results available."
	}

	var b strings.Builder
	b.WriteString("## Real-Time Market Intelligence\n")
	b.WriteString(fmt.Sprintf("Query: %s\n", result.Query))
	b.WriteString(fmt.Sprintf("Timestamp: %s\n\n", result.Timestamp.Format("2006-01-02 15:04:05")))
	b.WriteString(result.Content)

	if len(result.Citations) > 0 {
		b.WriteString("\n\n### Sources:\n")
		citations := result.Citations
		if len(citations) > 5 {
			citations = citations[:5]
		}
		for i, cite := range citations {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, cite))
		}
	}
	return b.String()
}

package monitor

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// SearchResult is a single web search hit.
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Searcher runs a web search and returns scored results.
type Searcher interface {
	Search(query string, maxResults int) ([]SearchResult, error)
	Enabled() bool
}

// TavilyClient searches the web through the Tavily API.
type TavilyClient struct {
	client *resty.Client
	apiKey string
	log    zerolog.Logger
}

// NewTavilyClient creates a Tavily search client. An empty API key
// yields a disabled client whose searches return nothing.
func NewTavilyClient(apiKey string, log zerolog.Logger) *TavilyClient {
	client := resty.New()
	client.SetBaseURL("https://api.tavily.com")
	client.SetTimeout(30 * time.Second)

	return &TavilyClient{
		client: client,
		apiKey: apiKey,
		log:    log.With().Str("component", "tavily").Logger(),
	}
}

// Enabled reports whether the client has an API key.
func (t *TavilyClient) Enabled() bool {
	return t.apiKey != ""
}

// Search runs a query and returns up to maxResults hits.
func (t *TavilyClient) Search(query string, maxResults int) ([]SearchResult, error) {
	if !t.Enabled() {
		return nil, nil
	}

	resp, err := t.client.R().
		SetBody(map[string]interface{}{
			"api_key":     t.apiKey,
			"query":       query,
			"max_results": maxResults,
		}).
		Post("/search")
	if err != nil {
		return nil, fmt.Errorf("tavily search: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("tavily API error %d: %s", resp.StatusCode(), resp.String())
	}

	var body struct {
		Results []SearchResult `json:"results"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("parse tavily response: %w", err)
	}
	return body.Results, nil
}

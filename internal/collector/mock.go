package collector

import (
	"fmt"
	"strings"
	"time"

	"PortSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Closes map[string][]float64    // ticker → daily closes, oldest first
	Quotes map[string]*model.Quote // ticker → quote, optional
	Errs   map[string]error        // ticker → forced fetch error
}

// NewMockFetcher creates an empty mock fetcher.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Closes: make(map[string][]float64),
		Quotes: make(map[string]*model.Quote),
		Errs:   make(map[string]error),
	}
}

func (m *MockFetcher) Name() string { return "mock" }

// SetCloses registers a close series for a ticker.
func (m *MockFetcher) SetCloses(ticker string, closes ...float64) {
	m.Closes[strings.ToUpper(ticker)] = closes
}

// SetQuote registers a quote with 52-week bounds for a ticker.
func (m *MockFetcher) SetQuote(ticker string, price, high52, low52 float64) {
	m.Quotes[strings.ToUpper(ticker)] = &model.Quote{
		Ticker:   strings.ToUpper(ticker),
		Price:    price,
		High52W:  high52,
		Low52W:   low52,
		HasRange: high52 > 0 && low52 > 0,
	}
}

func (m *MockFetcher) FetchDailyCloses(ticker string, days int) ([]model.OHLCV, error) {
	ticker = strings.ToUpper(ticker)
	if err, ok := m.Errs[ticker]; ok {
		return nil, err
	}
	closes, ok := m.Closes[ticker]
	if !ok {
		return nil, fmt.Errorf("mock: no data for %s", ticker)
	}
	if len(closes) > days {
		closes = closes[len(closes)-days:]
	}
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(len(closes) - i)),
			Open:   c,
			High:   c * 1.005,
			Low:    c * 0.995,
			Close:  c,
			Volume: 1000000,
		}
	}
	return bars, nil
}

func (m *MockFetcher) FetchQuote(ticker string) (*model.Quote, error) {
	ticker = strings.ToUpper(ticker)
	if err, ok := m.Errs[ticker]; ok {
		return nil, err
	}
	if q, ok := m.Quotes[ticker]; ok {
		return q, nil
	}
	// No registered quote: fall back to the last close with no range.
	closes, ok := m.Closes[ticker]
	if !ok || len(closes) == 0 {
		return nil, fmt.Errorf("mock: no quote for %s", ticker)
	}
	return &model.Quote{Ticker: ticker, Price: closes[len(closes)-1]}, nil
}

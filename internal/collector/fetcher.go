package collector

import "PortSentinel/internal/model"

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchDailyCloses returns up to `days` daily bars, oldest first.
	FetchDailyCloses(ticker string, days int) ([]model.OHLCV, error)
	// FetchQuote returns the latest price and 52-week bounds when the
	// source reports them.
	FetchQuote(ticker string) (*model.Quote, error)
	Name() string
}

package collector

import (
	"fmt"
	"strings"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"

	"PortSentinel/internal/model"
)

// YahooFetcher implements Fetcher on top of Yahoo Finance.
type YahooFetcher struct {
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a Yahoo Finance fetcher with common index aliases.
func NewYahooFetcher() *YahooFetcher {
	return &YahooFetcher{
		SymbolMap: map[string]string{
			"DXY":    "DX-Y.NYB",
			"SPX":    "^GSPC",
			"SPX500": "^GSPC",
			"VIX":    "^VIX",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(ticker string) string {
	ticker = strings.ToUpper(ticker)
	if mapped, ok := f.SymbolMap[ticker]; ok {
		return mapped
	}
	return ticker
}

// FetchDailyCloses returns the last `days` daily bars, oldest first.
func (f *YahooFetcher) FetchDailyCloses(ticker string, days int) ([]model.OHLCV, error) {
	end := time.Now()
	// Pad the calendar window so weekends/holidays still yield enough
	// trading days.
	start := end.AddDate(0, 0, -(days*2 + 7))

	params := &chart.Params{
		Symbol:   f.yahooSymbol(ticker),
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)
	var bars []model.OHLCV
	for iter.Next() {
		b := iter.Bar()
		c, _ := b.Close.Float64()
		if c == 0 {
			continue // skip null bars (holidays etc.)
		}
		o, _ := b.Open.Float64()
		h, _ := b.High.Float64()
		l, _ := b.Low.Float64()
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(int64(b.Timestamp), 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: float64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// FetchQuote returns the latest price and 52-week bounds for a ticker.
func (f *YahooFetcher) FetchQuote(ticker string) (*model.Quote, error) {
	q, err := quote.Get(f.yahooSymbol(ticker))
	if err != nil {
		return nil, fmt.Errorf("yahoo quote %s: %w", ticker, err)
	}
	if q == nil {
		return nil, fmt.Errorf("yahoo quote %s: no data", ticker)
	}
	return &model.Quote{
		Ticker:   strings.ToUpper(ticker),
		Price:    q.RegularMarketPrice,
		High52W:  q.FiftyTwoWeekHigh,
		Low52W:   q.FiftyTwoWeekLow,
		HasRange: q.FiftyTwoWeekHigh > 0 && q.FiftyTwoWeekLow > 0,
	}, nil
}

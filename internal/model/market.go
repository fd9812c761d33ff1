package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Quote holds the latest price and, when available, the 52-week range.
type Quote struct {
	Ticker   string
	Price    float64
	High52W  float64
	Low52W   float64
	HasRange bool // false when the source did not report 52-week bounds
}

// AssetPrice is the derived short-horizon signal for one asset.
type AssetPrice struct {
	Ticker              string
	Price               float64
	ChangePct           float64
	Change5DPct         float64
	AtHigh              bool // at or near the 52-week high
	AtLow               bool // at or near the 52-week low
	ConsecutiveUpDays   int
	ConsecutiveDownDays int
}

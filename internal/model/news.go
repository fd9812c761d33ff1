package model

import "time"

// NewsItem is a single piece of market news.
type NewsItem struct {
	Title           string
	Content         string
	URL             string
	Source          string
	Published       time.Time
	RelevanceScore  float64
	AffectedTickers []string
	Sentiment       string // BULLISH, BEARISH, NEUTRAL
}

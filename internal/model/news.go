package model

import "time"

// NewsRecord is one article row of a news dataset.
type NewsRecord struct {
	Date      time.Time
	Publisher string
	Headline  string
	URL       string
	Symbol    string
	// Sentiment is nil until the headline has been scored.
	Sentiment *float64
}

// HasSentiment reports whether the record carries a score.
func (n NewsRecord) HasSentiment() bool { return n.Sentiment != nil }

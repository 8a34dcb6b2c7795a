package entity

import (
	"strings"
	"time"
)

// Sentiment labels as produced by the classifier.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Article is one news item normalized across providers. Every retained
// Article has a non-empty title and a valid published date; records
// failing either rule are discarded at ingestion, never defaulted.
type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"published_at"`

	// RawSentiment is the provider's inline tone, rescaled to [-1, 1].
	// Zero when the provider supplies none. Independent of the
	// classifier's later score.
	RawSentiment float64 `json:"raw_sentiment,omitempty"`
}

// Prediction is one classifier output for one input text.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// ScoredArticle is an Article plus its classifier output.
type ScoredArticle struct {
	Article
	SentimentLabel string  `json:"sentiment_label"`
	Confidence     float64 `json:"confidence"`
	SentimentScore float64 `json:"sentiment_score"`
}

// Polarity maps a sentiment label to its numeric direction. The match
// is case-insensitive; unrecognized labels count as neutral.
func Polarity(label string) float64 {
	switch strings.ToLower(label) {
	case SentimentPositive:
		return 1
	case SentimentNegative:
		return -1
	default:
		return 0
	}
}

// DailySentiment is the mean classifier output over all scored
// articles published on one calendar date.
type DailySentiment struct {
	Date           time.Time `json:"date"`
	SentimentScore float64   `json:"sentiment_score"`
	Confidence     float64   `json:"confidence"`
}

package entity

import "time"

// DailyReturn is one trading day of price data. Return is the simple
// daily return of the adjusted close; it is nil on the first row of a
// fetched window regardless of whether earlier history exists.
type DailyReturn struct {
	Date     time.Time `json:"date"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adjusted_close"`
	Return   *float64  `json:"return"`
}

// MergedRow is the inner join of DailySentiment and DailyReturn on
// calendar date. Only dates present in both series survive.
type MergedRow struct {
	Date           time.Time `json:"date"`
	SentimentScore float64   `json:"sentiment_score"`
	Confidence     float64   `json:"confidence"`
	Close          float64   `json:"close"`
	AdjClose       float64   `json:"adjusted_close"`
	Return         *float64  `json:"return"`
}

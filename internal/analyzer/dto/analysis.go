package dto

import (
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/entity"
)

// Analysis outcome statuses surfaced to the caller.
const (
	StatusOK               = "ok"
	StatusNoNews           = "No news found in this date range."
	StatusNoOverlap        = "No overlapping trading days between news sentiment and market returns."
	StatusInsufficientData = "Insufficient data to compute a correlation."
)

// AnalyzeRequest is the caller-facing request for one analysis run.
type AnalyzeRequest struct {
	Ticker string `query:"ticker" validate:"required,alphanum,uppercase,max=10"`
	Start  string `query:"start" validate:"required,datetime=2006-01-02"`
	End    string `query:"end" validate:"required,datetime=2006-01-02"`
}

// AnalysisResult is the outcome of one analysis run. Rows and
// Correlation are populated only on the happy path; otherwise Status
// carries a short human-readable message.
type AnalysisResult struct {
	Ticker       string             `json:"ticker"`
	Start        time.Time          `json:"start"`
	End          time.Time          `json:"end"`
	Status       string             `json:"status"`
	ArticleCount int                `json:"article_count"`
	Rows         []entity.MergedRow `json:"rows,omitempty"`
	Correlation  *float64           `json:"correlation,omitempty"`
}

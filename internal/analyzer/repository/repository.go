package repository

import (
	"context"
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/entity"
)

// NewsRepository fetches news articles matching a query inside a date
// window. Implementations return an empty slice, not an error, when
// the provider reports zero matches.
type NewsRepository interface {
	Fetch(ctx context.Context, query string, start, end time.Time) ([]entity.Article, error)
}

// MarketDataRepository supplies daily prices and simple returns for a
// ticker. Rows are ordered by ascending trading date and the first
// row's return is always nil.
type MarketDataRepository interface {
	GetDailyReturns(ctx context.Context, ticker string, start, end time.Time) ([]entity.DailyReturn, error)
}

// SentimentRepository is the black-box batch text classifier. The
// returned slice has the same length and order as titles.
type SentimentRepository interface {
	Classify(ctx context.Context, titles []string) ([]entity.Prediction, error)
}

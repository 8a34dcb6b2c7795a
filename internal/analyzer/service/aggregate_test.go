package service

import (
	"testing"
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestScoreArticlesPolarity(t *testing.T) {
	articles := []entity.Article{
		{Title: "a", PublishedAt: day(1)},
		{Title: "b", PublishedAt: day(1)},
		{Title: "c", PublishedAt: day(1)},
		{Title: "d", PublishedAt: day(1)},
		{Title: "e", PublishedAt: day(1)},
	}
	predictions := []entity.Prediction{
		{Label: "positive", Confidence: 0.9},
		{Label: "Positive", Confidence: 0.4},
		{Label: "NEGATIVE", Confidence: 0.8},
		{Label: "neutral", Confidence: 0.7},
		{Label: "somewhat-bullish", Confidence: 0.6}, // unrecognized → neutral
	}

	scored := ScoreArticles(articles, predictions)

	require.Len(t, scored, 5)
	assert.InDelta(t, 0.9, scored[0].SentimentScore, 1e-9)
	assert.InDelta(t, 0.4, scored[1].SentimentScore, 1e-9)
	assert.InDelta(t, -0.8, scored[2].SentimentScore, 1e-9)
	assert.InDelta(t, 0.0, scored[3].SentimentScore, 1e-9)
	assert.InDelta(t, 0.0, scored[4].SentimentScore, 1e-9)
}

func TestAggregateDailyMeans(t *testing.T) {
	scored := []entity.ScoredArticle{
		{Article: entity.Article{PublishedAt: day(1)}, SentimentScore: 0.9, Confidence: 0.9},
		{Article: entity.Article{PublishedAt: day(1)}, SentimentScore: -0.3, Confidence: 0.6},
		{Article: entity.Article{PublishedAt: day(1)}, SentimentScore: 0.0, Confidence: 0.3},
		{Article: entity.Article{PublishedAt: day(3)}, SentimentScore: 0.5, Confidence: 1.0},
	}

	daily := AggregateDaily(scored)

	require.Len(t, daily, 2)
	assert.Equal(t, day(1), daily[0].Date)
	assert.InDelta(t, 0.2, daily[0].SentimentScore, 1e-9)
	assert.InDelta(t, 0.6, daily[0].Confidence, 1e-9)
	assert.Equal(t, day(3), daily[1].Date)
	assert.InDelta(t, 0.5, daily[1].SentimentScore, 1e-9)
}

func TestAggregateDailyNoZeroFill(t *testing.T) {
	scored := []entity.ScoredArticle{
		{Article: entity.Article{PublishedAt: day(1)}, SentimentScore: 0.5, Confidence: 0.5},
		{Article: entity.Article{PublishedAt: day(5)}, SentimentScore: 0.5, Confidence: 0.5},
	}

	daily := AggregateDaily(scored)

	// Days 2-4 have no articles and must not appear as keys.
	require.Len(t, daily, 2)
	assert.Equal(t, day(1), daily[0].Date)
	assert.Equal(t, day(5), daily[1].Date)
}

func TestAggregateDailyDropsTimeOfDay(t *testing.T) {
	morning := time.Date(2024, time.January, 1, 8, 30, 0, 0, time.UTC)
	evening := time.Date(2024, time.January, 1, 22, 15, 0, 0, time.UTC)
	scored := []entity.ScoredArticle{
		{Article: entity.Article{PublishedAt: morning}, SentimentScore: 1.0, Confidence: 1.0},
		{Article: entity.Article{PublishedAt: evening}, SentimentScore: 0.0, Confidence: 0.5},
	}

	daily := AggregateDaily(scored)

	require.Len(t, daily, 1)
	assert.InDelta(t, 0.5, daily[0].SentimentScore, 1e-9)
}

func TestAggregateDailyEmpty(t *testing.T) {
	assert.Empty(t, AggregateDaily(nil))
}

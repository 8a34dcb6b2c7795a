package service

import (
	"sort"
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/entity"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/utils"
)

// ScoreArticles combines articles with their classifier predictions.
// The two slices must be index-aligned.
func ScoreArticles(articles []entity.Article, predictions []entity.Prediction) []entity.ScoredArticle {
	scored := make([]entity.ScoredArticle, 0, len(articles))
	for i, article := range articles {
		pred := predictions[i]
		scored = append(scored, entity.ScoredArticle{
			Article:        article,
			SentimentLabel: pred.Label,
			Confidence:     pred.Confidence,
			SentimentScore: entity.Polarity(pred.Label) * pred.Confidence,
		})
	}
	return scored
}

// AggregateDaily collapses scored articles into one row per calendar
// date: the unweighted mean of sentiment score and of confidence,
// each computed independently. Dates with no articles simply do not
// appear; gaps are left to the later inner join, never zero-filled.
func AggregateDaily(scored []entity.ScoredArticle) []entity.DailySentiment {
	type accumulator struct {
		scoreSum      float64
		confidenceSum float64
		count         int
	}

	groups := make(map[time.Time]*accumulator)
	for _, article := range scored {
		date := utils.DateOnly(article.PublishedAt)
		acc, ok := groups[date]
		if !ok {
			acc = &accumulator{}
			groups[date] = acc
		}
		acc.scoreSum += article.SentimentScore
		acc.confidenceSum += article.Confidence
		acc.count++
	}

	daily := make([]entity.DailySentiment, 0, len(groups))
	for date, acc := range groups {
		daily = append(daily, entity.DailySentiment{
			Date:           date,
			SentimentScore: acc.scoreSum / float64(acc.count),
			Confidence:     acc.confidenceSum / float64(acc.count),
		})
	}

	sort.Slice(daily, func(i, j int) bool {
		return daily[i].Date.Before(daily[j].Date)
	})

	return daily
}

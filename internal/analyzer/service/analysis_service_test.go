package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/dto"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSentimentRepository struct {
	predictions []entity.Prediction
	err         error
	calls       int
}

func (f *fakeSentimentRepository) Classify(_ context.Context, titles []string) ([]entity.Prediction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.predictions != nil {
		return f.predictions, nil
	}
	preds := make([]entity.Prediction, len(titles))
	for i := range preds {
		preds[i] = entity.Prediction{Label: entity.SentimentPositive, Confidence: 0.9}
	}
	return preds, nil
}

type fakeMarketDataRepository struct {
	returns []entity.DailyReturn
	err     error
	calls   int
}

func (f *fakeMarketDataRepository) GetDailyReturns(_ context.Context, _ string, _, _ time.Time) ([]entity.DailyReturn, error) {
	f.calls++
	return f.returns, f.err
}

func newTestAnalysisService(t *testing.T, news *fakeNewsRepository, sentiment *fakeSentimentRepository, market *fakeMarketDataRepository) AnalysisService {
	t.Helper()
	cfg := testConfig()
	log := testLogger(t)
	newsSvc := NewNewsService(cfg, log, news, &fakeNewsRepository{})
	return NewAnalysisService(cfg, log, newsSvc, sentiment, market)
}

func TestAnalyzeRejectsInvertedRangeWithoutFetching(t *testing.T) {
	news := &fakeNewsRepository{}
	sentiment := &fakeSentimentRepository{}
	market := &fakeMarketDataRepository{}
	svc := newTestAnalysisService(t, news, sentiment, market)

	_, err := svc.Analyze(context.Background(), "AAPL", day(10), day(1))

	require.ErrorIs(t, err, entity.ErrInvalidDateRange)
	assert.Equal(t, 0, news.calls)
	assert.Equal(t, 0, sentiment.calls)
	assert.Equal(t, 0, market.calls)
}

func TestAnalyzeNoNewsStatus(t *testing.T) {
	news := &fakeNewsRepository{} // zero articles
	sentiment := &fakeSentimentRepository{}
	market := &fakeMarketDataRepository{}
	svc := newTestAnalysisService(t, news, sentiment, market)

	result, err := svc.Analyze(context.Background(), "AAPL", day(1), day(10))

	require.NoError(t, err)
	assert.Equal(t, dto.StatusNoNews, result.Status)
	assert.Empty(t, result.Rows)
	assert.Nil(t, result.Correlation)
	// Nothing downstream runs when there is no news.
	assert.Equal(t, 0, sentiment.calls)
	assert.Equal(t, 0, market.calls)
}

func TestAnalyzeNoOverlapStatus(t *testing.T) {
	news := &fakeNewsRepository{articles: []entity.Article{{Title: "a", PublishedAt: day(1)}}}
	sentiment := &fakeSentimentRepository{}
	market := &fakeMarketDataRepository{returns: []entity.DailyReturn{{Date: day(20), Close: 100, AdjClose: 100}}}
	svc := newTestAnalysisService(t, news, sentiment, market)

	result, err := svc.Analyze(context.Background(), "AAPL", day(1), day(25))

	require.NoError(t, err)
	assert.Equal(t, dto.StatusNoOverlap, result.Status)
	assert.Empty(t, result.Rows)
}

func TestAnalyzeInsufficientDataStatus(t *testing.T) {
	// One overlapping day is not enough for a correlation.
	news := &fakeNewsRepository{articles: []entity.Article{{Title: "a", PublishedAt: day(2)}}}
	sentiment := &fakeSentimentRepository{}
	market := &fakeMarketDataRepository{returns: []entity.DailyReturn{
		{Date: day(1), Close: 100, AdjClose: 100},
		{Date: day(2), Close: 101, AdjClose: 101, Return: f(0.01)},
	}}
	svc := newTestAnalysisService(t, news, sentiment, market)

	result, err := svc.Analyze(context.Background(), "AAPL", day(1), day(10))

	require.NoError(t, err)
	assert.Equal(t, dto.StatusInsufficientData, result.Status)
	assert.Len(t, result.Rows, 1)
	assert.Nil(t, result.Correlation)
}

func TestAnalyzeSuccess(t *testing.T) {
	news := &fakeNewsRepository{articles: []entity.Article{
		{Title: "up big", PublishedAt: day(2)},
		{Title: "down big", PublishedAt: day(3)},
		{Title: "flat", PublishedAt: day(4)},
	}}
	sentiment := &fakeSentimentRepository{predictions: []entity.Prediction{
		{Label: "positive", Confidence: 0.9},
		{Label: "negative", Confidence: 0.9},
		{Label: "neutral", Confidence: 0.9},
	}}
	market := &fakeMarketDataRepository{returns: []entity.DailyReturn{
		{Date: day(2), Close: 100, AdjClose: 100},
		{Date: day(3), Close: 99, AdjClose: 99, Return: f(-0.01)},
		{Date: day(4), Close: 99.5, AdjClose: 99.5, Return: f(0.00505)},
	}}
	svc := newTestAnalysisService(t, news, sentiment, market)

	result, err := svc.Analyze(context.Background(), "AAPL", day(1), day(10))

	require.NoError(t, err)
	assert.Equal(t, dto.StatusOK, result.Status)
	assert.Equal(t, 3, result.ArticleCount)
	require.Len(t, result.Rows, 3)
	require.NotNil(t, result.Correlation)
	assert.GreaterOrEqual(t, *result.Correlation, -1.0)
	assert.LessOrEqual(t, *result.Correlation, 1.0)
}

func TestAnalyzeUpstreamFailurePropagates(t *testing.T) {
	news := &fakeNewsRepository{articles: []entity.Article{{Title: "a", PublishedAt: day(1)}}}
	sentiment := &fakeSentimentRepository{}
	market := &fakeMarketDataRepository{err: errors.New("yahoo down")}
	svc := newTestAnalysisService(t, news, sentiment, market)

	_, err := svc.Analyze(context.Background(), "AAPL", day(1), day(10))

	require.Error(t, err)
}

func TestAnalyzeClassifierFailurePropagates(t *testing.T) {
	news := &fakeNewsRepository{articles: []entity.Article{{Title: "a", PublishedAt: day(1)}}}
	sentiment := &fakeSentimentRepository{err: errors.New("quota exceeded")}
	market := &fakeMarketDataRepository{}
	svc := newTestAnalysisService(t, news, sentiment, market)

	_, err := svc.Analyze(context.Background(), "AAPL", day(1), day(10))

	require.Error(t, err)
	assert.Equal(t, 0, market.calls)
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/config"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/dto"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/repository"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/entity"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/logger"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/utils"
)

// AnalysisService runs the full news-sentiment / market-return
// pipeline for one ticker and date range.
type AnalysisService interface {
	Analyze(ctx context.Context, ticker string, start, end time.Time) (*dto.AnalysisResult, error)
}

type analysisService struct {
	cfg        *config.Config
	log        *logger.Logger
	news       NewsService
	sentiment  repository.SentimentRepository
	marketData repository.MarketDataRepository
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(cfg *config.Config, log *logger.Logger, news NewsService, sentiment repository.SentimentRepository, marketData repository.MarketDataRepository) AnalysisService {
	return &analysisService{
		cfg:        cfg,
		log:        log,
		news:       news,
		sentiment:  sentiment,
		marketData: marketData,
	}
}

func (s *analysisService) Analyze(ctx context.Context, ticker string, start, end time.Time) (*dto.AnalysisResult, error) {
	start = utils.DateOnly(start)
	end = utils.DateOnly(end)

	if start.After(end) {
		return nil, entity.ErrInvalidDateRange
	}

	result := &dto.AnalysisResult{
		Ticker: ticker,
		Start:  start,
		End:    end,
	}

	articles, err := s.news.FetchAuto(ctx, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	if len(articles) == 0 {
		// Both providers came back empty. Same user-facing outcome
		// whichever provider was tried.
		result.Status = dto.StatusNoNews
		return result, nil
	}
	result.ArticleCount = len(articles)

	titles := make([]string, len(articles))
	for i, a := range articles {
		titles[i] = a.Title
	}

	predictions, err := s.sentiment.Classify(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("failed to classify headlines: %w", err)
	}

	scored := ScoreArticles(articles, predictions)
	daily := AggregateDaily(scored)

	returns, err := s.marketData.GetDailyReturns(ctx, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market data: %w", err)
	}

	rows := MergeDaily(daily, returns)
	if len(rows) == 0 {
		result.Status = dto.StatusNoOverlap
		return result, nil
	}
	result.Rows = rows

	correlation, ok := PearsonCorrelation(rows)
	if !ok {
		result.Status = dto.StatusInsufficientData
		return result, nil
	}
	result.Correlation = &correlation
	result.Status = dto.StatusOK

	s.log.Info("Analysis complete",
		logger.StringField("ticker", ticker),
		logger.IntField("articles", len(articles)),
		logger.IntField("merged_rows", len(rows)),
		logger.Field("correlation", correlation),
	)

	return result, nil
}

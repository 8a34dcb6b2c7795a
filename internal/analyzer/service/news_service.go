package service

import (
	"context"
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/config"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/repository"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/entity"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/logger"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/utils"
)

// NewsService routes a fetch to the provider suited to the requested
// range length and falls back once when the historical provider comes
// back empty.
type NewsService interface {
	FetchAuto(ctx context.Context, query string, start, end time.Time) ([]entity.Article, error)
}

type newsService struct {
	cfg        *config.Config
	log        *logger.Logger
	recent     repository.NewsRepository
	historical repository.NewsRepository
}

// NewNewsService creates a new NewsService over the two providers.
func NewNewsService(cfg *config.Config, log *logger.Logger, recent, historical repository.NewsRepository) NewsService {
	return &newsService{
		cfg:        cfg,
		log:        log,
		recent:     recent,
		historical: historical,
	}
}

// FetchAuto selects the provider by range length. Short ranges go to
// the recent-news provider for low latency and full-text quality; long
// ranges go to the historical provider, accepting tone-only fidelity
// as the tradeoff, with one fallback hop to the recent provider when
// the historical result is empty.
func (s *newsService) FetchAuto(ctx context.Context, query string, start, end time.Time) ([]entity.Article, error) {
	days := utils.DaysBetween(start, end)
	s.log.DebugContext(ctx, "Routing news fetch", logger.StringField("query", query), logger.IntField("days", days))

	if days <= s.cfg.News.RecentWindowDays {
		return s.recent.Fetch(ctx, query, start, end)
	}

	articles, err := s.historical.Fetch(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	if len(articles) > 0 {
		return articles, nil
	}

	s.log.Info("Historical provider returned no articles, falling back to recent-news provider",
		logger.StringField("query", query),
		logger.StringField("start", start.Format("2006-01-02")),
		logger.StringField("end", end.Format("2006-01-02")),
	)
	return s.recent.Fetch(ctx, query, start, end)
}

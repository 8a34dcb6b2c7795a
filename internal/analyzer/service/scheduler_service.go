package service

import (
	"context"
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/config"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/logger"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/telegram"

	"github.com/robfig/cron/v3"
)

// SchedulerService periodically re-analyzes the configured watchlist
// and delivers summaries through the Telegram notifier.
type SchedulerService interface {
	Start(ctx context.Context) error
	RunWatchlist(ctx context.Context)
}

type schedulerService struct {
	cfg      *config.Config
	log      *logger.Logger
	analysis AnalysisService
	notifier telegram.Notifier
	cron     *cron.Cron
}

// NewSchedulerService creates a new watchlist scheduler. notifier may
// be nil, in which case summaries are only logged.
func NewSchedulerService(cfg *config.Config, log *logger.Logger, analysis AnalysisService, notifier telegram.Notifier) SchedulerService {
	return &schedulerService{
		cfg:      cfg,
		log:      log,
		analysis: analysis,
		notifier: notifier,
		cron:     cron.New(),
	}
}

// Start registers the cron entry and runs until the context is done.
func (s *schedulerService) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Scheduler.CronSpec, func() {
		s.RunWatchlist(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Watchlist scheduler started",
		logger.StringField("cron_spec", s.cfg.Scheduler.CronSpec),
		logger.IntField("tickers", len(s.cfg.Scheduler.Tickers)),
	)

	<-ctx.Done()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("Watchlist scheduler stopped")
	return nil
}

// RunWatchlist analyzes every configured ticker over the lookback
// window. Per-ticker failures are logged and never abort the sweep.
func (s *schedulerService) RunWatchlist(ctx context.Context) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -s.cfg.Scheduler.LookbackDays)

	results := make([]telegram.AnalysisSummary, 0, len(s.cfg.Scheduler.Tickers))
	for _, ticker := range s.cfg.Scheduler.Tickers {
		result, err := s.analysis.Analyze(ctx, ticker, start, end)
		if err != nil {
			s.log.Error("Watchlist analysis failed", logger.ErrorField(err), logger.StringField("ticker", ticker))
			continue
		}

		summary := telegram.AnalysisSummary{
			Ticker:       result.Ticker,
			Start:        result.Start,
			End:          result.End,
			Status:       result.Status,
			ArticleCount: result.ArticleCount,
			MergedDays:   len(result.Rows),
			Correlation:  result.Correlation,
		}
		results = append(results, summary)
	}

	if s.notifier == nil || len(results) == 0 {
		return
	}

	for _, message := range telegram.FormatAnalysisSummaries(results) {
		if err := s.notifier.SendMessage(message); err != nil {
			s.log.Error("Failed to send Telegram notification", logger.ErrorField(err))
		}
	}
}

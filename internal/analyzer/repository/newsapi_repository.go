package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/config"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/dto"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/entity"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/common"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/logger"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/utils"

	"golang.org/x/time/rate"
)

// newsAPIRepository fetches recent news from the NewsAPI keyword
// search endpoint. Single request per fetch: the endpoint caps results
// at one page, so high-volume short ranges may truncate at PageSize.
type newsAPIRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewNewsAPIRepository creates the recent-news provider.
func NewNewsAPIRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.News.NewsAPI.MaxRequestPerMinute)
	return &newsAPIRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *newsAPIRepository) Fetch(ctx context.Context, query string, start, end time.Time) ([]entity.Article, error) {
	if r.cfg.News.NewsAPI.APIKey == "" {
		return nil, entity.ErrMissingAPIKey
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("from", start.Format(common.DateFormat))
	params.Set("to", end.Format(common.DateFormat))
	params.Set("language", r.cfg.News.NewsAPI.Language)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", fmt.Sprintf("%d", r.cfg.News.NewsAPI.PageSize))
	params.Set("apiKey", r.cfg.News.NewsAPI.APIKey)

	apiURL := fmt.Sprintf("%s/everything?%s", r.cfg.News.NewsAPI.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to NewsAPI", logger.ErrorField(err), logger.StringField("query", query))
		return nil, fmt.Errorf("failed to send request to NewsAPI: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.log.ErrorContext(ctx, "Received non-OK response from NewsAPI", logger.IntField("status_code", resp.StatusCode), logger.StringField("query", query))
		return nil, fmt.Errorf("received non-OK response from NewsAPI: %d - %s", resp.StatusCode, string(body))
	}

	var response dto.NewsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode NewsAPI response: %w", err)
	}

	articles := make([]entity.Article, 0, len(response.Articles))
	for _, a := range response.Articles {
		if a.Title == "" {
			continue
		}
		publishedAt, err := parseNewsAPIDate(a.PublishedAt)
		if err != nil {
			r.log.Warn("Discarding article with unparsable date", logger.StringField("published_at", a.PublishedAt), logger.StringField("title", a.Title))
			continue
		}
		articles = append(articles, entity.Article{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: publishedAt,
		})
	}

	r.log.DebugContext(ctx, "NewsAPI fetch complete", logger.StringField("query", query), logger.IntField("articles", len(articles)))

	return articles, nil
}

// parseNewsAPIDate truncates an ISO8601 publishedAt to its date part.
func parseNewsAPIDate(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t, err = time.Parse(common.DateFormat, value)
		if err != nil {
			return time.Time{}, err
		}
	}
	return utils.DateOnly(t), nil
}

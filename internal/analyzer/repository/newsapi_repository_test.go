package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/config"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/entity"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func newsAPIConfig(baseURL, apiKey string) *config.Config {
	return &config.Config{
		News: config.News{
			NewsAPI: config.NewsAPI{
				BaseURL:             baseURL,
				APIKey:              apiKey,
				Language:            "en",
				PageSize:            100,
				MaxRequestPerMinute: 60000,
			},
		},
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewsAPIFetchMapsFields(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"q": q.Get("q"), "from": q.Get("from"), "to": q.Get("to"),
			"sortBy": q.Get("sortBy"), "pageSize": q.Get("pageSize"), "apiKey": q.Get("apiKey"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"totalResults": 3,
			"articles": [
				{"source": {"id": "r", "name": "Reuters"}, "title": "Apple rallies", "url": "https://example.com/1", "publishedAt": "2024-01-05T14:30:00Z"},
				{"source": {"name": "AP"}, "title": "", "url": "https://example.com/2", "publishedAt": "2024-01-06T09:00:00Z"},
				{"source": {"name": "AP"}, "title": "Bad date", "url": "https://example.com/3", "publishedAt": "yesterday"}
			]
		}`))
	}))
	defer server.Close()

	repo := NewNewsAPIRepository(newsAPIConfig(server.URL, "test-key"), testLogger(t))
	articles, err := repo.Fetch(context.Background(), "AAPL", date(2024, time.January, 1), date(2024, time.January, 10))

	require.NoError(t, err)
	// Titleless and unparsable-date records are discarded, never defaulted.
	require.Len(t, articles, 1)
	assert.Equal(t, "Apple rallies", articles[0].Title)
	assert.Equal(t, "Reuters", articles[0].Source)
	assert.Equal(t, date(2024, time.January, 5), articles[0].PublishedAt)
	assert.Zero(t, articles[0].RawSentiment)

	assert.Equal(t, "AAPL", gotQuery["q"])
	assert.Equal(t, "2024-01-01", gotQuery["from"])
	assert.Equal(t, "2024-01-10", gotQuery["to"])
	assert.Equal(t, "publishedAt", gotQuery["sortBy"])
	assert.Equal(t, "100", gotQuery["pageSize"])
	assert.Equal(t, "test-key", gotQuery["apiKey"])
}

func TestNewsAPIFetchEmptyResultIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ok", "totalResults": 0, "articles": []}`))
	}))
	defer server.Close()

	repo := NewNewsAPIRepository(newsAPIConfig(server.URL, "test-key"), testLogger(t))
	articles, err := repo.Fetch(context.Background(), "AAPL", date(2024, time.January, 1), date(2024, time.January, 10))

	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestNewsAPIFetchNonOKIsHardError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status": "error", "code": "rateLimited"}`))
	}))
	defer server.Close()

	repo := NewNewsAPIRepository(newsAPIConfig(server.URL, "test-key"), testLogger(t))
	_, err := repo.Fetch(context.Background(), "AAPL", date(2024, time.January, 1), date(2024, time.January, 10))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-OK")
}

func TestNewsAPIFetchMissingKeyFailsFast(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	repo := NewNewsAPIRepository(newsAPIConfig(server.URL, ""), testLogger(t))
	_, err := repo.Fetch(context.Background(), "AAPL", date(2024, time.January, 1), date(2024, time.January, 10))

	require.ErrorIs(t, err, entity.ErrMissingAPIKey)
	assert.Zero(t, requests)
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/config"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/dto"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/entity"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/logger"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/utils"

	"golang.org/x/time/rate"
)

// yahooFinanceRepository supplies daily prices from the Yahoo Finance
// chart API and computes simple returns over the fetched window.
type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates the market data adapter.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *yahooFinanceRepository) GetDailyReturns(ctx context.Context, ticker string, start, end time.Time) ([]entity.DailyReturn, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	params := url.Values{}
	params.Set("period1", fmt.Sprintf("%d", utils.DateOnly(start).Unix()))
	// period2 is exclusive; extend by one day so end's trading session is included.
	params.Set("period2", fmt.Sprintf("%d", utils.DateOnly(end).AddDate(0, 0, 1).Unix()))
	params.Set("interval", "1d")
	params.Set("events", "div,split")

	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", r.cfg.YahooFinance.BaseURL, url.PathEscape(ticker), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to Yahoo Finance API", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return nil, fmt.Errorf("failed to send request to Yahoo Finance API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from Yahoo Finance API", logger.IntField("status_code", resp.StatusCode), logger.StringField("ticker", ticker))
		return nil, fmt.Errorf("received non-OK response from Yahoo Finance API: %d", resp.StatusCode)
	}

	var chartResp dto.YahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		return nil, fmt.Errorf("failed to decode Yahoo Finance response: %w", err)
	}

	if chartResp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo finance error: %s - %s", chartResp.Chart.Error.Code, chartResp.Chart.Error.Description)
	}
	if len(chartResp.Chart.Result) == 0 || len(chartResp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo finance returned no chart data for %s", ticker)
	}

	return buildDailyReturns(&chartResp.Chart.Result[0]), nil
}

// buildDailyReturns converts one chart result into the daily return
// series. When the adjclose series is unavailable the raw close is
// substituted silently; that is an upstream data-availability
// variance, not a failure.
func buildDailyReturns(result *dto.YahooChartResult) []entity.DailyReturn {
	quote := result.Indicators.Quote[0]

	var adjClose []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	} else {
		adjClose = quote.Close
	}

	returns := make([]entity.DailyReturn, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || i >= len(adjClose) || quote.Close[i] == nil || adjClose[i] == nil {
			continue
		}
		returns = append(returns, entity.DailyReturn{
			Date:     utils.DateOnly(time.Unix(ts, 0).UTC()),
			Close:    *quote.Close[i],
			AdjClose: *adjClose[i],
		})
	}

	// The first row of the window never has a return, even when older
	// price history exists upstream.
	for i := 1; i < len(returns); i++ {
		prev := returns[i-1].AdjClose
		if prev == 0 {
			continue
		}
		ret := returns[i].AdjClose/prev - 1
		returns[i].Return = &ret
	}

	return returns
}

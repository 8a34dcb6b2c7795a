package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/config"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/entity"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/logger"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/ratelimit"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiSentimentRepository classifies headline batches with the
// Google Gemini API. Identical headlines are scored once per cache TTL
// via an instance-local memo; provider fetch results are never cached.
type geminiSentimentRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	genAiClient    *genai.Client
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	memo           *cache.Cache
}

// NewGeminiSentimentRepository creates a new instance of geminiSentimentRepository.
func NewGeminiSentimentRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (SentimentRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	return &geminiSentimentRepository{
		cfg:            cfg,
		logger:         log,
		genAiClient:    genAiClient,
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute),
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		memo:           cache.New(5*time.Minute, 10*time.Minute),
	}, nil
}

func (r *geminiSentimentRepository) Classify(ctx context.Context, titles []string) ([]entity.Prediction, error) {
	predictions := make([]entity.Prediction, len(titles))

	var uncached []string
	uncachedIdx := make([]int, 0, len(titles))
	for i, title := range titles {
		if hit, found := r.memo.Get(title); found {
			predictions[i] = hit.(entity.Prediction)
			continue
		}
		uncached = append(uncached, title)
		uncachedIdx = append(uncachedIdx, i)
	}

	if len(uncached) == 0 {
		return predictions, nil
	}

	fresh, err := r.classifyBatch(ctx, uncached)
	if err != nil {
		return nil, err
	}

	for j, pred := range fresh {
		predictions[uncachedIdx[j]] = pred
		r.memo.Set(uncached[j], pred, cache.DefaultExpiration)
	}

	return predictions, nil
}

func (r *geminiSentimentRepository) classifyBatch(ctx context.Context, titles []string) ([]entity.Prediction, error) {
	prompt := BuildClassifyHeadlinesPrompt(titles)

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}

	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	if int(geminiTokenResp.TotalTokens) > r.cfg.Gemini.MaxTokenPerMinute/2 {
		r.logger.Warn("Token has exceeded 50% of the limit", logger.IntField("remaining", r.tokenLimiter.GetRemaining()))
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		r.logger.Error("Failed to send request to Gemini API", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to Gemini API: %w", err)
	}

	return parsePredictions(resp.Text(), len(titles))
}

func parsePredictions(raw string, want int) ([]entity.Prediction, error) {
	jsonString := strings.Trim(raw, "`json\n`")

	var predictions []entity.Prediction
	if err := json.Unmarshal([]byte(jsonString), &predictions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal predictions from Gemini response: %w", err)
	}

	if len(predictions) != want {
		return nil, fmt.Errorf("gemini returned %d predictions for %d headlines", len(predictions), want)
	}

	for i := range predictions {
		if predictions[i].Confidence < 0 {
			predictions[i].Confidence = 0
		}
		if predictions[i].Confidence > 1 {
			predictions[i].Confidence = 1
		}
	}

	return predictions, nil
}

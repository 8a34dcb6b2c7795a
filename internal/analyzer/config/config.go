package config

import (
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/config"
)

// NewsAPI holds the configuration for the recent-news provider.
type NewsAPI struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	Language            string `mapstructure:"language"`
	PageSize            int    `mapstructure:"page_size"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Gdelt holds the configuration for the historical full-text provider.
type Gdelt struct {
	BaseURL             string        `mapstructure:"base_url"`
	ChunkDays           int           `mapstructure:"chunk_days"`
	MaxRecords          int           `mapstructure:"max_records"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// News holds provider routing configuration.
type News struct {
	// RecentWindowDays is the range length above which the historical
	// provider is preferred over the recent-news provider.
	RecentWindowDays int     `mapstructure:"recent_window_days"`
	NewsAPI          NewsAPI `mapstructure:"newsapi"`
	Gdelt            Gdelt   `mapstructure:"gdelt"`
}

// YahooFinance holds the configuration for the market data source.
type YahooFinance struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Gemini holds the configuration for the sentiment classifier.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Scheduler holds configuration for the watchlist scheduler.
type Scheduler struct {
	Enabled      bool     `mapstructure:"enabled"`
	CronSpec     string   `mapstructure:"cron_spec"`
	Tickers      []string `mapstructure:"tickers"`
	LookbackDays int      `mapstructure:"lookback_days"`
}

// Config holds the full configuration for the analysis service.
type Config struct {
	App          config.App    `mapstructure:"app"`
	Logger       config.Logger `mapstructure:"logger"`
	API          config.API    `mapstructure:"api"`
	News         News          `mapstructure:"news"`
	YahooFinance YahooFinance  `mapstructure:"yahoo_finance"`
	Gemini       Gemini        `mapstructure:"gemini"`
	Telegram     Telegram      `mapstructure:"telegram"`
	Scheduler    Scheduler     `mapstructure:"scheduler"`
}

// Load loads the analysis service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.News.RecentWindowDays == 0 {
		c.News.RecentWindowDays = 30
	}
	if c.News.NewsAPI.BaseURL == "" {
		c.News.NewsAPI.BaseURL = "https://newsapi.org/v2"
	}
	if c.News.NewsAPI.Language == "" {
		c.News.NewsAPI.Language = "en"
	}
	if c.News.NewsAPI.PageSize == 0 {
		c.News.NewsAPI.PageSize = 100
	}
	if c.News.NewsAPI.MaxRequestPerMinute == 0 {
		c.News.NewsAPI.MaxRequestPerMinute = 30
	}
	if c.News.Gdelt.BaseURL == "" {
		c.News.Gdelt.BaseURL = "https://api.gdeltproject.org/api/v2/doc/doc"
	}
	if c.News.Gdelt.ChunkDays == 0 {
		c.News.Gdelt.ChunkDays = 20
	}
	if c.News.Gdelt.MaxRecords == 0 {
		c.News.Gdelt.MaxRecords = 250
	}
	if c.News.Gdelt.RequestTimeout == 0 {
		c.News.Gdelt.RequestTimeout = 20 * time.Second
	}
	if c.News.Gdelt.MaxRequestPerMinute == 0 {
		c.News.Gdelt.MaxRequestPerMinute = 30
	}
	if c.YahooFinance.BaseURL == "" {
		c.YahooFinance.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.YahooFinance.MaxRequestPerMinute == 0 {
		c.YahooFinance.MaxRequestPerMinute = 30
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Gemini.MaxRequestPerMinute == 0 {
		c.Gemini.MaxRequestPerMinute = 10
	}
	if c.Gemini.MaxTokenPerMinute == 0 {
		c.Gemini.MaxTokenPerMinute = 100000
	}
	if c.Scheduler.LookbackDays == 0 {
		c.Scheduler.LookbackDays = 14
	}
}

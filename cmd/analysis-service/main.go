package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/config"
	delivery "github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/delivery/http"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/repository"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/service"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/common"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/logger"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the analysis service",
	Run:   runServe,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Runs one analysis and prints the result as JSON",
	Run:   runAnalyze,
}

var (
	analyzeTicker string
	analyzeStart  string
	analyzeEnd    string
)

// buildAnalysisService wires repositories and services from config.
func buildAnalysisService(cfg *config.Config, appLogger *logger.Logger) (service.AnalysisService, error) {
	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini AI client: %w", err)
	}

	sentimentRepo, err := repository.NewGeminiSentimentRepository(cfg, appLogger, genAiClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sentiment repository: %w", err)
	}

	newsSvc := service.NewNewsService(
		cfg,
		appLogger,
		repository.NewNewsAPIRepository(cfg, appLogger),
		repository.NewGdeltRepository(cfg, appLogger),
	)
	marketDataRepo := repository.NewYahooFinanceRepository(cfg, appLogger)

	return service.NewAnalysisService(cfg, appLogger, newsSvc, sentimentRepo, marketDataRepo), nil
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Analysis Service", logger.Field("name", cfg.App.Name))

	analysisSvc, err := buildAnalysisService(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to build analysis service", logger.ErrorField(err))
	}

	// Optional watchlist scheduler with Telegram delivery
	if cfg.Scheduler.Enabled {
		var notifier telegram.Notifier
		if cfg.Telegram.BotToken != "" {
			notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
			if err != nil {
				appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
			}
		}
		schedulerSvc := service.NewSchedulerService(cfg, appLogger, analysisSvc, notifier)
		go func() {
			if err := schedulerSvc.Start(ctx); err != nil {
				appLogger.Error("Watchlist scheduler failed to start", logger.ErrorField(err))
			}
		}()
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	analysisHandler := delivery.NewAnalysisHandler(analysisSvc, appLogger)
	apiV1 := e.Group("/api/v1")
	analysisGroup := apiV1.Group("/analysis")
	analysisHandler.RegisterRoutes(analysisGroup)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	start, err := time.Parse(common.DateFormat, analyzeStart)
	if err != nil {
		log.Fatalf("Invalid --start date: %v", err)
	}
	end, err := time.Parse(common.DateFormat, analyzeEnd)
	if err != nil {
		log.Fatalf("Invalid --end date: %v", err)
	}

	analysisSvc, err := buildAnalysisService(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to build analysis service", logger.ErrorField(err))
	}

	result, err := analysisSvc.Analyze(ctx, analyzeTicker, start, end)
	if err != nil {
		appLogger.Fatal("Analysis failed", logger.ErrorField(err))
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		appLogger.Fatal("Failed to marshal analysis result", logger.ErrorField(err))
	}
	fmt.Println(string(out))
}

func main() {
	rootCmd := &cobra.Command{Use: "analysis-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	analyzeCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")
	analyzeCmd.Flags().StringVar(&analyzeTicker, "ticker", "", "Stock ticker to analyze")
	analyzeCmd.Flags().StringVar(&analyzeStart, "start", "", "Start date (YYYY-MM-DD)")
	analyzeCmd.Flags().StringVar(&analyzeEnd, "end", "", "End date (YYYY-MM-DD)")
	_ = analyzeCmd.MarkFlagRequired("ticker")
	_ = analyzeCmd.MarkFlagRequired("start")
	_ = analyzeCmd.MarkFlagRequired("end")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing analysis-service CLI: %s\n", err)
		os.Exit(1)
	}
}

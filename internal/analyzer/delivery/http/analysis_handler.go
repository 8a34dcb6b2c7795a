package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/dto"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/service"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/entity"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/common"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// AnalysisHandler handles HTTP requests for sentiment analyses.
type AnalysisHandler struct {
	analysisService service.AnalysisService
	validate        *validator.Validate
	logger          *logger.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService, logger *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		validate:        validator.New(),
		logger:          logger,
	}
}

// RegisterRoutes registers the analysis routes to the Echo group.
func (h *AnalysisHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.Analyze)
}

// Analyze runs one analysis for ?ticker=&start=&end=.
func (h *AnalysisHandler) Analyze(c echo.Context) error {
	var req dto.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request parameters"})
	}

	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "ticker, start and end (YYYY-MM-DD) are required"})
	}

	start, err := time.Parse(common.DateFormat, req.Start)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid start date"})
	}
	end, err := time.Parse(common.DateFormat, req.End)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid end date"})
	}

	result, err := h.analysisService.Analyze(c.Request().Context(), req.Ticker, start, end)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidDateRange):
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, entity.ErrMissingAPIKey):
			h.logger.Error("Analysis rejected: missing credential", logger.ErrorField(err))
			return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		default:
			h.logger.Error("Analysis failed", logger.ErrorField(err), logger.StringField("ticker", req.Ticker))
			return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "Upstream data source failed"})
		}
	}

	return c.JSON(http.StatusOK, result)
}

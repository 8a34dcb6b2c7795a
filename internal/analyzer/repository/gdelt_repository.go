package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/analyzer/config"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/entity"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/common"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/logger"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/utils"

	"golang.org/x/time/rate"
)

// gdeltFloorDate is the earliest date the doc API serves. Requested
// starts before it are clamped up.
var gdeltFloorDate = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)

// errorSentinel marks a GDELT error response, which arrives as CSV
// text with a 200 status rather than an HTTP error code.
const errorSentinel = "Invalid query"

// Column aliases per semantic role, in resolution order. GDELT column
// names vary across deployments and accounts.
var (
	gdeltTitleAliases  = []string{"DocumentTitle", "Title", "DocTitle"}
	gdeltDateAliases   = []string{"Date", "DATE", "DATEADDED", "PublishDate"}
	gdeltToneAliases   = []string{"DocumentTone", "Tone", "ToneAvg"}
	gdeltURLAliases    = []string{"DocumentIdentifier", "URL", "Link"}
	gdeltSourceAliases = []string{"SourceCommonName", "Source", "Domain"}
)

// gdeltRepository fetches historical news from the GDELT doc API. The
// endpoint has an undocumented per-request time-window limit, so a
// fetch splits the window into fixed-size chunks and issues one
// request per chunk. Chunk failures are contained: a timed-out,
// malformed, or rejected chunk contributes zero records and the fetch
// continues.
type gdeltRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewGdeltRepository creates the historical news provider.
func NewGdeltRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.News.Gdelt.MaxRequestPerMinute)
	return &gdeltRepository{
		cfg:            cfg,
		log:            log,
		httpClient:     &http.Client{},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *gdeltRepository) Fetch(ctx context.Context, query string, start, end time.Time) ([]entity.Article, error) {
	start = utils.DateOnly(start)
	end = utils.DateOnly(end)
	if start.Before(gdeltFloorDate) {
		start = gdeltFloorDate
	}

	windows := utils.ChunkWindow(start, end, r.cfg.News.Gdelt.ChunkDays)

	// Results are collected per chunk index so the concatenation stays
	// chronological even if chunk execution is ever parallelized.
	chunkResults := make([][]entity.Article, len(windows))
	for i, w := range windows {
		r.log.DebugContext(ctx, "Fetching GDELT chunk",
			logger.StringField("start", w.Start.Format(common.DateFormat)),
			logger.StringField("end", w.End.Format(common.DateFormat)),
		)
		articles, err := r.fetchChunk(ctx, query, w.Start, w.End)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.log.Warn("GDELT chunk fetch failed, continuing",
				logger.ErrorField(err),
				logger.StringField("start", w.Start.Format(common.DateFormat)),
				logger.StringField("end", w.End.Format(common.DateFormat)),
			)
			continue
		}
		chunkResults[i] = articles
	}

	var all []entity.Article
	for _, articles := range chunkResults {
		all = append(all, articles...)
	}

	r.log.DebugContext(ctx, "GDELT fetch complete", logger.StringField("query", query), logger.IntField("chunks", len(windows)), logger.IntField("articles", len(all)))

	return all, nil
}

func (r *gdeltRepository) fetchChunk(ctx context.Context, query string, start, end time.Time) ([]entity.Article, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	chunkCtx, cancel := context.WithTimeout(ctx, r.cfg.News.Gdelt.RequestTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("query", query)
	params.Set("mode", "artlist")
	params.Set("maxrecords", strconv.Itoa(r.cfg.News.Gdelt.MaxRecords))
	params.Set("format", "csv")
	params.Set("STARTDATETIME", start.Format("20060102")+"000000")
	params.Set("ENDDATETIME", end.Format("20060102")+"235959")

	apiURL := fmt.Sprintf("%s?%s", r.cfg.News.Gdelt.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(chunkCtx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to GDELT: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-OK response from GDELT: %d", resp.StatusCode)
	}

	return r.parseChunkCSV(resp.Body)
}

func (r *gdeltRepository) parseChunkCSV(body io.Reader) ([]entity.Article, error) {
	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read GDELT CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	if len(header) > 0 && strings.Contains(header[0], errorSentinel) {
		return nil, fmt.Errorf("GDELT rejected the query window: %s", header[0])
	}

	titleIdx := resolveColumn(header, gdeltTitleAliases)
	dateIdx := resolveColumn(header, gdeltDateAliases)
	if titleIdx < 0 || dateIdx < 0 {
		return nil, fmt.Errorf("GDELT CSV missing required columns, header: %s", strings.Join(header, ","))
	}
	toneIdx := resolveColumn(header, gdeltToneAliases)
	urlIdx := resolveColumn(header, gdeltURLAliases)
	sourceIdx := resolveColumn(header, gdeltSourceAliases)

	var articles []entity.Article
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read GDELT CSV record: %w", err)
		}

		title := cell(record, titleIdx)
		publishedAt, dateErr := parseGdeltDate(cell(record, dateIdx))
		if title == "" || dateErr != nil {
			continue
		}

		rawSentiment := 0.0
		if tone := cell(record, toneIdx); tone != "" {
			// GDELT tone is on a [-100, 100] scale.
			if v, err := strconv.ParseFloat(tone, 64); err == nil {
				rawSentiment = v / 100.0
			}
		}

		articles = append(articles, entity.Article{
			Title:        title,
			URL:          cell(record, urlIdx),
			Source:       cell(record, sourceIdx),
			PublishedAt:  publishedAt,
			RawSentiment: rawSentiment,
		})
	}

	return articles, nil
}

// resolveColumn returns the index of the first alias present in the
// header, or -1 when no alias matches.
func resolveColumn(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, col := range header {
			if col == alias {
				return i
			}
		}
	}
	return -1
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseGdeltDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range []string{common.GdeltDatetimeFormat, "20060102T150405Z", "20060102", common.DateFormat, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return utils.DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date: %s", value)
}

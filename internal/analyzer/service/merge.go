package service

import (
	"math"
	"sort"
	"time"

	"github.com/sarenechoudhury/financial-news-sentiment-signals/internal/entity"
	"github.com/sarenechoudhury/financial-news-sentiment-signals/pkg/utils"
)

// MergeDaily inner-joins daily sentiment with daily returns on the
// midnight-truncated calendar date. Only dates present in both series
// survive. The result is sorted ascending by date.
func MergeDaily(sentiment []entity.DailySentiment, returns []entity.DailyReturn) []entity.MergedRow {
	sentimentByDate := make(map[time.Time]entity.DailySentiment, len(sentiment))
	for _, s := range sentiment {
		sentimentByDate[utils.DateOnly(s.Date)] = s
	}

	var rows []entity.MergedRow
	for _, ret := range returns {
		date := utils.DateOnly(ret.Date)
		s, ok := sentimentByDate[date]
		if !ok {
			continue
		}
		rows = append(rows, entity.MergedRow{
			Date:           date,
			SentimentScore: s.SentimentScore,
			Confidence:     s.Confidence,
			Close:          ret.Close,
			AdjClose:       ret.AdjClose,
			Return:         ret.Return,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	return rows
}

// PearsonCorrelation computes the correlation between sentiment score
// and daily return over the merged rows. Rows without a return (the
// window's first trading day) are excluded. The second result is false
// when fewer than two usable pairs exist or either series has zero
// variance.
func PearsonCorrelation(rows []entity.MergedRow) (float64, bool) {
	var xs, ys []float64
	for _, row := range rows {
		if row.Return == nil {
			continue
		}
		xs = append(xs, row.SentimentScore)
		ys = append(ys, *row.Return)
	}

	n := float64(len(xs))
	if len(xs) < 2 {
		return math.NaN(), false
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return math.NaN(), false
	}

	return cov / math.Sqrt(varX*varY), true
}

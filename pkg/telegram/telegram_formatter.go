package telegram

import (
	"fmt"
	"strings"
	"time"
)

// AnalysisSummary is the notifier-facing view of one analysis run.
type AnalysisSummary struct {
	Ticker       string
	Start        time.Time
	End          time.Time
	Status       string
	ArticleCount int
	MergedDays   int
	Correlation  *float64
}

// FormatAnalysisSummaries formats analysis summaries into Markdown
// messages for Telegram, splitting so no message exceeds the API's
// length limit.
func FormatAnalysisSummaries(summaries []AnalysisSummary) []string {
	if len(summaries) == 0 {
		return []string{"No watchlist analyses to report."}
	}

	const maxLen = 4090
	var messages []string
	var currentMessage strings.Builder
	part := 1

	startNewPart := func() {
		currentMessage.Reset()
		if part == 1 {
			currentMessage.WriteString("📊 *News Sentiment Watchlist Report* 📊\n\n")
		} else {
			currentMessage.WriteString(fmt.Sprintf("---*Watchlist Report Part %d*---\n\n", part))
		}
	}

	startNewPart()

	for _, s := range summaries {
		var entryBuilder strings.Builder
		entryBuilder.WriteString(fmt.Sprintf("📈 *- - - - - %s - - - - -*\n", s.Ticker))
		entryBuilder.WriteString(fmt.Sprintf("🗓 *Window:* %s → %s\n", s.Start.Format("2006-01-02"), s.End.Format("2006-01-02")))

		if s.Correlation != nil {
			var icon string
			switch {
			case *s.Correlation > 0.2:
				icon = "😊"
			case *s.Correlation < -0.2:
				icon = "😟"
			default:
				icon = "😐"
			}
			entryBuilder.WriteString(fmt.Sprintf("%s *Sentiment/return correlation:* %.3f\n", icon, *s.Correlation))
			entryBuilder.WriteString(fmt.Sprintf("📰 *Articles:* %d over %d trading days\n", s.ArticleCount, s.MergedDays))
		} else {
			entryBuilder.WriteString(fmt.Sprintf("💬 *Status:* %s\n", s.Status))
		}
		entryBuilder.WriteString("\n")

		if currentMessage.Len()+entryBuilder.Len() > maxLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		currentMessage.WriteString(entryBuilder.String())
	}

	if currentMessage.Len() > 0 {
		messages = append(messages, currentMessage.String())
	}

	return messages
}

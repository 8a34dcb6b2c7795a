package repository

import (
	"fmt"
	"strings"
)

// BuildClassifyHeadlinesPrompt builds the batch classification prompt.
// The model must answer with a JSON array of the same length and order
// as the input headlines.
func BuildClassifyHeadlinesPrompt(titles []string) string {
	var headlineBuilder strings.Builder
	for i, title := range titles {
		headlineBuilder.WriteString(fmt.Sprintf("%d. %s\n", i+1, title))
	}

	promptTemplate := `You are a financial news sentiment classifier. Classify the sentiment of each of the following %d news headlines toward the company or asset they mention.

Headlines:
%s
Respond with ONLY a JSON array of exactly %d objects, one per headline, in the same order, with this shape:

[
  {"label": "positive | neutral | negative", "confidence": 0.0 - 1.0}
]`

	return fmt.Sprintf(promptTemplate, len(titles), headlineBuilder.String(), len(titles))
}

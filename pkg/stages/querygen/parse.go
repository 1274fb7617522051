package querygen

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
)

var (
	numbering = regexp.MustCompile(`^\d+[.)]\s*`)
	bullets   = regexp.MustCompile(`^[-*]\s*`)
)

// minQueryLen discards fragments too short to be a real query.
const minQueryLen = 10

// ParseQueries turns one line-oriented LLM response into queries. Expected
// line shape: "<text> | <category> | <intent> [| <persona>]". Numbering and
// bullets are stripped; lines without at least text and category are skipped;
// unknown categories fall back to general.
func ParseQueries(text, strategy, prefix string, maxCount int) []models.GeneratedQuery {
	var queries []models.GeneratedQuery

	for _, line := range strings.Split(text, "\n") {
		if len(queries) >= maxCount {
			break
		}

		cleaned := strings.TrimSpace(line)
		cleaned = numbering.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimSpace(bullets.ReplaceAllString(cleaned, ""))

		if cleaned == "" || strings.HasPrefix(cleaned, "#") || strings.HasPrefix(cleaned, "```") {
			continue
		}

		parts := strings.Split(cleaned, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		if len(parts) < 2 {
			continue
		}

		queryText := parts[0]
		if len(queryText) < minQueryLen {
			continue
		}

		category := models.QueryCategory(strings.ToLower(parts[1]))
		if !models.ValidCategories[category] {
			category = models.CategoryGeneral
		}

		intent := "general"
		if len(parts) > 2 && parts[2] != "" {
			intent = strings.ToLower(parts[2])
		}

		var metadata map[string]string
		if len(parts) > 3 && parts[3] != "" {
			metadata = map[string]string{"persona": strings.ToLower(parts[3])}
		}

		queries = append(queries, models.GeneratedQuery{
			ID:       newQueryID(prefix),
			Text:     queryText,
			Category: category,
			Strategy: strategy,
			Intent:   intent,
			Metadata: metadata,
		})
	}

	return queries
}

func newQueryID(prefix string) string {
	id := uuid.New()

	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(id[:])[:8])
}

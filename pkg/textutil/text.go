// Package textutil holds the text matching helpers shared by query parsing
// and response analysis.
package textutil

import (
	"regexp"
	"strings"
	"sync"
)

var sentenceSplit = regexp.MustCompile(`(?:[.!?])\s+`)

type brandPatterns struct {
	mu       sync.Mutex
	compiled map[string]*regexp.Regexp
}

var brands = brandPatterns{compiled: map[string]*regexp.Regexp{}}

func (bp *brandPatterns) get(brand string) *regexp.Regexp {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	re, ok := bp.compiled[brand]
	if !ok {
		re = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(brand) + `\b`)
		bp.compiled[brand] = re
	}

	return re
}

// ContainsBrand reports a case-insensitive whole-word match of brand in text,
// so "Ramp" never matches inside "rampage".
func ContainsBrand(text, brand string) bool {
	if brand == "" {
		return false
	}

	return brands.get(brand).MatchString(text)
}

// CountOccurrences counts case-insensitive whole-word matches of term.
func CountOccurrences(text, term string) int {
	if term == "" {
		return 0
	}

	return len(brands.get(term).FindAllStringIndex(text, -1))
}

// ExtractSentences splits text on sentence-ending punctuation followed by
// whitespace, dropping empty fragments.
func ExtractSentences(text string) []string {
	var sentences []string

	start := 0
	for _, loc := range sentenceSplit.FindAllStringIndex(text, -1) {
		// keep the punctuation, drop the whitespace
		s := strings.TrimSpace(text[start : loc[0]+1])
		if s != "" {
			sentences = append(sentences, s)
		}

		start = loc[1]
	}

	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// Truncate cuts text to maxLen, appending an ellipsis when it cuts. A maxLen
// too small to hold the ellipsis returns a plain prefix.
func Truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}

	if maxLen <= 0 {
		return ""
	}

	if maxLen <= 3 {
		return text[:maxLen]
	}

	return text[:maxLen-3] + "..."
}

// StripFences removes a surrounding markdown code fence, including an
// optional language tag, from an LLM response.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[idx+1:]
	} else {
		return strings.TrimSpace(strings.TrimPrefix(text, "```"))
	}

	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}

	return strings.TrimSpace(text)
}

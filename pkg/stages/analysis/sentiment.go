package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/onvoyage-ai/voyage-geo-agent/pkg/models"
	"github.com/onvoyage-ai/voyage-geo-agent/pkg/textutil"
)

// sentimentLexicon scores individual words on a [-1, 1] scale. Coverage is
// tuned for product-recommendation prose, not general text.
var sentimentLexicon = map[string]float64{
	"excellent":     0.9,
	"outstanding":   0.9,
	"best":          0.8,
	"leading":       0.7,
	"great":         0.7,
	"powerful":      0.6,
	"robust":        0.6,
	"reliable":      0.6,
	"strong":        0.5,
	"popular":       0.5,
	"intuitive":     0.5,
	"flexible":      0.5,
	"seamless":      0.5,
	"innovative":    0.5,
	"good":          0.4,
	"solid":         0.4,
	"fast":          0.4,
	"easy":          0.4,
	"affordable":    0.4,
	"love":          0.7,
	"recommend":     0.6,
	"recommended":   0.6,
	"favorite":      0.6,
	"impressive":    0.6,
	"trusted":       0.5,
	"polished":      0.4,
	"helpful":       0.4,
	"useful":        0.3,
	"decent":        0.2,
	"worst":         -0.9,
	"terrible":      -0.9,
	"awful":         -0.8,
	"buggy":         -0.7,
	"unreliable":    -0.7,
	"poor":          -0.6,
	"bad":           -0.6,
	"clunky":        -0.6,
	"frustrating":   -0.6,
	"confusing":     -0.5,
	"slow":          -0.5,
	"expensive":     -0.5,
	"overpriced":    -0.6,
	"limited":       -0.4,
	"lacking":       -0.4,
	"lacks":         -0.4,
	"outdated":      -0.5,
	"dated":         -0.3,
	"difficult":     -0.4,
	"complicated":   -0.4,
	"weak":          -0.4,
	"disappointing": -0.6,
	"avoid":         -0.7,
	"mediocre":      -0.4,
	"bloated":       -0.5,
	"cumbersome":    -0.5,
}

var negators = map[string]bool{
	"not":    true,
	"no":     true,
	"never":  true,
	"hardly": true,
	"isn't":  true,
	"wasn't": true,
	"aren't": true,
	"don't":  true,
	"won't":  true,
}

const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// scoreSentence averages the lexicon weights of the sentiment-bearing words
// in a sentence; a negator flips the sign of the word that follows it.
func scoreSentence(sentence string) float64 {
	words := strings.Fields(strings.ToLower(sentence))

	var (
		total float64
		hits  int
	)

	negate := false

	for _, word := range words {
		word = strings.Trim(word, ".,;:!?\"'()[]")
		if negators[word] {
			negate = true

			continue
		}

		if weight, ok := sentimentLexicon[word]; ok {
			if negate {
				weight = -weight
			}

			total += weight
			hits++
		}

		negate = false
	}

	if hits == 0 {
		return 0
	}

	return total / float64(hits)
}

func label(score float64) models.SentimentLabel {
	switch {
	case score >= positiveThreshold:
		return models.SentimentPositive
	case score <= negativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

type scoredSentence struct {
	text     string
	score    float64
	provider string
}

// Sentiment scores every sentence that mentions the brand and aggregates
// overall, per-provider, and top positive/negative excerpts.
func Sentiment(results []models.QueryResult, profile *models.BrandProfile) models.SentimentScore {
	valid := validResults(results)

	var scored []scoredSentence

	for _, r := range valid {
		for _, sentence := range textutil.ExtractSentences(r.Response) {
			if !textutil.ContainsBrand(sentence, profile.Name) {
				continue
			}

			scored = append(scored, scoredSentence{
				text:     textutil.Truncate(sentence, 200),
				score:    scoreSentence(sentence),
				provider: r.Provider,
			})
		}
	}

	if len(scored) == 0 {
		return models.SentimentScore{Label: models.SentimentNeutral}
	}

	var sum float64

	pos, neg := 0, 0

	for _, s := range scored {
		sum += s.score

		switch {
		case s.score >= positiveThreshold:
			pos++
		case s.score <= negativeThreshold:
			neg++
		}
	}

	overall := sum / float64(len(scored))

	// confidence grows with sample size and shrinks with score spread
	var variance float64
	for _, s := range scored {
		variance += (s.score - overall) * (s.score - overall)
	}

	stddev := 0.0
	if len(scored) > 1 {
		stddev = math.Sqrt(variance / float64(len(scored)-1))
	}

	sampleFactor := math.Min(float64(len(scored))/10, 1.0)
	varianceFactor := math.Max(0, 1.0-stddev)
	confidence := math.Round(sampleFactor*varianceFactor*100) / 100

	byProvider := map[string]float64{}
	providerScores := map[string][]float64{}

	for _, s := range scored {
		providerScores[s.provider] = append(providerScores[s.provider], s.score)
	}

	for provider, scores := range providerScores {
		var total float64
		for _, v := range scores {
			total += v
		}

		byProvider[provider] = round4(total / float64(len(scores)))
	}

	ordered := make([]scoredSentence, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].score > ordered[j].score })

	var topPositive, topNegative []models.SentimentExcerpt

	for _, s := range ordered {
		if s.score >= positiveThreshold && len(topPositive) < 5 {
			topPositive = append(topPositive, models.SentimentExcerpt{Text: s.text, Score: round4(s.score), Provider: s.provider})
		}
	}

	for i := len(ordered) - 1; i >= 0; i-- {
		s := ordered[i]
		if s.score <= negativeThreshold && len(topNegative) < 5 {
			topNegative = append(topNegative, models.SentimentExcerpt{Text: s.text, Score: round4(s.score), Provider: s.provider})
		}
	}

	return models.SentimentScore{
		Overall:        round4(overall),
		Label:          label(overall),
		Confidence:     confidence,
		ByProvider:     byProvider,
		PositiveCount:  pos,
		NeutralCount:   len(scored) - pos - neg,
		NegativeCount:  neg,
		TotalSentences: len(scored),
		TopPositive:    topPositive,
		TopNegative:    topNegative,
	}
}

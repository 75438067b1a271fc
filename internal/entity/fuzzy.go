package entity

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/vinodlearning/contractnlp/pkg/models"
)

const (
	fuzzyAcceptThreshold = 0.7
	maxFuzzyRunWords     = 5
)

// fuzzyPass approximately matches the curated known-entity table against
// the text. Values with an exact occurrence are skipped; the exact pass
// already produced them. Otherwise the best-similarity run of consecutive
// words is accepted when it clears the threshold.
func (r *Resolver) fuzzyPass(text string) []candidate {
	lower := strings.ToLower(text)
	words := wordSpans(lower)

	var out []candidate
	for value, typ := range r.lex.KnownEntities() {
		if len(boundedIndexes(lower, value)) > 0 {
			continue
		}

		if best, ok := bestFuzzyRun(lower, words, value); ok {
			out = append(out, candidate{
				Entity: models.Entity{
					Type:       typ,
					Value:      value,
					Original:   text[best.start:best.end],
					Start:      best.start,
					End:        best.end,
					Confidence: best.similarity,
				},
				ctxFactor: 0.5,
			})
		}
	}
	return out
}

type fuzzyRun struct {
	start, end int
	similarity float64
}

// bestFuzzyRun slides runs of up to five consecutive words over the text
// and keeps the run most similar to value.
func bestFuzzyRun(lower string, words []span, value string) (fuzzyRun, bool) {
	best := fuzzyRun{}
	for i := range words {
		for n := 1; n <= maxFuzzyRunWords && i+n <= len(words); n++ {
			start, end := words[i].start, words[i+n-1].end
			run := lower[start:end]
			if abs(len(run)-len(value)) > len(value)/2 {
				continue
			}
			if containsDigit(run) {
				continue
			}
			sim := levenshteinSimilarity(run, value)
			if sim > best.similarity {
				best = fuzzyRun{start: start, end: end, similarity: sim}
			}
		}
	}
	if best.similarity > fuzzyAcceptThreshold {
		return best, true
	}
	return fuzzyRun{}, false
}

func levenshteinSimilarity(a, b string) float64 {
	max := len(a)
	if len(b) > max {
		max = len(b)
	}
	if max == 0 {
		return 1.0
	}
	return 1.0 - float64(matchr.Levenshtein(a, b))/float64(max)
}

type span struct{ start, end int }

// wordSpans returns the offsets of every whitespace-delimited word.
func wordSpans(s string) []span {
	var out []span
	start := -1
	for i := 0; i < len(s); i++ {
		isSpace := s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r'
		if isSpace {
			if start >= 0 {
				out = append(out, span{start: start, end: i})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, span{start: start, end: len(s)})
	}
	return out
}

func containsDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

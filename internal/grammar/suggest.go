package grammar

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vinodlearning/contractnlp/pkg/models"
)

const (
	suggestionThreshold = 0.7
	maxSuggestions      = 3
)

// suggestRule pairs a trigger pattern with a checker that decides whether
// the match is a real issue and how confident we are about it.
type suggestRule struct {
	pattern *regexp.Regexp
	check   func(match []string) (models.GrammarSuggestion, bool)
}

var suggestRules = []suggestRule{
	{
		pattern: regexp.MustCompile(`(?i)\b(` + singularSubjects + `)\s+(are|were)\b`),
		check: func(m []string) (models.GrammarSuggestion, bool) {
			return models.GrammarSuggestion{
				Issue:      fmt.Sprintf("subject-verb mismatch: %q is singular but pairs with %q", m[1], m[2]),
				Suggestion: fmt.Sprintf("use %q with %q", singularVerb(m[2]), m[1]),
				Confidence: 0.9,
			}, true
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(` + pluralSubjects + `)\s+(is|was)\b`),
		check: func(m []string) (models.GrammarSuggestion, bool) {
			return models.GrammarSuggestion{
				Issue:      fmt.Sprintf("subject-verb mismatch: %q is plural but pairs with %q", m[1], m[2]),
				Suggestion: fmt.Sprintf("use %q with %q", pluralVerb(m[2]), m[1]),
				Confidence: 0.9,
			}, true
		},
	},
	{
		pattern: regexp.MustCompile(`\b([aA]n?)\s+([a-zA-Z][a-zA-Z-]*)`),
		check: func(m []string) (models.GrammarSuggestion, bool) {
			want := "a"
			if wantsAn(m[2]) {
				want = "an"
			}
			if strings.EqualFold(m[1], want) {
				return models.GrammarSuggestion{}, false
			}
			return models.GrammarSuggestion{
				Issue:      fmt.Sprintf("article mismatch before %q", m[2]),
				Suggestion: fmt.Sprintf("use %q instead of %q", want, strings.ToLower(m[1])),
				Confidence: 0.85,
			}, true
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(different than|interested on|depends of|in regards to)\b`),
		check: func(m []string) (models.GrammarSuggestion, bool) {
			return models.GrammarSuggestion{
				Issue:      fmt.Sprintf("nonstandard preposition in %q", m[1]),
				Suggestion: "replace with the standard pairing",
				Confidence: 0.8,
			}, true
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(don't|doesn't|didn't|can't|won't|never)\b[^.!?]*\b(nothing|nobody|no one|none|never)\b`),
		check: func(m []string) (models.GrammarSuggestion, bool) {
			return models.GrammarSuggestion{
				Issue:      "double negative",
				Suggestion: fmt.Sprintf("drop %q or %q", m[1], m[2]),
				Confidence: 0.75,
			}, true
		},
	},
}

var verbPattern = regexp.MustCompile(`(?i)\b(is|are|was|were|show|find|list|get|have|has|need|want|check|display|expire[sd]?|fail(ed|s)?)\b`)

// Suggest flags probable grammar issues without rewriting the text. Only
// suggestions at or above the confidence threshold are surfaced, sorted by
// confidence descending and capped.
func Suggest(text string) []models.GrammarSuggestion {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	var out []models.GrammarSuggestion
	for _, r := range suggestRules {
		for _, m := range r.pattern.FindAllStringSubmatch(trimmed, -1) {
			if s, ok := r.check(m); ok {
				out = append(out, s)
			}
		}
	}

	// Structural checks operate on the whole text rather than a match.
	words := strings.Fields(trimmed)
	if len(words) >= 3 && len(words) <= 6 && !verbPattern.MatchString(trimmed) {
		out = append(out, models.GrammarSuggestion{
			Issue:      "possible sentence fragment",
			Suggestion: "add a verb to make the request explicit",
			Confidence: 0.7,
		})
	}
	if len(words) > 25 && !strings.ContainsAny(trimmed, ".!?;") {
		out = append(out, models.GrammarSuggestion{
			Issue:      "possible run-on sentence",
			Suggestion: "split the request into shorter sentences",
			Confidence: 0.7,
		})
	}

	filtered := out[:0]
	for _, s := range out {
		if s.Confidence >= suggestionThreshold {
			filtered = append(filtered, s)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Confidence > filtered[j].Confidence
	})
	if len(filtered) > maxSuggestions {
		filtered = filtered[:maxSuggestions]
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

func singularVerb(v string) string {
	if strings.EqualFold(v, "were") {
		return "was"
	}
	return "is"
}

func pluralVerb(v string) string {
	if strings.EqualFold(v, "was") {
		return "were"
	}
	return "are"
}

// Package normalize rewrites raw query text into the canonical form the
// entity and intent layers match against. Every rewrite is logged so the
// caller can see exactly what happened to the input.
package normalize

import (
	"strings"
	"time"

	"github.com/vinodlearning/contractnlp/internal/lexicon"
	"github.com/vinodlearning/contractnlp/pkg/models"
)

// Options holds the normalizer's toggles. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	MaxLength int
	MinLength int

	PreserveCase        bool
	PreservePunctuation bool
	PreserveNumbers     bool
	PreserveEmails      bool
	PreserveURLs        bool
	PreservePhones      bool

	RemoveStopWords bool
}

// DefaultOptions keeps case, punctuation and every entity-shaped span, and
// leaves stop words in place. Case must survive normalization for the name
// extraction downstream; folding is opt-in.
func DefaultOptions() Options {
	return Options{
		MaxLength:           1000,
		MinLength:           1,
		PreserveCase:        true,
		PreservePunctuation: true,
		PreserveNumbers:     true,
		PreserveEmails:      true,
		PreserveURLs:        true,
		PreservePhones:      true,
	}
}

// Normalizer runs an ordered stage pipeline over query text. Read-only after
// construction and safe for concurrent use.
type Normalizer struct {
	lex    *lexicon.Lexicon
	opts   Options
	stages []stage
}

// NewNormalizer creates a normalizer over the given lexicon snapshot.
func NewNormalizer(lex *lexicon.Lexicon, opts Options) *Normalizer {
	n := &Normalizer{lex: lex, opts: opts}
	n.stages = n.buildStages()
	return n
}

// Normalize runs the stage pipeline. Each stage that changes the text
// appends its name to the transformation log; protected spans (URLs, emails,
// phones, numbers) pass through every stage verbatim.
func (n *Normalizer) Normalize(query string) models.NormalizationResult {
	start := time.Now()

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return models.NormalizationResult{
			Original:         query,
			Normalized:       "",
			Confidence:       0.0,
			Message:          "Empty query",
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		}
	}
	if len(trimmed) < n.opts.MinLength {
		return models.NormalizationResult{
			Original:         query,
			Normalized:       trimmed,
			Confidence:       0.1,
			Message:          "Query below minimum length",
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		}
	}

	var transformations []string
	text := trimmed
	if len(text) > n.opts.MaxLength {
		text = text[:n.opts.MaxLength]
		transformations = append(transformations, "length_clamp")
	}

	segments := splitProtected(text, n.protectedSpans(text))
	if protectedCount(segments) > 0 {
		transformations = append(transformations, "entity_preservation")
	}

	for _, st := range n.stages {
		changed := false
		for i := range segments {
			if segments[i].protected {
				continue
			}
			if out := st.apply(segments[i].text); out != segments[i].text {
				segments[i].text = out
				changed = true
			}
		}
		if changed {
			transformations = append(transformations, st.name)
		}
	}

	normalized := joinSegments(segments)
	if collapsed := collapseWhitespace(normalized); collapsed != normalized {
		normalized = collapsed
		transformations = append(transformations, "whitespace_trim")
	}

	result := models.NormalizationResult{
		Original:         query,
		Normalized:       normalized,
		Transformations:  transformations,
		Message:          "Query normalized",
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
	if normalized == "" {
		result.Confidence = 0.1
		result.Message = "Empty after normalization"
		return result
	}
	result.Confidence = n.confidence(trimmed, normalized, transformations)
	return result
}

// confidence starts at 1.0, loses 0.02 per transformation, is penalized when
// the output length drifts far from the input, and earns small bonuses for
// the corrective stages.
func (n *Normalizer) confidence(original, normalized string, transformations []string) float64 {
	conf := 1.0 - 0.02*float64(len(transformations))

	ratio := float64(len(normalized)) / float64(len(original))
	switch {
	case ratio < 0.5 || ratio > 2.0:
		conf -= 0.2
	case ratio < 0.7 || ratio > 1.5:
		conf -= 0.1
	}

	for _, t := range transformations {
		switch t {
		case "spell_correction":
			conf += 0.05
		case "contraction_expansion", "abbreviation_expansion":
			conf += 0.03
		}
	}

	if conf < 0 {
		return 0
	}
	if conf > 1 {
		return 1
	}
	return conf
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Package entity extracts typed business entities (contract numbers,
// emails, amounts, statuses and so on) from query text and scores each span
// with a confidence.
package entity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vinodlearning/contractnlp/internal/lexicon"
	"github.com/vinodlearning/contractnlp/pkg/models"
)

const (
	defaultConfidenceThreshold = 0.75
	maxEntityLength            = 100
	contextWindow              = 50
)

// candidate is an entity still in flight through the passes, carrying the
// context factor used later by the final confidence blend.
type candidate struct {
	models.Entity
	ctxFactor float64
}

// Resolver runs the four extraction passes and reconciles their output.
// Read-only after construction and safe for concurrent use.
type Resolver struct {
	lex *lexicon.Lexicon

	enableContext       bool
	enableFuzzy         bool
	confidenceThreshold float64
}

// NewResolver creates a resolver with context analysis and fuzzy matching
// enabled.
func NewResolver(lex *lexicon.Lexicon) *Resolver {
	return &Resolver{
		lex:                 lex,
		enableContext:       true,
		enableFuzzy:         true,
		confidenceThreshold: defaultConfidenceThreshold,
	}
}

// SetContextAnalysis toggles the context pass.
func (r *Resolver) SetContextAnalysis(on bool) { r.enableContext = on }

// SetFuzzyMatching toggles the fuzzy pass.
func (r *Resolver) SetFuzzyMatching(on bool) { r.enableFuzzy = on }

// SetConfidenceThreshold overrides the drop threshold (default 0.75).
func (r *Resolver) SetConfidenceThreshold(t float64) {
	if t > 0 && t <= 1 {
		r.confidenceThreshold = t
	}
}

// Resolve extracts every entity it can find in text. The result's entity
// spans are sorted by start offset and never overlap.
func (r *Resolver) Resolve(text string) models.EntityResolution {
	if strings.TrimSpace(text) == "" {
		return models.EntityResolution{Summary: "No entities found"}
	}

	candidates := r.patternPass(text)
	candidates = append(candidates, r.dictionaryPass(text)...)
	candidates = append(candidates, r.knownEntityPass(text)...)
	if r.enableFuzzy {
		candidates = append(candidates, r.fuzzyPass(text)...)
	}
	if r.enableContext {
		for i := range candidates {
			r.applyContext(text, &candidates[i])
		}
	}

	survivors := reconcile(candidates)

	var entities []models.Entity
	total := 0.0
	for _, c := range survivors {
		conf := r.finalConfidence(text, c)
		if conf < r.confidenceThreshold {
			continue
		}
		e := c.Entity
		e.Confidence = conf
		entities = append(entities, e)
		total += conf
	}

	res := models.EntityResolution{Entities: entities, Summary: summarize(entities)}
	if len(entities) > 0 {
		res.Confidence = total / float64(len(entities))
	}
	return res
}

// patternPass applies every type regex and strips prefixes down to the
// canonical value. Matches longer than the entity length cap are discarded.
func (r *Resolver) patternPass(text string) []candidate {
	var out []candidate
	for _, p := range patterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[0], loc[1]
			if end-start > maxEntityLength {
				continue
			}
			value := text[start:end]
			if p.group > 0 && loc[2*p.group] >= 0 {
				value = text[loc[2*p.group]:loc[2*p.group+1]]
			}
			out = append(out, candidate{
				Entity: models.Entity{
					Type:       p.typ,
					Value:      value,
					Original:   text[start:end],
					Start:      start,
					End:        end,
					Confidence: p.base,
				},
				ctxFactor: 0.5,
			})
		}
	}
	return out
}

// dictionaryPass finds known status, priority, department and currency
// values, accepting a hit only at word boundaries.
func (r *Resolver) dictionaryPass(text string) []candidate {
	lower := strings.ToLower(text)
	var out []candidate
	scan := func(values []string, typ models.EntityType) {
		for _, v := range values {
			for _, start := range boundedIndexes(lower, v) {
				end := start + len(v)
				out = append(out, candidate{
					Entity: models.Entity{
						Type:       typ,
						Value:      v,
						Original:   text[start:end],
						Start:      start,
						End:        end,
						Confidence: 0.85,
					},
					ctxFactor: 0.5,
				})
			}
		}
	}
	scan(r.lex.StatusValues(), models.EntityStatus)
	scan(r.lex.PriorityValues(), models.EntityPriority)
	scan(r.lex.DepartmentValues(), models.EntityDepartment)
	scan(r.lex.CurrencyValues(), models.EntityCurrency)
	return out
}

// knownEntityPass finds exact occurrences of curated entity values from the
// lexicon. Curated values outrank dictionary hits so pack vocabulary wins
// span conflicts.
func (r *Resolver) knownEntityPass(text string) []candidate {
	lower := strings.ToLower(text)
	var out []candidate
	for value, typ := range r.lex.KnownEntities() {
		for _, start := range boundedIndexes(lower, value) {
			end := start + len(value)
			out = append(out, candidate{
				Entity: models.Entity{
					Type:       typ,
					Value:      value,
					Original:   text[start:end],
					Start:      start,
					End:        end,
					Confidence: 1.0,
				},
				ctxFactor: 0.5,
			})
		}
	}
	return out
}

// boundedIndexes returns every occurrence of needle in haystack where
// neither adjacent character is alphanumeric.
func boundedIndexes(haystack, needle string) []int {
	var out []int
	from := 0
	for {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			return out
		}
		start := from + i
		end := start + len(needle)
		okLeft := start == 0 || !isWordByte(haystack[start-1])
		okRight := end == len(haystack) || !isWordByte(haystack[end])
		if okLeft && okRight {
			out = append(out, start)
		}
		from = start + 1
	}
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// reconcile sorts candidates by start offset and collapses overlapping spans,
// keeping the higher confidence and breaking ties by type specificity.
func reconcile(candidates []candidate) []candidate {
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].End > candidates[j].End
	})

	var out []candidate
	for _, c := range candidates {
		if len(out) == 0 {
			out = append(out, c)
			continue
		}
		last := &out[len(out)-1]
		if c.Start >= last.End {
			out = append(out, c)
			continue
		}
		if betterCandidate(c, *last) {
			*last = c
		}
	}
	return out
}

func betterCandidate(a, b candidate) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return specificity[a.Type] > specificity[b.Type]
}

// finalConfidence blends the candidate's accumulated confidence with
// length, format validity, context and position factors, clamped to [0,1].
func (r *Resolver) finalConfidence(text string, c candidate) float64 {
	lengthFactor := float64(len(c.Value)) / 8.0
	if lengthFactor > 1 {
		lengthFactor = 1
	}

	formatFactor := 0.2
	if validFormat(c.Type, c.Value) {
		formatFactor = 1.0
	}

	positionFactor := 1.0 - float64(c.Start)/float64(len(text))

	conf := 0.4*c.Confidence + 0.2*lengthFactor + 0.2*formatFactor +
		0.15*c.ctxFactor + 0.05*positionFactor
	if conf < 0 {
		return 0
	}
	if conf > 1 {
		return 1
	}
	return conf
}

// summarize builds the human-readable count-by-type string.
func summarize(entities []models.Entity) string {
	if len(entities) == 0 {
		return "No entities found"
	}
	counts := map[models.EntityType]int{}
	var order []models.EntityType
	for _, e := range entities {
		if counts[e.Type] == 0 {
			order = append(order, e.Type)
		}
		counts[e.Type]++
	}
	parts := make([]string, 0, len(order))
	for _, t := range order {
		parts = append(parts, fmt.Sprintf("%d %s", counts[t], t))
	}
	return fmt.Sprintf("Found %d entities: %s", len(entities), strings.Join(parts, ", "))
}

// Package intent classifies a query into a business intent and a concrete
// action. Classification tries full-phrase context patterns first, then
// falls back to keyword scoring over the token stream.
package intent

import (
	"fmt"
	"strings"

	"github.com/vinodlearning/contractnlp/internal/interfaces"
	"github.com/vinodlearning/contractnlp/pkg/models"
)

// Result is the classifier's verdict for one query, including the
// identifier-shaped entities it extracted along the way.
type Result struct {
	Intent         models.Intent
	Action         models.Action
	Confidence     float64
	ContractNumber string
	PartNumber     string
	CustomerName   string
	ProperNouns    []string
}

// Classifier detects intent from tokenized, tagged query text.
type Classifier struct {
	tokenizer interfaces.Tokenizer
	tagger    interfaces.Tagger

	// order fixes the tie-break: when two intents score the same number
	// of keyword hits, the earlier-registered intent wins.
	order    []models.Intent
	keywords map[models.Intent]map[string]bool
	patterns []contextPattern
}

// NewClassifier creates a classifier over the given tokenizer and tagger.
func NewClassifier(tokenizer interfaces.Tokenizer, tagger interfaces.Tagger) *Classifier {
	c := &Classifier{
		tokenizer: tokenizer,
		tagger:    tagger,
		keywords:  map[models.Intent]map[string]bool{},
		patterns:  buildContextPatterns(),
	}
	for _, e := range buildKeywordSets() {
		c.order = append(c.order, e.intent)
		set := make(map[string]bool, len(e.words))
		for _, w := range e.words {
			set[w] = true
		}
		c.keywords[e.intent] = set
	}
	return c
}

// Classify determines the intent, action and confidence for a query.
// Empty or unmatchable input yields UNKNOWN with confidence 0, never an
// error; errors are reserved for tokenizer and tagger failures.
func (c *Classifier) Classify(query string) (Result, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return Result{Intent: models.IntentUnknown, Action: models.ActionGeneralSearch}, nil
	}

	tokens, err := c.tokenizer.Tokenize(trimmed)
	if err != nil {
		return Result{}, fmt.Errorf("tokenize: %w", err)
	}
	tags, err := c.tagger.Tag(tokens)
	if err != nil {
		return Result{}, fmt.Errorf("tag: %w", err)
	}
	if len(tags) != len(tokens) {
		return Result{}, fmt.Errorf("tagger returned %d tags for %d tokens", len(tags), len(tokens))
	}

	res := Result{Intent: models.IntentUnknown}
	extractIdentifiers(tokens, tags, &res)

	lower := strings.ToLower(trimmed)
	matched := false
	for _, p := range c.patterns {
		if p.re.MatchString(lower) {
			res.Intent = p.intent
			matched = true
			break
		}
	}
	if !matched {
		res.Intent = c.scoreKeywords(tokens)
	}

	res.Confidence = c.confidence(tokens, res, matched)
	res.Action = decideAction(res, lower)
	return res, nil
}

// ClassifyWithContext augments a weak classification with entities carried
// over from a strong previous one. The carry-over only happens when the
// current confidence is below 0.5 and the previous above 0.7.
func (c *Classifier) ClassifyWithContext(query string, previous Result) (Result, error) {
	res, err := c.Classify(query)
	if err != nil {
		return Result{}, err
	}
	if res.Confidence >= 0.5 || previous.Confidence <= 0.7 {
		return res, nil
	}

	if res.ContractNumber == "" {
		res.ContractNumber = previous.ContractNumber
	}
	if res.PartNumber == "" {
		res.PartNumber = previous.PartNumber
	}
	if res.CustomerName == "" {
		res.CustomerName = previous.CustomerName
	}
	if res.Intent == models.IntentUnknown {
		res.Intent = previous.Intent
	}
	res.Confidence = clamp(res.Confidence + 0.2)
	res.Action = decideAction(res, strings.ToLower(query))
	return res, nil
}

// scoreKeywords picks the intent whose keyword set covers the most tokens.
// Ties keep the earlier-registered intent.
func (c *Classifier) scoreKeywords(tokens []string) models.Intent {
	best := models.IntentUnknown
	bestHits := 0
	for _, intent := range c.order {
		hits := 0
		for _, tok := range tokens {
			if c.keywords[intent][keywordToken(tok)] {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = intent
		}
	}
	return best
}

// keywordToken strips the punctuation the tokenizer leaves attached to a
// word ("status." at sentence end) before keyword lookup.
func keywordToken(tok string) string {
	return strings.ToLower(strings.Trim(tok, ".,!?;:()\"'"))
}

// confidence is the keyword-hit ratio with the documented floors applied:
// 0.8 on a context-pattern match, 0.7 when a contract number is present,
// 0.6 when a part number is present.
func (c *Classifier) confidence(tokens []string, res Result, patternMatched bool) float64 {
	if res.Intent == models.IntentUnknown {
		return 0.0
	}

	hits := 0
	set := c.keywords[res.Intent]
	for _, tok := range tokens {
		if set[keywordToken(tok)] {
			hits++
		}
	}
	conf := 0.0
	if len(tokens) > 0 {
		conf = float64(hits) / float64(len(tokens))
	}

	if patternMatched && conf < 0.8 {
		conf = 0.8
	}
	if res.ContractNumber != "" && conf < 0.7 {
		conf = 0.7
	}
	if res.PartNumber != "" && conf < 0.6 {
		conf = 0.6
	}
	return clamp(conf)
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Package pipeline wires the correction, grammar, normalization, entity and
// intent stages into a single query parser. Stage order is fixed: typo
// correction feeds grammar enforcement, which feeds normalization; entity
// resolution and intent classification both read the normalized text.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/vinodlearning/contractnlp/internal/config"
	"github.com/vinodlearning/contractnlp/internal/entity"
	"github.com/vinodlearning/contractnlp/internal/grammar"
	"github.com/vinodlearning/contractnlp/internal/interfaces"
	"github.com/vinodlearning/contractnlp/internal/intent"
	"github.com/vinodlearning/contractnlp/internal/journey"
	"github.com/vinodlearning/contractnlp/internal/lexicon"
	"github.com/vinodlearning/contractnlp/internal/normalize"
	"github.com/vinodlearning/contractnlp/internal/typo"
	"github.com/vinodlearning/contractnlp/pkg/models"
)

// Pipeline is the full query parser. Construct once, share freely: every
// stage is read-only after construction.
type Pipeline struct {
	lex        *lexicon.Lexicon
	corrector  *typo.Corrector
	enforcer   *grammar.Enforcer
	normalizer *normalize.Normalizer
	resolver   *entity.Resolver
	classifier *intent.Classifier
}

// New builds a pipeline from configuration. A nil tokenizer or tagger
// falls back to the shape-based defaults.
func New(cfg *config.Config, lex *lexicon.Lexicon, tokenizer interfaces.Tokenizer, tagger interfaces.Tagger) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}
	if tokenizer == nil {
		tokenizer = intent.SimpleTokenizer{}
	}
	if tagger == nil {
		tagger = intent.SimpleTagger{}
	}

	corrector := typo.NewCorrector(lex)
	corrector.SetMaxEditDistance(cfg.Typo.MaxEditDistance)
	corrector.SetSimilarityThreshold(cfg.Typo.SimilarityThreshold)

	resolver := entity.NewResolver(lex)
	resolver.SetContextAnalysis(cfg.Entity.EnableContext)
	resolver.SetFuzzyMatching(cfg.Entity.EnableFuzzy)
	resolver.SetConfidenceThreshold(cfg.Entity.ConfidenceThreshold)

	return &Pipeline{
		lex:        lex,
		corrector:  corrector,
		enforcer:   grammar.NewEnforcer(lex),
		normalizer: normalize.NewNormalizer(lex, normalizerOptions(cfg)),
		resolver:   resolver,
		classifier: intent.NewClassifier(tokenizer, tagger),
	}
}

func normalizerOptions(cfg *config.Config) normalize.Options {
	return normalize.Options{
		MaxLength:           cfg.Normalizer.MaxQueryLength,
		MinLength:           cfg.Normalizer.MinQueryLength,
		PreserveCase:        cfg.Normalizer.PreserveCase,
		PreservePunctuation: cfg.Normalizer.PreservePunctuation,
		PreserveNumbers:     cfg.Normalizer.PreserveNumbers,
		PreserveEmails:      cfg.Normalizer.PreserveEmails,
		PreserveURLs:        cfg.Normalizer.PreserveURLs,
		PreservePhones:      cfg.Normalizer.PreservePhones,
		RemoveStopWords:     cfg.Normalizer.RemoveStopWords,
	}
}

// Parse runs the full pipeline over one query. It never returns an error
// for bad input; every failure mode yields a structured low-confidence
// result instead.
func (p *Pipeline) Parse(query string) (result *models.ParsedQuery, err error) {
	return p.ParseWithContext(query, nil)
}

// ParseWithContext additionally considers the previous parse: when the
// current classification is weak and the previous one strong, missing
// entity fields carry over with a confidence bonus.
func (p *Pipeline) ParseWithContext(query string, previous *models.ParsedQuery) (result *models.ParsedQuery, err error) {
	logger := journey.GetLogger()
	logger.StartNewJourney(query)

	// Catch-all: a panic in any stage becomes a low-confidence error
	// result, never a crash for the caller.
	defer func() {
		if r := recover(); r != nil {
			result = &models.ParsedQuery{
				Original:   query,
				Intent:     models.IntentUnknown,
				Action:     models.ActionGeneralSearch,
				Confidence: 0.1,
				Message:    fmt.Sprintf("internal error: %v", r),
			}
			err = nil
		}
		logger.EndJourney(result.Intent, result.Action)
	}()

	if strings.TrimSpace(query) == "" {
		result = &models.ParsedQuery{
			Original: query,
			Intent:   models.IntentUnknown,
			Action:   models.ActionGeneralSearch,
			Message:  "Empty query",
		}
		return result, nil
	}

	start := time.Now()
	corrected, corrections := p.corrector.Correct(query)
	logger.AddStep("typo", len(corrections), 0, time.Since(start), "")

	start = time.Now()
	enforced := p.enforcer.Enforce(corrected)
	logger.AddStep("grammar", 0, 0, time.Since(start), "")

	start = time.Now()
	norm := p.normalizer.Normalize(enforced)
	logger.AddStep("normalize", len(norm.Transformations), norm.Confidence, time.Since(start), norm.Message)

	start = time.Now()
	resolution := p.resolver.Resolve(norm.Normalized)
	logger.AddStep("entity", len(resolution.Entities), resolution.Confidence, time.Since(start), resolution.Summary)

	start = time.Now()
	var cls intent.Result
	if previous != nil {
		cls, err = p.classifier.ClassifyWithContext(norm.Normalized, previousResult(previous))
	} else {
		cls, err = p.classifier.Classify(norm.Normalized)
	}
	if err != nil {
		// Tokenizer or tagger failure: degrade, don't fail the query.
		cls = intent.Result{Intent: models.IntentUnknown, Action: models.ActionGeneralSearch}
	}
	logger.AddStep("intent", 0, cls.Confidence, time.Since(start), string(cls.Intent))

	result = assemble(query, corrected, norm, resolution, cls, corrections)
	return result, nil
}

// previousResult projects the fields of a past parse that context
// carry-over needs.
func previousResult(prev *models.ParsedQuery) intent.Result {
	return intent.Result{
		Intent:         prev.Intent,
		Action:         prev.Action,
		Confidence:     prev.Confidence,
		ContractNumber: prev.ContractNumber,
		PartNumber:     prev.PartNumber,
		CustomerName:   prev.CustomerName,
	}
}

// assemble merges the stage outputs into the final ParsedQuery. Entity
// resolution wins over the classifier's regex extraction for any field
// both produced.
func assemble(original, corrected string, norm models.NormalizationResult,
	resolution models.EntityResolution, cls intent.Result,
	corrections []models.CorrectionRecord) *models.ParsedQuery {

	pq := &models.ParsedQuery{
		Original:        original,
		Corrected:       corrected,
		Normalized:      norm.Normalized,
		Intent:          cls.Intent,
		Action:          cls.Action,
		Entities:        resolution.Entities,
		ContractNumber:  cls.ContractNumber,
		PartNumber:      cls.PartNumber,
		CustomerName:    cls.CustomerName,
		Corrections:     corrections,
		Transformations: norm.Transformations,
		Message:         norm.Message,
	}

	if e, ok := pq.EntityOfType(models.EntityContractNumber); ok {
		pq.ContractNumber = e.Value
	}
	if e, ok := pq.EntityOfType(models.EntityPartNumber); ok {
		pq.PartNumber = e.Value
	}
	if e, ok := pq.EntityOfType(models.EntityAccountNumber); ok {
		pq.AccountNumber = e.Value
	}
	if e, ok := pq.EntityOfType(models.EntityStatus); ok {
		pq.Status = e.Value
	}
	if pq.CustomerName == "" {
		if e, ok := pq.EntityOfType(models.EntityCompanyName); ok {
			pq.CustomerName = e.Value
		} else if e, ok := pq.EntityOfType(models.EntityPersonName); ok {
			pq.CustomerName = e.Value
		}
	}

	pq.Confidence = overallConfidence(norm, resolution, cls)
	return pq
}

// overallConfidence weights the classifier heaviest: the intent decision is
// what downstream routing acts on.
func overallConfidence(norm models.NormalizationResult,
	resolution models.EntityResolution, cls intent.Result) float64 {

	conf := 0.6*cls.Confidence + 0.25*norm.Confidence + 0.15*resolution.Confidence
	if conf < 0 {
		return 0
	}
	if conf > 1 {
		return 1
	}
	return conf
}

// Interface conformance check.
var _ interfaces.QueryParser = (*Pipeline)(nil)

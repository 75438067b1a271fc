package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vinodlearning/contractnlp/pkg/models"
)

// Pack is the YAML representation of a lexicon extension file. Packs are
// additive: every entry is merged on top of the built-in defaults (or a
// previously merged pack) by Builder.MergePack.
type Pack struct {
	Name          string              `yaml:"name"`
	Version       string              `yaml:"version"`
	ValidWords    []string            `yaml:"valid_words,omitempty"`
	Frequencies   map[string]float64  `yaml:"frequencies,omitempty"`
	DomainTerms   map[string]string   `yaml:"domain_terms,omitempty"`
	Typos         map[string][]string `yaml:"typos,omitempty"`
	Abbreviations map[string]string   `yaml:"abbreviations,omitempty"`
	Bigrams       map[string]string   `yaml:"bigrams,omitempty"`
	Contractions  map[string]string   `yaml:"contractions,omitempty"`
	Slang         map[string]string   `yaml:"slang,omitempty"`
	BusinessTerms map[string]string   `yaml:"business_terms,omitempty"`
	Misspellings  map[string]string   `yaml:"misspellings,omitempty"`
	Synonyms      map[string]string   `yaml:"synonyms,omitempty"`
	StopWords     []string            `yaml:"stop_words,omitempty"`
	ProperNouns   []string            `yaml:"proper_nouns,omitempty"`
	KnownEntities map[string]string   `yaml:"known_entities,omitempty"` // value -> entity type
}

// LoadPack reads and parses a lexicon pack YAML file.
func LoadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon pack: %w", err)
	}
	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon pack: %w", err)
	}
	return &pack, nil
}

// Builder accumulates dictionary entries and produces an immutable Lexicon
// snapshot. A Builder is not safe for concurrent use; build a new snapshot
// and swap it rather than mutating a live Lexicon.
type Builder struct {
	lex *Lexicon
}

// NewBuilder returns a Builder pre-populated with the built-in defaults.
func NewBuilder() *Builder {
	b := &Builder{lex: newEmptyLexicon()}
	b.mergeDefaults()
	return b
}

// NewEmptyBuilder returns a Builder with no entries at all. Used by tests
// that need full control over the dictionaries.
func NewEmptyBuilder() *Builder {
	return &Builder{lex: newEmptyLexicon()}
}

func newEmptyLexicon() *Lexicon {
	return &Lexicon{
		validWords:        map[string]bool{},
		frequencies:       map[string]float64{},
		domainTerms:       map[string]string{},
		typoTable:         map[string][]string{},
		abbreviations:     map[string]string{},
		bigrams:           map[string]string{},
		clusters:          map[string]int{},
		contractions:      map[string]string{},
		slang:             map[string]string{},
		business:          map[string]string{},
		misspellings:      map[string]string{},
		synonyms:          map[string]string{},
		emoji:             map[string]string{},
		profanity:         map[string]bool{},
		stopWords:         map[string]bool{},
		businessStopWords: map[string]bool{},
		properNouns:       map[string]string{},
		knownEntities:     map[string]models.EntityType{},
	}
}

// AddValidWord adds a word to the curated set with an optional frequency.
func (b *Builder) AddValidWord(w string, freq float64) *Builder {
	w = strings.ToLower(strings.TrimSpace(w))
	if w == "" {
		return b
	}
	b.lex.validWords[w] = true
	if freq > 0 {
		b.lex.frequencies[w] = freq
	}
	return b
}

// AddDomainTerm maps a domain variant to its canonical form.
func (b *Builder) AddDomainTerm(variant, canonical string) *Builder {
	b.lex.domainTerms[strings.ToLower(variant)] = canonical
	return b
}

// AddTypo registers a known typo with its ordered suggestion list.
func (b *Builder) AddTypo(typo string, suggestions ...string) *Builder {
	key := strings.ToLower(typo)
	b.lex.typoTable[key] = append(b.lex.typoTable[key], suggestions...)
	return b
}

// AddAbbreviation maps an abbreviation to its expansion.
func (b *Builder) AddAbbreviation(abbr, expansion string) *Builder {
	b.lex.abbreviations[strings.ToLower(abbr)] = expansion
	return b
}

// AddBigram registers a contextual correction keyed "prev_word" or "word_next".
func (b *Builder) AddBigram(key, replacement string) *Builder {
	b.lex.bigrams[strings.ToLower(key)] = replacement
	return b
}

// AddKnownEntity registers a curated entity value with its type.
func (b *Builder) AddKnownEntity(value string, t models.EntityType) *Builder {
	b.lex.knownEntities[strings.ToLower(value)] = t
	return b
}

// AddStopWord adds a general stop word.
func (b *Builder) AddStopWord(w string) *Builder {
	b.lex.stopWords[strings.ToLower(w)] = true
	return b
}

// AddProperNoun registers a proper noun in its canonical casing.
func (b *Builder) AddProperNoun(canonical string) *Builder {
	b.lex.properNouns[strings.ToLower(canonical)] = canonical
	return b
}

// MergePack merges every entry of a lexicon pack on top of the current state.
func (b *Builder) MergePack(pack *Pack) *Builder {
	for _, w := range pack.ValidWords {
		b.AddValidWord(w, pack.Frequencies[strings.ToLower(w)])
	}
	for k, v := range pack.DomainTerms {
		b.AddDomainTerm(k, v)
	}
	for k, v := range pack.Typos {
		b.AddTypo(k, v...)
	}
	for k, v := range pack.Abbreviations {
		b.AddAbbreviation(k, v)
	}
	for k, v := range pack.Bigrams {
		b.AddBigram(k, v)
	}
	for k, v := range pack.Contractions {
		b.lex.contractions[strings.ToLower(k)] = v
	}
	for k, v := range pack.Slang {
		b.lex.slang[strings.ToLower(k)] = v
	}
	for k, v := range pack.BusinessTerms {
		b.lex.business[strings.ToLower(k)] = v
	}
	for k, v := range pack.Misspellings {
		b.lex.misspellings[strings.ToLower(k)] = v
	}
	for k, v := range pack.Synonyms {
		b.lex.synonyms[strings.ToLower(k)] = v
	}
	for _, w := range pack.StopWords {
		b.AddStopWord(w)
	}
	for _, p := range pack.ProperNouns {
		b.AddProperNoun(p)
	}
	for v, t := range pack.KnownEntities {
		b.AddKnownEntity(v, models.EntityType(strings.ToUpper(t)))
	}
	return b
}

// Build finalizes the snapshot. The Builder must not be reused afterwards.
func (b *Builder) Build() *Lexicon {
	lex := b.lex
	b.lex = nil
	return lex
}

// Default builds a Lexicon containing only the built-in dictionaries.
func Default() *Lexicon {
	return NewBuilder().Build()
}

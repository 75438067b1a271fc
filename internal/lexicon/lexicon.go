package lexicon

import (
	"strings"

	"github.com/vinodlearning/contractnlp/pkg/models"
)

// Lexicon is an immutable snapshot of every dictionary the pipeline reads:
// valid words with frequencies, typo and abbreviation tables, semantic
// clusters, normalization tables, and the known-entity catalog. A snapshot
// is built once (see Builder) and shared by reference; concurrent readers
// are safe because nothing mutates after Build.
type Lexicon struct {
	validWords    map[string]bool
	frequencies   map[string]float64
	domainTerms   map[string]string
	typoTable     map[string][]string
	abbreviations map[string]string
	bigrams       map[string]string
	clusters      map[string]int

	contractions map[string]string
	slang        map[string]string
	business     map[string]string
	misspellings map[string]string
	synonyms     map[string]string
	emoji        map[string]string
	profanity    map[string]bool

	stopWords         map[string]bool
	businessStopWords map[string]bool
	properNouns       map[string]string // lowercased -> canonical casing

	knownEntities map[string]models.EntityType
	statusValues  []string
	priorities    []string
	departments   []string
	currencies    []string
}

// IsValidWord reports whether w (lowercased) is in the curated word set.
func (l *Lexicon) IsValidWord(w string) bool {
	return l.validWords[strings.ToLower(w)]
}

// ValidWords returns every word in the curated set. The returned slice is
// a copy and may be retained by the caller.
func (l *Lexicon) ValidWords() []string {
	out := make([]string, 0, len(l.validWords))
	for w := range l.validWords {
		out = append(out, w)
	}
	return out
}

// Frequency returns the relative corpus frequency of a valid word in [0,1].
// Unknown words have frequency 0.
func (l *Lexicon) Frequency(w string) float64 {
	return l.frequencies[strings.ToLower(w)]
}

// DomainTerm returns the canonical form for a domain-specific variant.
func (l *Lexicon) DomainTerm(w string) (string, bool) {
	v, ok := l.domainTerms[strings.ToLower(w)]
	return v, ok
}

// TypoSuggestions returns the curated suggestion list for a known typo,
// in insertion order.
func (l *Lexicon) TypoSuggestions(w string) ([]string, bool) {
	v, ok := l.typoTable[strings.ToLower(w)]
	return v, ok
}

// Abbreviation returns the expansion for a known abbreviation.
func (l *Lexicon) Abbreviation(w string) (string, bool) {
	v, ok := l.abbreviations[strings.ToLower(w)]
	return v, ok
}

// Bigram looks up a contextual correction keyed "prev_word" or "word_next".
func (l *Lexicon) Bigram(key string) (string, bool) {
	v, ok := l.bigrams[strings.ToLower(key)]
	return v, ok
}

// Related reports whether two words belong to the same semantic cluster
// (contract, customer, payment or status terms).
func (l *Lexicon) Related(a, b string) bool {
	ca, ok := l.clusters[strings.ToLower(a)]
	if !ok {
		return false
	}
	cb, ok := l.clusters[strings.ToLower(b)]
	return ok && ca == cb
}

// Contraction returns the expanded form of a contraction ("don't" -> "do not").
func (l *Lexicon) Contraction(w string) (string, bool) {
	v, ok := l.contractions[strings.ToLower(w)]
	return v, ok
}

// Slang returns the formal replacement for a slang token.
func (l *Lexicon) Slang(w string) (string, bool) {
	v, ok := l.slang[strings.ToLower(w)]
	return v, ok
}

// BusinessTerm returns the expansion for a business shorthand ("po" ->
// "purchase order").
func (l *Lexicon) BusinessTerm(w string) (string, bool) {
	v, ok := l.business[strings.ToLower(w)]
	return v, ok
}

// Misspelling returns the static correction for a common misspelling.
func (l *Lexicon) Misspelling(w string) (string, bool) {
	v, ok := l.misspellings[strings.ToLower(w)]
	return v, ok
}

// Synonym returns the canonical replacement for a synonym.
func (l *Lexicon) Synonym(w string) (string, bool) {
	v, ok := l.synonyms[strings.ToLower(w)]
	return v, ok
}

// Emoji returns the word translation for an emoji rune sequence.
func (l *Lexicon) Emoji(e string) (string, bool) {
	v, ok := l.emoji[e]
	return v, ok
}

// Emojis returns every emoji with a word translation.
func (l *Lexicon) Emojis() map[string]string {
	return l.emoji
}

// IsProfanity reports whether a token is on the profanity list.
func (l *Lexicon) IsProfanity(w string) bool {
	return l.profanity[strings.ToLower(w)]
}

// IsStopWord reports whether a token is a general English stop word.
func (l *Lexicon) IsStopWord(w string) bool {
	return l.stopWords[strings.ToLower(w)]
}

// IsBusinessStopWord reports whether a stop word must survive stopword
// removal because it carries business meaning ("not", "no", "between").
func (l *Lexicon) IsBusinessStopWord(w string) bool {
	return l.businessStopWords[strings.ToLower(w)]
}

// ProperNoun returns the canonical casing for a known proper noun.
func (l *Lexicon) ProperNoun(w string) (string, bool) {
	v, ok := l.properNouns[strings.ToLower(w)]
	return v, ok
}

// KnownEntity returns the entity type of a curated known-entity value.
func (l *Lexicon) KnownEntity(v string) (models.EntityType, bool) {
	t, ok := l.knownEntities[strings.ToLower(v)]
	return t, ok
}

// KnownEntities returns the full known-entity catalog keyed by lowercased
// value.
func (l *Lexicon) KnownEntities() map[string]models.EntityType {
	return l.knownEntities
}

// StatusValues returns the dictionary of recognized status words.
func (l *Lexicon) StatusValues() []string { return l.statusValues }

// PriorityValues returns the dictionary of recognized priority words.
func (l *Lexicon) PriorityValues() []string { return l.priorities }

// DepartmentValues returns the dictionary of recognized department names.
func (l *Lexicon) DepartmentValues() []string { return l.departments }

// CurrencyValues returns the dictionary of recognized currency codes/names.
func (l *Lexicon) CurrencyValues() []string { return l.currencies }

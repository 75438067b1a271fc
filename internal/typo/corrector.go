package typo

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/vinodlearning/contractnlp/internal/lexicon"
	"github.com/vinodlearning/contractnlp/pkg/models"
)

// Correction strategy tags recorded for explainability.
const (
	StrategyDictionary   = "dictionary"
	StrategyTypoTable    = "typo_table"
	StrategyAbbreviation = "abbreviation"
	StrategyBigram       = "bigram"
	StrategyEditDistance = "edit_distance"
	StrategyPhonetic     = "phonetic"
	StrategyKeyboard     = "keyboard"
)

const contextRelatedBonus = 0.3

// Corrector performs word-level typo correction over a priority chain of
// strategies. It is read-only after construction and safe for concurrent use.
type Corrector struct {
	lex *lexicon.Lexicon

	maxEditDistance     int
	similarityThreshold float64

	// soundexIndex maps a soundex code to the valid words sharing it, and
	// lengthIndex buckets valid words by length. Both are precomputed at
	// construction so per-token lookups stay bounded instead of scanning
	// the whole word set.
	soundexIndex map[string][]string
	lengthIndex  map[int][]string
}

// NewCorrector creates a corrector over the given lexicon snapshot.
func NewCorrector(lex *lexicon.Lexicon) *Corrector {
	c := &Corrector{
		lex:                 lex,
		maxEditDistance:     2,
		similarityThreshold: 0.75,
		soundexIndex:        make(map[string][]string),
		lengthIndex:         make(map[int][]string),
	}
	for _, w := range lex.ValidWords() {
		code := matchr.Soundex(w)
		c.soundexIndex[code] = append(c.soundexIndex[code], w)
		c.lengthIndex[len(w)] = append(c.lengthIndex[len(w)], w)
	}
	return c
}

// SetMaxEditDistance overrides the default edit-distance bound (2).
func (c *Corrector) SetMaxEditDistance(d int) {
	if d > 0 {
		c.maxEditDistance = d
	}
}

// SetSimilarityThreshold overrides the default acceptance threshold (0.75).
func (c *Corrector) SetSimilarityThreshold(t float64) {
	if t > 0 && t <= 1 {
		c.similarityThreshold = t
	}
}

// Correct runs the correction chain over every token of text and returns the
// corrected text plus the record of every substitution made. Emails, phone
// numbers and "contract #NNN" spans are never touched: their byte ranges are
// masked before tokenization and copied through verbatim.
func (c *Corrector) Correct(text string) (string, []models.CorrectionRecord) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	protected := findProtectedSpans(text)
	tokens := fieldsWithOffsets(text)

	var records []models.CorrectionRecord
	var out strings.Builder
	out.Grow(len(text) + 16)

	prevEnd := 0
	for i, tok := range tokens {
		out.WriteString(text[prevEnd:tok.start])
		prevEnd = tok.end

		if overlapsAny(tok.start, tok.end, protected) {
			out.WriteString(tok.text)
			continue
		}

		prev, next := "", ""
		if i > 0 {
			prev = cleanToken(tokens[i-1].text)
		}
		if i+1 < len(tokens) {
			next = cleanToken(tokens[i+1].text)
		}

		// A Title-case token past the sentence start is almost always a
		// proper noun (a customer or company name). Curated tables still
		// apply, but the statistical strategies must not rewrite it.
		statistical := true
		if isTitleCaseToken(tok.text) && !sentenceInitial(tokens, i) {
			statistical = false
		}

		corrected, strategy, changed := c.correctWord(tok.text, prev, next, statistical)
		if changed {
			records = append(records, models.CorrectionRecord{
				Original:  tok.text,
				Corrected: corrected,
				Strategy:  strategy,
			})
		}
		out.WriteString(corrected)
	}
	out.WriteString(text[prevEnd:])

	return out.String(), records
}

// CorrectWord corrects a single surface token given its cleaned neighbors.
// It returns the (possibly unchanged) surface form, the strategy tag of the
// substitution, and whether a substitution happened. Strategies are tried in
// strict precedence order; the first match wins.
func (c *Corrector) CorrectWord(word, prev, next string) (string, string, bool) {
	return c.correctWord(word, prev, next, true)
}

func (c *Corrector) correctWord(word, prev, next string, statistical bool) (string, string, bool) {
	clean := cleanToken(word)
	if clean == "" {
		return word, "", false
	}

	// Already a valid word: never altered. This is what makes the chain
	// idempotent.
	if c.lex.IsValidWord(clean) {
		return word, "", false
	}

	if canonical, ok := c.lex.DomainTerm(clean); ok {
		return applySurface(word, canonical), StrategyDictionary, true
	}

	if suggestions, ok := c.lex.TypoSuggestions(clean); ok && len(suggestions) > 0 {
		best := c.pickSuggestion(suggestions, prev, next)
		return applySurface(word, best), StrategyTypoTable, true
	}

	if expansion, ok := c.lex.Abbreviation(clean); ok {
		return applySurface(word, expansion), StrategyAbbreviation, true
	}

	if repl, ok := c.bigramCorrection(clean, prev, next); ok {
		return applySurface(word, repl), StrategyBigram, true
	}

	// Tokens with digits are identifiers (contract numbers, part numbers),
	// not misspellings. The statistical strategies never touch them.
	if !statistical || containsDigit(clean) {
		return word, "", false
	}

	if match, ok := c.editDistanceMatch(clean); ok {
		return applySurface(word, match), StrategyEditDistance, true
	}

	if match, ok := c.phoneticMatch(clean); ok {
		return applySurface(word, match), StrategyPhonetic, true
	}

	if match, ok := c.keyboardMatch(clean); ok {
		return applySurface(word, match), StrategyKeyboard, true
	}

	return word, "", false
}

// pickSuggestion scores each curated suggestion by corpus frequency plus a
// bonus per semantically related context word. Ties keep insertion order.
func (c *Corrector) pickSuggestion(suggestions []string, prev, next string) string {
	best := suggestions[0]
	bestScore := -1.0
	for _, s := range suggestions {
		score := c.lex.Frequency(s)
		if prev != "" && c.lex.Related(s, prev) {
			score += contextRelatedBonus
		}
		if next != "" && c.lex.Related(s, next) {
			score += contextRelatedBonus
		}
		if score > bestScore {
			bestScore = score
			best = s
		}
	}
	return best
}

// bigramCorrection looks up "prev_word" then "word_next" in the contextual
// correction map.
func (c *Corrector) bigramCorrection(word, prev, next string) (string, bool) {
	if prev != "" {
		if repl, ok := c.lex.Bigram(prev + "_" + word); ok {
			return repl, true
		}
	}
	if next != "" {
		if repl, ok := c.lex.Bigram(word + "_" + next); ok {
			return repl, true
		}
	}
	return "", false
}

// editDistanceMatch finds the valid word within the edit-distance bound that
// maximizes 0.7*similarity + 0.3*frequency, accepting only candidates whose
// similarity clears the threshold.
func (c *Corrector) editDistanceMatch(word string) (string, bool) {
	best := ""
	bestScore := 0.0
	for length := len(word) - c.maxEditDistance; length <= len(word)+c.maxEditDistance; length++ {
		for _, candidate := range c.lengthIndex[length] {
			dist := matchr.Levenshtein(word, candidate)
			if dist == 0 || dist > c.maxEditDistance {
				continue
			}
			sim := similarity(word, candidate, dist)
			if sim < c.similarityThreshold {
				continue
			}
			score := 0.7*sim + 0.3*c.lex.Frequency(candidate)
			if score > bestScore {
				bestScore = score
				best = candidate
			}
		}
	}
	return best, best != ""
}

// phoneticMatch finds a valid word sharing the token's soundex code with a
// length difference of at most two, preferring the most frequent.
func (c *Corrector) phoneticMatch(word string) (string, bool) {
	code := matchr.Soundex(word)
	best := ""
	bestFreq := -1.0
	for _, candidate := range c.soundexIndex[code] {
		if abs(len(candidate)-len(word)) > 2 || candidate == word {
			continue
		}
		if f := c.lex.Frequency(candidate); f > bestFreq {
			bestFreq = f
			best = candidate
		}
	}
	return best, best != ""
}

// keyboardMatch accepts a valid word when at most one character differs and
// every differing pair is adjacent on a QWERTY keyboard.
func (c *Corrector) keyboardMatch(word string) (string, bool) {
	for length := len(word) - 1; length <= len(word)+1; length++ {
		for _, candidate := range c.lengthIndex[length] {
			if isKeyboardVariant(word, candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

// similarity converts an edit distance into a [0,1] similarity ratio.
func similarity(a, b string, dist int) float64 {
	max := len(a)
	if len(b) > max {
		max = len(b)
	}
	if max == 0 {
		return 1.0
	}
	return 1.0 - float64(dist)/float64(max)
}

// cleanToken lowercases a token and strips every non-alphanumeric rune.
func cleanToken(tok string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(tok) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// applySurface substitutes the corrected word back into the original surface
// form, keeping leading/trailing punctuation and the original case pattern.
func applySurface(surface, replacement string) string {
	core, prefix, suffix := splitPunctuation(surface)
	return prefix + PreserveCase(core, replacement) + suffix
}

// splitPunctuation separates a token into leading punctuation, the core, and
// trailing punctuation.
func splitPunctuation(tok string) (core, prefix, suffix string) {
	start := 0
	for start < len(tok) && !isAlnum(tok[start]) {
		start++
	}
	end := len(tok)
	for end > start && !isAlnum(tok[end-1]) {
		end--
	}
	return tok[start:end], tok[:start], tok[end:]
}

func containsDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// isTitleCaseToken reports whether a token's core is a capitalized word
// ("Alice", "Johnson") rather than an acronym or identifier.
func isTitleCaseToken(tok string) bool {
	core, _, _ := splitPunctuation(tok)
	return len(core) >= 2 && casePattern(core) == caseTitle && !containsDigit(core)
}

// sentenceInitial reports whether token i starts the text or follows
// sentence-terminating punctuation.
func sentenceInitial(tokens []token, i int) bool {
	if i == 0 {
		return true
	}
	prev := tokens[i-1].text
	switch prev[len(prev)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

type token struct {
	text  string
	start int
	end   int
}

// fieldsWithOffsets splits on whitespace keeping byte offsets, so protected
// spans can be matched by position rather than by literal text.
func fieldsWithOffsets(text string) []token {
	var tokens []token
	start := -1
	for i := 0; i < len(text); i++ {
		isSpace := text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r'
		if isSpace {
			if start >= 0 {
				tokens = append(tokens, token{text: text[start:i], start: start, end: i})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{text: text[start:], start: start, end: len(text)})
	}
	return tokens
}

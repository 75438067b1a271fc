// Package grammar rewrites informal or ungrammatical query text into a
// cleaner form using ordered substitution tables. It fixes the frequent
// patterns seen in contract queries rather than attempting full grammar
// checking.
package grammar

import (
	"regexp"
	"strings"

	"github.com/vinodlearning/contractnlp/internal/lexicon"
)

// rule pairs a matcher with its transform. Rules with a nil expand func use
// the replacement template; the rest compute the replacement from submatches.
type rule struct {
	matcher *regexp.Regexp
	replace string
	expand  func(match []string) string
}

func (r rule) apply(text string) string {
	if r.expand == nil {
		return r.matcher.ReplaceAllString(text, r.replace)
	}
	return r.matcher.ReplaceAllStringFunc(text, func(m string) string {
		return r.expand(r.matcher.FindStringSubmatch(m))
	})
}

// chain is a named ordered group of rules. Chains run in registration order
// and every rule in a chain runs exactly once per call.
type chain struct {
	name  string
	rules []rule
}

// Enforcer applies the substitution chains followed by capitalization and
// punctuation cleanup. It is read-only after construction and safe for
// concurrent use.
type Enforcer struct {
	lex    *lexicon.Lexicon
	chains []chain
}

// NewEnforcer creates an enforcer over the given lexicon snapshot. The
// lexicon supplies the proper-noun casing table used by capitalization.
func NewEnforcer(lex *lexicon.Lexicon) *Enforcer {
	return &Enforcer{
		lex: lex,
		chains: []chain{
			{name: "business_slang", rules: buildSlangRules()},
			{name: "common_errors", rules: buildErrorRules()},
			{name: "subject_verb", rules: buildAgreementRules()},
			{name: "articles", rules: buildArticleRules()},
			{name: "prepositions", rules: buildPrepositionRules()},
			{name: "verb_forms", rules: buildVerbFormRules()},
			{name: "sentence_patterns", rules: buildPatternRules()},
		},
	}
}

// Enforce rewrites text through every chain in order, then normalizes
// capitalization and punctuation. It is deterministic and order-sensitive:
// earlier chains feed later ones.
func (e *Enforcer) Enforce(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	out := text
	for _, ch := range e.chains {
		for _, r := range ch.rules {
			out = r.apply(out)
		}
	}

	out = e.capitalize(out)
	out = cleanPunctuation(out)
	return out
}

var sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)

// capitalize uppercases the first letter of each sentence and restores the
// canonical casing of known proper nouns and acronyms.
func (e *Enforcer) capitalize(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		core, prefix, suffix := trimPunct(w)
		if core == "" {
			continue
		}
		if canonical, ok := e.lex.ProperNoun(core); ok {
			words[i] = prefix + canonical + suffix
		}
	}
	out := strings.Join(words, " ")

	// Sentence starts: position 0 plus every boundary match.
	starts := []int{0}
	for _, loc := range sentenceBoundary.FindAllStringIndex(out, -1) {
		starts = append(starts, loc[1])
	}
	b := []byte(out)
	for _, s := range starts {
		for s < len(b) && b[s] == ' ' {
			s++
		}
		if s < len(b) && b[s] >= 'a' && b[s] <= 'z' {
			b[s] -= 'a' - 'A'
		}
	}
	return string(b)
}

var (
	multiSpace      = regexp.MustCompile(`\s{2,}`)
	spaceBeforePunc = regexp.MustCompile(`\s+([.,!?;:])`)
	repeatedPunc    = regexp.MustCompile(`([.!?,]){2,}`)
	puncNoSpace     = regexp.MustCompile(`([,;:!?])([A-Za-z])`)
	// Periods only split before an uppercase letter so email addresses,
	// URLs and decimal-bearing tokens survive intact.
	periodNoSpace = regexp.MustCompile(`(\.)([A-Z])`)
)

// cleanPunctuation collapses whitespace, fixes spacing around punctuation,
// dedupes repeated terminal punctuation, and terminates the text with a
// period when it ends mid-sentence.
func cleanPunctuation(text string) string {
	out := strings.TrimSpace(text)
	if out == "" {
		return out
	}
	out = multiSpace.ReplaceAllString(out, " ")
	out = spaceBeforePunc.ReplaceAllString(out, "$1")
	out = repeatedPunc.ReplaceAllString(out, "$1")
	out = puncNoSpace.ReplaceAllString(out, "$1 $2")
	out = periodNoSpace.ReplaceAllString(out, "$1 $2")

	last := out[len(out)-1]
	if (last >= 'a' && last <= 'z') || (last >= 'A' && last <= 'Z') || (last >= '0' && last <= '9') {
		out += "."
	}
	return out
}

// trimPunct splits a word into leading punctuation, core, and trailing
// punctuation.
func trimPunct(w string) (core, prefix, suffix string) {
	start := 0
	for start < len(w) && !isLetterOrDigit(w[start]) {
		start++
	}
	end := len(w)
	for end > start && !isLetterOrDigit(w[end-1]) {
		end--
	}
	return w[start:end], w[:start], w[end:]
}

func isLetterOrDigit(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

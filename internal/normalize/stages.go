package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// stage is one step of the pipeline. apply operates on a free segment and
// returns the rewritten text; the interpreter records the stage name when
// any segment changed.
type stage struct {
	name  string
	apply func(string) string
}

func (n *Normalizer) buildStages() []stage {
	stages := []stage{
		{name: "unicode_nfkc", apply: norm.NFKC.String},
		{name: "markup_strip", apply: stripMarkup},
		{name: "emoji_translation", apply: n.translateEmojis},
		{name: "profanity_filter", apply: n.maskProfanity},
		{name: "contraction_expansion", apply: n.tokenStage(n.lex.Contraction)},
		{name: "slang_normalization", apply: n.tokenStage(n.lex.Slang)},
		{name: "abbreviation_expansion", apply: n.tokenStage(n.lex.Abbreviation)},
		{name: "domain_expansion", apply: n.tokenStage(n.lex.DomainTerm)},
		{name: "business_expansion", apply: n.tokenStage(n.lex.BusinessTerm)},
		{name: "spell_correction", apply: n.tokenStage(n.lex.Misspelling)},
		{name: "synonym_replacement", apply: n.tokenStage(n.lex.Synonym)},
		{name: "repeat_collapse", apply: collapseRepeats},
	}
	if !n.opts.PreservePunctuation {
		stages = append(stages, stage{name: "punctuation_removal", apply: removePunctuation})
	}
	if !n.opts.PreserveCase {
		stages = append(stages, stage{name: "case_folding", apply: strings.ToLower})
	}
	if n.opts.RemoveStopWords {
		stages = append(stages, stage{name: "stopword_removal", apply: n.removeStopWords})
	}
	return stages
}

var (
	htmlTagPattern      = regexp.MustCompile(`<[^>]+>`)
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	markdownEmphasis    = regexp.MustCompile("[*`]+")
)

// stripMarkup drops HTML tags and unwraps Markdown links and emphasis. The
// '#' character is left alone since it marks contract references.
func stripMarkup(s string) string {
	out := htmlTagPattern.ReplaceAllString(s, " ")
	out = markdownLinkPattern.ReplaceAllString(out, "$1")
	return markdownEmphasis.ReplaceAllString(out, "")
}

// translateEmojis replaces each known emoji with its word equivalent.
func (n *Normalizer) translateEmojis(s string) string {
	out := s
	for emoji, word := range n.lex.Emojis() {
		if strings.Contains(out, emoji) {
			out = strings.ReplaceAll(out, emoji, " "+word+" ")
		}
	}
	return out
}

// maskProfanity replaces flagged tokens with a fixed marker.
func (n *Normalizer) maskProfanity(s string) string {
	return mapTokens(s, func(core string) (string, bool) {
		if n.lex.IsProfanity(core) {
			return "[filtered]", true
		}
		return "", false
	})
}

// tokenStage lifts a lexicon lookup into a whole-text token rewriter.
func (n *Normalizer) tokenStage(lookup func(string) (string, bool)) func(string) string {
	return func(s string) string {
		return mapTokens(s, lookup)
	}
}

// removeStopWords drops generic stop words while keeping the business
// allow-list (negations and range words that change query meaning).
func (n *Normalizer) removeStopWords(s string) string {
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		core, _, _ := trimPunct(f)
		lw := strings.ToLower(core)
		if n.lex.IsStopWord(lw) && !n.lex.IsBusinessStopWord(lw) {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// collapseRepeats shrinks runs of three or more identical letters down to
// two ("sooooo" to "soo").
func collapseRepeats(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	run := 0
	var last rune = -1
	for _, r := range s {
		if r == last && isLetter(r) {
			run++
			if run >= 3 {
				continue
			}
		} else {
			run = 1
			last = r
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func removePunctuation(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if isLetter(r) || (r >= '0' && r <= '9') || r == ' ' || r == '\t' || r == '\n' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}
	return sb.String()
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// mapTokens applies lookup to the cleaned lowercase core of each
// whitespace-delimited token, preserving surrounding punctuation and the
// gaps between tokens.
func mapTokens(s string, lookup func(string) (string, bool)) string {
	var sb strings.Builder
	sb.Grow(len(s))
	start := -1
	flush := func(end int) {
		tok := s[start:end]
		core, prefix, suffix := trimPunct(tok)
		if core != "" {
			if repl, ok := lookup(strings.ToLower(core)); ok {
				sb.WriteString(prefix + repl + suffix)
				return
			}
		}
		sb.WriteString(tok)
	}
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r' {
			if start >= 0 {
				flush(i)
				start = -1
			}
			sb.WriteByte(s[i])
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		flush(len(s))
	}
	return sb.String()
}

// trimPunct splits a token into leading punctuation, core, and trailing
// punctuation. Inner punctuation (apostrophes in contractions) stays in the
// core so "can't" survives the trim.
func trimPunct(tok string) (core, prefix, suffix string) {
	start := 0
	for start < len(tok) && !isTokenChar(tok[start]) {
		start++
	}
	end := len(tok)
	for end > start && !isTokenChar(tok[end-1]) {
		end--
	}
	return tok[start:end], tok[:start], tok[end:]
}

func isTokenChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

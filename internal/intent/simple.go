package intent

import (
	"regexp"
	"strings"

	"github.com/vinodlearning/contractnlp/internal/interfaces"
)

var simpleTokenPattern = regexp.MustCompile(`[\w][\w.@$#-]*|[^\s\w]`)

// SimpleTokenizer splits on word shapes, keeping identifier-like tokens
// (part numbers, emails) whole. It is the default when no model-backed
// tokenizer is configured.
type SimpleTokenizer struct{}

func (SimpleTokenizer) Tokenize(text string) ([]string, error) {
	return simpleTokenPattern.FindAllString(text, -1), nil
}

// SimpleTagger assigns coarse part-of-speech tags by token shape: NNP for
// capitalized words, CD for digit-bearing tokens, VB for a small verb list,
// NN otherwise. Good enough for proper-noun and number extraction when the
// model-backed tagger is disabled.
type SimpleTagger struct{}

var simpleVerbs = map[string]bool{
	"show": true, "find": true, "get": true, "list": true, "display": true,
	"check": true, "give": true, "tell": true, "is": true, "are": true,
	"was": true, "were": true, "have": true, "has": true, "need": true,
	"want": true, "expired": true, "failed": true,
}

func (SimpleTagger) Tag(tokens []string) ([]string, error) {
	tags := make([]string, len(tokens))
	for i, tok := range tokens {
		switch {
		case tok == "":
			tags[i] = "NN"
		case strings.ContainsAny(tok, "0123456789"):
			tags[i] = "CD"
		case simpleVerbs[strings.ToLower(tok)]:
			tags[i] = "VB"
		case tok[0] >= 'A' && tok[0] <= 'Z':
			tags[i] = "NNP"
		default:
			tags[i] = "NN"
		}
	}
	return tags, nil
}

// Interface conformance checks.
var (
	_ interfaces.Tokenizer = SimpleTokenizer{}
	_ interfaces.Tagger    = SimpleTagger{}
)

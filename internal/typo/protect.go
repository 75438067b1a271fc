package typo

import "regexp"

// Protected patterns are matched by position, not by literal placeholder
// substitution, so repeated identical substrings cannot collide. Any token
// overlapping one of these byte ranges is copied through the corrector
// verbatim.
var (
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern    = regexp.MustCompile(`(\(\d{3}\)\s?|\b\d{3}[-.\s])\d{3}[-.\s]?\d{4}\b`)
	contractPattern = regexp.MustCompile(`(?i)\bcontract\s*#\s*\d+`)
)

type span struct {
	start int
	end   int
}

// findProtectedSpans returns the byte ranges of every email address, phone
// number and "contract #NNN" reference in text.
func findProtectedSpans(text string) []span {
	var spans []span
	for _, re := range []*regexp.Regexp{emailPattern, phonePattern, contractPattern} {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			spans = append(spans, span{start: loc[0], end: loc[1]})
		}
	}
	return spans
}

// overlapsAny reports whether [start,end) intersects any protected span.
func overlapsAny(start, end int, spans []span) bool {
	for _, s := range spans {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

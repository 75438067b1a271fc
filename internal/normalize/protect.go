package normalize

import "regexp"

var (
	urlPattern    = regexp.MustCompile(`\bhttps?://[^\s]+`)
	emailPattern  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern  = regexp.MustCompile(`(\(\d{3}\)\s?|\b\d{3}[-.\s])\d{3}[-.\s]?\d{4}\b`)
	numberPattern = regexp.MustCompile(`\b\d+(\.\d+)?\b`)
)

type span struct{ start, end int }

// protectedSpans collects the byte ranges that no stage may rewrite,
// honoring the per-kind preserve toggles. Earlier kinds win on overlap.
func (n *Normalizer) protectedSpans(text string) []span {
	var spans []span
	add := func(re *regexp.Regexp) {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			s := span{start: loc[0], end: loc[1]}
			if !overlapsAny(s, spans) {
				spans = append(spans, s)
			}
		}
	}
	if n.opts.PreserveURLs {
		add(urlPattern)
	}
	if n.opts.PreserveEmails {
		add(emailPattern)
	}
	if n.opts.PreservePhones {
		add(phonePattern)
	}
	if n.opts.PreserveNumbers {
		add(numberPattern)
	}
	return spans
}

func overlapsAny(s span, spans []span) bool {
	for _, o := range spans {
		if s.start < o.end && o.start < s.end {
			return true
		}
	}
	return false
}

// segment is a run of text that is either freely rewritable or locked.
type segment struct {
	text      string
	protected bool
}

// splitProtected cuts text into ordered segments at the span boundaries so
// stages can skip the locked ranges by position instead of by placeholder.
func splitProtected(text string, spans []span) []segment {
	if len(spans) == 0 {
		return []segment{{text: text}}
	}
	// Spans arrive grouped by kind; order them by offset.
	ordered := make([]span, len(spans))
	copy(ordered, spans)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].start < ordered[j-1].start; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	var segments []segment
	prev := 0
	for _, s := range ordered {
		if s.start > prev {
			segments = append(segments, segment{text: text[prev:s.start]})
		}
		segments = append(segments, segment{text: text[s.start:s.end], protected: true})
		prev = s.end
	}
	if prev < len(text) {
		segments = append(segments, segment{text: text[prev:]})
	}
	return segments
}

func protectedCount(segments []segment) int {
	count := 0
	for _, s := range segments {
		if s.protected {
			count++
		}
	}
	return count
}

func joinSegments(segments []segment) string {
	var out []byte
	for _, s := range segments {
		out = append(out, s.text...)
	}
	return string(out)
}

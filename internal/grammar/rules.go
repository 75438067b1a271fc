package grammar

import (
	"regexp"
	"strings"
)

// word builds a case-insensitive whole-word/phrase matcher.
func word(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + phrase + `\b`)
}

// buildSlangRules maps business chat slang onto formal phrasing.
func buildSlangRules() []rule {
	pairs := [][2]string{
		{`asap`, "as soon as possible"},
		{`fyi`, "for your information"},
		{`btw`, "by the way"},
		{`lemme`, "let me"},
		{`gimme`, "give me"},
		{`gonna`, "going to"},
		{`wanna`, "want to"},
		{`gotta`, "have to"},
		{`kinda`, "kind of"},
		{`sorta`, "sort of"},
		{`dunno`, "do not know"},
	}
	rules := make([]rule, 0, len(pairs))
	for _, p := range pairs {
		rules = append(rules, rule{matcher: word(p[0]), replace: p[1]})
	}
	return rules
}

// buildErrorRules fixes frequent misspellings and grammar slips that survive
// word-level correction because they span word boundaries or are themselves
// valid-looking tokens.
func buildErrorRules() []rule {
	pairs := [][2]string{
		{`teh`, "the"},
		{`adn`, "and"},
		{`taht`, "that"},
		{`thier`, "their"},
		{`recieve`, "receive"},
		{`recieved`, "received"},
		{`seperate`, "separate"},
		{`definately`, "definitely"},
		{`occured`, "occurred"},
		{`untill`, "until"},
		{`wich`, "which"},
		{`becuase`, "because"},
		{`alot`, "a lot"},
		{`should of`, "should have"},
		{`could of`, "could have"},
		{`would of`, "would have"},
		{`must of`, "must have"},
	}
	rules := make([]rule, 0, len(pairs))
	for _, p := range pairs {
		rules = append(rules, rule{matcher: word(p[0]), replace: p[1]})
	}
	return rules
}

// Singular and plural business subjects used by the agreement rules.
const (
	singularSubjects = `contract|part|customer|status|payment|order|invoice|account|shipment|vendor`
	pluralSubjects   = `contracts|parts|customers|payments|orders|invoices|accounts|shipments|vendors`
)

// buildAgreementRules corrects subject-verb number mismatches for the
// business nouns the pipeline cares about plus personal pronouns.
func buildAgreementRules() []rule {
	return []rule{
		{matcher: regexp.MustCompile(`(?i)\b(` + singularSubjects + `)\s+are\b`), replace: "$1 is"},
		{matcher: regexp.MustCompile(`(?i)\b(` + singularSubjects + `)\s+were\b`), replace: "$1 was"},
		{matcher: regexp.MustCompile(`(?i)\b(` + singularSubjects + `)\s+don't\b`), replace: "$1 doesn't"},
		{matcher: regexp.MustCompile(`(?i)\b(` + singularSubjects + `)\s+have\s+expired\b`), replace: "$1 has expired"},
		{matcher: regexp.MustCompile(`(?i)\b(` + pluralSubjects + `)\s+is\b`), replace: "$1 are"},
		{matcher: regexp.MustCompile(`(?i)\b(` + pluralSubjects + `)\s+was\b`), replace: "$1 were"},
		{matcher: regexp.MustCompile(`(?i)\b(` + pluralSubjects + `)\s+doesn't\b`), replace: "$1 don't"},
		{matcher: word(`they is`), replace: "they are"},
		{matcher: word(`we is`), replace: "we are"},
		{matcher: word(`he are`), replace: "he is"},
		{matcher: word(`she are`), replace: "she is"},
		{matcher: word(`it are`), replace: "it is"},
		{matcher: word(`i is`), replace: "I am"},
		{matcher: word(`i are`), replace: "I am"},
		{matcher: regexp.MustCompile(`(?i)\bthere\s+is\s+(\d+|many|several|some|multiple)\b`), replace: "there are $1"},
	}
}

// Words whose spelling starts with a vowel but whose sound does not, and
// the reverse. "uni"/"eu"/"one"/"use" open with a consonant sound, while
// "hour"/"honest"/"honor" open with a vowel sound.
var (
	consonantSoundPrefixes = []string{"uni", "eu", "one", "use"}
	vowelSoundPrefixes     = []string{"hour", "honest", "honor"}
)

func wantsAn(w string) bool {
	lw := strings.ToLower(w)
	for _, p := range vowelSoundPrefixes {
		if strings.HasPrefix(lw, p) {
			return true
		}
	}
	for _, p := range consonantSoundPrefixes {
		if strings.HasPrefix(lw, p) {
			return false
		}
	}
	switch lw[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// buildArticleRules picks a/an by the sound of the following word.
func buildArticleRules() []rule {
	articlePattern := regexp.MustCompile(`\b([aA]n?)\s+([a-zA-Z][a-zA-Z-]*)`)
	return []rule{
		{matcher: articlePattern, expand: func(m []string) string {
			if m == nil {
				return ""
			}
			article := "a"
			if wantsAn(m[2]) {
				article = "an"
			}
			if m[1][0] == 'A' {
				article = strings.ToUpper(article[:1]) + article[1:]
			}
			return article + " " + m[2]
		}},
	}
}

// buildPrepositionRules fixes the preposition pairings that show up most in
// contract queries.
func buildPrepositionRules() []rule {
	pairs := [][2]string{
		{`different than`, "different from"},
		{`interested on`, "interested in"},
		{`depends of`, "depends on"},
		{`in regards to`, "in regard to"},
		{`arrive to`, "arrive at"},
		{`details for contract`, "details of contract"},
		{`expired on date`, "expired on"},
	}
	rules := make([]rule, 0, len(pairs))
	for _, p := range pairs {
		rules = append(rules, rule{matcher: word(p[0]), replace: p[1]})
	}
	return rules
}

// buildVerbFormRules corrects irregular past-participle misuse.
func buildVerbFormRules() []rule {
	pairs := [][2]string{
		{`(has|have|had) went`, "$1 gone"},
		{`(has|have|had) came`, "$1 come"},
		{`(has|have|had) ran`, "$1 run"},
		{`(has|have|had) send`, "$1 sent"},
		{`(has|have|had) took`, "$1 taken"},
		{`(was|were) send`, "$1 sent"},
		{`did went`, "went"},
		{`did sent`, "sent"},
	}
	rules := make([]rule, 0, len(pairs))
	for _, p := range pairs {
		rules = append(rules, rule{matcher: regexp.MustCompile(`(?i)\b` + p[0] + `\b`), replace: p[1]})
	}
	return rules
}

// buildPatternRules rewrites conversational request framing into the
// imperative form downstream keyword matching expects.
func buildPatternRules() []rule {
	pairs := [][2]string{
		{`can you (please )?show( me)?`, "show"},
		{`could you (please )?show( me)?`, "show"},
		{`i (want|need|would like) to (see|know|check|view)`, "show"},
		{`tell me about`, "show"},
		{`please show me`, "show"},
	}
	rules := make([]rule, 0, len(pairs))
	for _, p := range pairs {
		rules = append(rules, rule{matcher: regexp.MustCompile(`(?i)\b` + p[0] + `\b`), replace: p[1]})
	}
	return rules
}

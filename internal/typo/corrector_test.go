package typo

import (
	"strings"
	"testing"

	"github.com/vinodlearning/contractnlp/internal/lexicon"
)

func newTestCorrector(t testing.TB) *Corrector {
	t.Helper()
	return NewCorrector(lexicon.Default())
}

func TestCorrectWordValidUnchanged(t *testing.T) {
	c := newTestCorrector(t)

	for _, word := range []string{"contract", "parts", "status", "the", "customer"} {
		got, strategy, changed := c.CorrectWord(word, "", "")
		if changed {
			t.Errorf("valid word %q was altered to %q via %s", word, got, strategy)
		}
		if got != word {
			t.Errorf("expected %q unchanged, got %q", word, got)
		}
	}
}

func TestCorrectDomainDictionary(t *testing.T) {
	c := newTestCorrector(t)

	tests := []struct {
		in       string
		want     string
		strategy string
	}{
		{"contrct", "contract", StrategyDictionary},
		{"faild", "failed", StrategyDictionary},
		{"prts", "parts", StrategyDictionary},
		{"teh", "the", StrategyTypoTable},
		{"staus", "status", StrategyTypoTable},
		{"qty", "quantity", StrategyAbbreviation},
		{"dept", "department", StrategyAbbreviation},
	}

	for _, tt := range tests {
		got, strategy, changed := c.CorrectWord(tt.in, "", "")
		if !changed {
			t.Errorf("expected %q to be corrected", tt.in)
			continue
		}
		if got != tt.want {
			t.Errorf("CorrectWord(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if strategy != tt.strategy {
			t.Errorf("CorrectWord(%q) used strategy %s, want %s", tt.in, strategy, tt.strategy)
		}
	}
}

func TestCorrectScenario(t *testing.T) {
	c := newTestCorrector(t)

	corrected, records := c.Correct("show faild prts for contrct 987654")

	want := "show failed parts for contract 987654"
	if corrected != want {
		t.Errorf("Correct() = %q, want %q", corrected, want)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 correction records, got %d: %+v", len(records), records)
	}
}

func TestCorrectIdempotent(t *testing.T) {
	c := newTestCorrector(t)

	inputs := []string{
		"show faild prts for contrct 987654",
		"teh customer staus is pendng",
		"list all active contracts",
		"",
	}

	for _, in := range inputs {
		once, _ := c.Correct(in)
		twice, records := c.Correct(once)
		if twice != once {
			t.Errorf("correction not idempotent for %q: %q != %q", in, once, twice)
		}
		if len(records) != 0 {
			t.Errorf("second pass over %q produced corrections: %+v", once, records)
		}
	}
}

func TestProtectedSpansRoundTrip(t *testing.T) {
	c := newTestCorrector(t)

	tests := []struct {
		input     string
		preserved string
	}{
		{"contact john.doe@company.com about teh contrct", "john.doe@company.com"},
		{"call (555) 123-4567 about faild prts", "(555) 123-4567"},
		{"check contract #987654 staus", "contract #987654"},
		{"emal john.doe@company.com and john.doe@company.com now", "john.doe@company.com"},
	}

	for _, tt := range tests {
		corrected, _ := c.Correct(tt.input)
		if !strings.Contains(corrected, tt.preserved) {
			t.Errorf("protected span %q corrupted in output %q", tt.preserved, corrected)
		}
	}
}

func TestCorrectPreservesSurfaceCase(t *testing.T) {
	c := newTestCorrector(t)

	tests := []struct {
		in   string
		want string
	}{
		{"FAILD", "FAILED"},
		{"Contrct", "Contract"},
		{"prts,", "parts,"},
		{"(staus)", "(status)"},
	}

	for _, tt := range tests {
		got, _, changed := c.CorrectWord(tt.in, "", "")
		if !changed || got != tt.want {
			t.Errorf("CorrectWord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTypoTableContextScoring(t *testing.T) {
	lex := lexicon.NewEmptyBuilder().
		AddValidWord("order", 0.2).
		AddValidWord("odor", 0.2).
		AddTypo("oder", "odor", "order").
		Build()
	c := NewCorrector(lex)

	// Equal frequencies: insertion order keeps "odor" without context, but a
	// payment-cluster neighbor cannot promote either since the empty builder
	// has no clusters. Just pin the tie-break.
	got, _, _ := c.CorrectWord("oder", "", "")
	if got != "odor" {
		t.Errorf("expected insertion-order tie-break to pick %q, got %q", "odor", got)
	}
}

func TestEditDistanceMatch(t *testing.T) {
	c := newTestCorrector(t)

	// "contrakt" is not in any curated table; edit distance should recover it.
	got, strategy, changed := c.CorrectWord("contrakt", "", "")
	if !changed || got != "contract" {
		t.Errorf("CorrectWord(contrakt) = %q (changed=%v), want contract", got, changed)
	}
	if strategy != StrategyEditDistance {
		t.Errorf("expected edit_distance strategy, got %s", strategy)
	}
}

func TestIdentifierTokensUntouched(t *testing.T) {
	c := newTestCorrector(t)

	for _, id := range []string{"987654", "AE125X", "BX-500-2"} {
		got, _, changed := c.CorrectWord(id, "", "")
		if changed {
			t.Errorf("identifier %q was altered to %q", id, got)
		}
	}
}

func TestKeyboardVariant(t *testing.T) {
	tests := []struct {
		word      string
		candidate string
		want      bool
	}{
		{"vat", "cat", true},   // c-v adjacent
		{"shiw", "show", true}, // i-o adjacent
		{"dog", "cat", false},
		{"part", "parts", false}, // inserted 's' is not adjacent to 't'
		{"same", "same", false},
	}

	for _, tt := range tests {
		if got := isKeyboardVariant(tt.word, tt.candidate); got != tt.want {
			t.Errorf("isKeyboardVariant(%q, %q) = %v, want %v", tt.word, tt.candidate, got, tt.want)
		}
	}
}

func TestCorrectLeavesProperNounsAlone(t *testing.T) {
	c := newTestCorrector(t)

	// "Alice" shares a soundex code with "also"; without the Title-case
	// guard the phonetic strategy would rewrite the name.
	in := "show contracts for customer Alice Johnson"
	corrected, records := c.Correct(in)
	if corrected != in {
		t.Errorf("Correct() = %q, want %q unchanged", corrected, in)
	}
	if len(records) != 0 {
		t.Errorf("proper nouns produced corrections: %+v", records)
	}

	in = "list all contracts for Initech Corp"
	corrected, _ = c.Correct(in)
	for _, want := range []string{"Initech", "Corp"} {
		if !strings.Contains(corrected, want) {
			t.Errorf("company name corrupted: %q", corrected)
		}
	}
}

func TestCorrectSentenceInitialStillCorrected(t *testing.T) {
	c := newTestCorrector(t)

	// Title case at the sentence start is ordinary capitalization, so the
	// statistical strategies still run there.
	corrected, records := c.Correct("Contrakt 987654 details")
	if !strings.HasPrefix(corrected, "Contract") {
		t.Errorf("Correct() = %q, want it to start with %q", corrected, "Contract")
	}
	if len(records) != 1 || records[0].Strategy != StrategyEditDistance {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestCorrectEmptyInput(t *testing.T) {
	c := newTestCorrector(t)

	got, records := c.Correct("")
	if got != "" || records != nil {
		t.Errorf("expected empty sentinel, got %q with %d records", got, len(records))
	}
}

func BenchmarkCorrect(b *testing.B) {
	c := newTestCorrector(b)
	input := "show faild prts for contrct 987654 and teh custmer staus"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Correct(input)
	}
}

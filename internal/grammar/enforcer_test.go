package grammar

import (
	"strings"
	"testing"

	"github.com/vinodlearning/contractnlp/internal/lexicon"
)

func newTestEnforcer(t testing.TB) *Enforcer {
	t.Helper()
	return NewEnforcer(lexicon.Default())
}

func TestEnforceScenario(t *testing.T) {
	e := newTestEnforcer(t)

	got := e.Enforce("teh contract are ready")
	want := "The contract is ready."
	if got != want {
		t.Errorf("Enforce() = %q, want %q", got, want)
	}
}

func TestEnforceTables(t *testing.T) {
	e := newTestEnforcer(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"slang", "send it asap", "Send it as soon as possible."},
		{"common_error", "i should of checked", "I should have checked."},
		{"agreement_plural", "the parts is missing", "The parts are missing."},
		{"agreement_pronoun", "they is late", "They are late."},
		{"article_an", "a order was placed", "An order was placed."},
		{"article_a", "an user called", "A user called."},
		{"article_hour", "within a hour", "Within an hour."},
		{"preposition", "this is different than that", "This is different from that."},
		{"verb_form", "the invoice has went out", "The invoice has gone out."},
		{"pattern", "can you please show me the contract", "Show the contract."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Enforce(tt.in); got != tt.want {
				t.Errorf("Enforce(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEnforceProperNouns(t *testing.T) {
	e := newTestEnforcer(t)

	got := e.Enforce("the boeing contract expires in january")
	if !strings.Contains(got, "Boeing") {
		t.Errorf("expected canonical Boeing casing, got %q", got)
	}
	if !strings.Contains(got, "January") {
		t.Errorf("expected canonical January casing, got %q", got)
	}
}

func TestEnforcePunctuationCleanup(t *testing.T) {
	e := newTestEnforcer(t)

	tests := []struct {
		in   string
		want string
	}{
		{"is it ready ??", "Is it ready?"},
		{"done ,  finally", "Done, finally."},
		{"status :  active", "Status: active."},
	}

	for _, tt := range tests {
		if got := e.Enforce(tt.in); got != tt.want {
			t.Errorf("Enforce(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnforceCleanTextStable(t *testing.T) {
	e := newTestEnforcer(t)

	// Already-enforced text must pass through unchanged.
	clean := "Show the failed parts for contract 987654."
	if got := e.Enforce(clean); got != clean {
		t.Errorf("Enforce altered clean text: %q -> %q", clean, got)
	}
}

func TestEnforceEmptyInput(t *testing.T) {
	e := newTestEnforcer(t)

	for _, in := range []string{"", "   "} {
		if got := e.Enforce(in); got != in {
			t.Errorf("Enforce(%q) = %q, want input unchanged", in, got)
		}
	}
}

func TestWantsAn(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"order", true},
		{"invoice", true},
		{"contract", false},
		{"hour", true},
		{"honest", true},
		{"honor", true},
		{"university", false},
		{"euro", false},
		{"one-time", false},
		{"user", false},
	}

	for _, tt := range tests {
		if got := wantsAn(tt.word); got != tt.want {
			t.Errorf("wantsAn(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestSuggestSubjectVerb(t *testing.T) {
	got := Suggest("the contract are ready and the parts is missing")

	if len(got) == 0 {
		t.Fatal("expected suggestions, got none")
	}
	if len(got) > 3 {
		t.Errorf("suggestions must be capped at 3, got %d", len(got))
	}
	for i, s := range got {
		if s.Confidence < 0.7 {
			t.Errorf("suggestion %d below threshold: %+v", i, s)
		}
		if i > 0 && got[i-1].Confidence < s.Confidence {
			t.Errorf("suggestions not sorted descending at %d", i)
		}
	}
}

func TestSuggestDoubleNegative(t *testing.T) {
	got := Suggest("we don't need nothing from that vendor")

	found := false
	for _, s := range got {
		if s.Issue == "double negative" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a double-negative suggestion, got %+v", got)
	}
}

func TestSuggestCleanText(t *testing.T) {
	if got := Suggest("Show the failed parts for contract 987654."); got != nil {
		t.Errorf("expected no suggestions for clean text, got %+v", got)
	}
}

func BenchmarkEnforce(b *testing.B) {
	e := newTestEnforcer(b)
	input := "can you please show me teh contract are ready asap"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Enforce(input)
	}
}

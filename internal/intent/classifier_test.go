package intent

import (
	"testing"

	"github.com/vinodlearning/contractnlp/internal/mocks"
	"github.com/vinodlearning/contractnlp/pkg/models"
)

func newTestClassifier(t testing.TB) *Classifier {
	t.Helper()
	return NewClassifier(&mocks.MockTokenizer{}, &mocks.MockTagger{})
}

func TestClassifyFailedPartsScenario(t *testing.T) {
	c := newTestClassifier(t)

	res, err := c.Classify("show failed parts for contract 987654")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if res.Intent != models.IntentPartFailure {
		t.Errorf("intent = %s, want %s", res.Intent, models.IntentPartFailure)
	}
	if res.Action != models.ActionFailedParts {
		t.Errorf("action = %s, want %s", res.Action, models.ActionFailedParts)
	}
	if res.ContractNumber != "987654" {
		t.Errorf("contract number = %q, want 987654", res.ContractNumber)
	}
	if res.Confidence <= 0.5 {
		t.Errorf("confidence = %v, want > 0.5", res.Confidence)
	}
}

func TestClassifyTable(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		query  string
		intent models.Intent
		action models.Action
	}{
		{"show contract 987654", models.IntentContractLookup, models.ActionContractByNumber},
		{"status of contract 987654", models.IntentContractStatus, models.ActionContractStatus},
		{"is the contract active", models.IntentContractStatus, models.ActionContractStatus},
		{"parts in contract 987654", models.IntentPartLookup, models.ActionPartsByContract},
		{"show part AE125X", models.IntentPartLookup, models.ActionPartByNumber},
		{"specifications for part AE125X", models.IntentPartSpecs, models.ActionPartSpecs},
		{"datasheet for part AE125X", models.IntentPartSpecs, models.ActionPartDatasheet},
		{"payment status for invoice 4411", models.IntentPaymentInquiry, models.ActionPaymentStatus},
		{"help", models.IntentHelp, models.ActionHelp},
		{"how do i renew", models.IntentHelp, models.ActionHelp},
	}

	for _, tt := range tests {
		res, err := c.Classify(tt.query)
		if err != nil {
			t.Fatalf("Classify(%q): %v", tt.query, err)
		}
		if res.Intent != tt.intent {
			t.Errorf("Classify(%q) intent = %s, want %s", tt.query, res.Intent, tt.intent)
		}
		if res.Action != tt.action {
			t.Errorf("Classify(%q) action = %s, want %s", tt.query, res.Action, tt.action)
		}
	}
}

func TestClassifyContractNumberFloor(t *testing.T) {
	c := newTestClassifier(t)

	// One keyword hit out of many tokens would score low; the presence of
	// a six-digit contract number floors the confidence at 0.7.
	res, err := c.Classify("details regarding 987654 would be nice please")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.ContractNumber != "987654" {
		t.Errorf("contract number = %q", res.ContractNumber)
	}
	if res.Confidence < 0.7 {
		t.Errorf("confidence = %v, want >= 0.7", res.Confidence)
	}
}

func TestClassifyKeywordWithTrailingPunctuation(t *testing.T) {
	c := newTestClassifier(t)

	// Sentence-final punctuation stays attached to the last token; the
	// keyword lookup must still see "status".
	res, err := c.Classify("what about the status.")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Intent != models.IntentContractStatus {
		t.Errorf("intent = %s, want %s", res.Intent, models.IntentContractStatus)
	}
	if res.Action != models.ActionContractStatus {
		t.Errorf("action = %s, want %s", res.Action, models.ActionContractStatus)
	}
	if res.Confidence <= 0 {
		t.Errorf("confidence = %v, want > 0", res.Confidence)
	}
}

func TestClassifyUnknown(t *testing.T) {
	c := newTestClassifier(t)

	res, err := c.Classify("completely unrelated gibberish words")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Intent != models.IntentUnknown {
		t.Errorf("intent = %s, want UNKNOWN", res.Intent)
	}
	if res.Confidence != 0.0 {
		t.Errorf("confidence = %v, want 0.0", res.Confidence)
	}
	if res.Action != models.ActionGeneralSearch {
		t.Errorf("action = %s, want %s", res.Action, models.ActionGeneralSearch)
	}
}

func TestClassifyEmptyQuery(t *testing.T) {
	c := newTestClassifier(t)

	res, err := c.Classify("   ")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Intent != models.IntentUnknown || res.Confidence != 0.0 {
		t.Errorf("empty query = %+v, want UNKNOWN/0.0", res)
	}
}

func TestClassifyTieBreakFirstRegistered(t *testing.T) {
	c := newTestClassifier(t)

	// "contract" hits CONTRACT_LOOKUP and "part" hits PART_LOOKUP, one
	// each. The earlier-registered intent must win the tie.
	res, err := c.Classify("contract part")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Intent != models.IntentContractLookup {
		t.Errorf("tie broke to %s, want %s", res.Intent, models.IntentContractLookup)
	}
}

func TestClassifyCustomerFromProperNouns(t *testing.T) {
	c := newTestClassifier(t)

	res, err := c.Classify("show contracts for customer Acme Corporation")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Intent != models.IntentContractLookup {
		t.Errorf("intent = %s", res.Intent)
	}
	if res.CustomerName != "Acme Corporation" {
		t.Errorf("customer name = %q, want %q", res.CustomerName, "Acme Corporation")
	}
	if res.Action != models.ActionContractByCustomer {
		t.Errorf("action = %s, want %s", res.Action, models.ActionContractByCustomer)
	}
}

func TestClassifyWithContextCarryOver(t *testing.T) {
	c := newTestClassifier(t)

	previous := Result{
		Intent:         models.IntentContractLookup,
		Action:         models.ActionContractByNumber,
		Confidence:     0.85,
		ContractNumber: "987654",
	}

	res, err := c.ClassifyWithContext("what about that one", previous)
	if err != nil {
		t.Fatalf("ClassifyWithContext: %v", err)
	}
	if res.ContractNumber != "987654" {
		t.Errorf("carried contract number = %q, want 987654", res.ContractNumber)
	}
	if res.Intent != models.IntentContractLookup {
		t.Errorf("carried intent = %s", res.Intent)
	}
	if res.Confidence != 0.2 {
		t.Errorf("confidence = %v, want 0.2 after bonus", res.Confidence)
	}
}

func TestClassifyWithContextNoCarryOverWhenConfident(t *testing.T) {
	c := newTestClassifier(t)

	previous := Result{
		Intent:         models.IntentPaymentInquiry,
		Confidence:     0.9,
		ContractNumber: "111111",
	}

	res, err := c.ClassifyWithContext("show failed parts for contract 987654", previous)
	if err != nil {
		t.Fatalf("ClassifyWithContext: %v", err)
	}
	if res.ContractNumber != "987654" {
		t.Errorf("contract number overwritten: %q", res.ContractNumber)
	}
	if res.Intent != models.IntentPartFailure {
		t.Errorf("intent = %s, want %s", res.Intent, models.IntentPartFailure)
	}
}

func TestIsPartNumber(t *testing.T) {
	tests := []struct {
		tok  string
		want bool
	}{
		{"AE125X", true},
		{"BX-500-2", true},
		{"987654", false}, // contract-number shaped
		{"show", false},
		{"the", false},
		{"a1", false}, // too short
	}

	for _, tt := range tests {
		if got := isPartNumber(tt.tok); got != tt.want {
			t.Errorf("isPartNumber(%q) = %v, want %v", tt.tok, got, tt.want)
		}
	}
}

func BenchmarkClassify(b *testing.B) {
	c := newTestClassifier(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Classify("show failed parts for contract 987654")
	}
}

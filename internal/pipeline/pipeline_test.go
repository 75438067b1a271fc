package pipeline

import (
	"strings"
	"testing"

	"github.com/vinodlearning/contractnlp/internal/config"
	"github.com/vinodlearning/contractnlp/internal/lexicon"
	"github.com/vinodlearning/contractnlp/pkg/models"
)

func newTestPipeline() *Pipeline {
	return New(config.Default(), lexicon.Default(), nil, nil)
}

func TestParseFullTrip(t *testing.T) {
	p := newTestPipeline()

	pq, err := p.Parse("show faild prts for contrct 987654")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	for _, want := range []string{"failed", "parts", "contract"} {
		if !strings.Contains(pq.Corrected, want) {
			t.Errorf("Corrected = %q, want it to contain %q", pq.Corrected, want)
		}
	}
	if len(pq.Corrections) != 3 {
		t.Errorf("Corrections = %d, want 3", len(pq.Corrections))
	}
	if pq.ContractNumber != "987654" {
		t.Errorf("ContractNumber = %q, want 987654", pq.ContractNumber)
	}
	if pq.Status != "failed" {
		t.Errorf("Status = %q, want failed", pq.Status)
	}
	if pq.Intent != models.IntentPartFailure {
		t.Errorf("Intent = %v, want %v", pq.Intent, models.IntentPartFailure)
	}
	if pq.Action != models.ActionFailedParts {
		t.Errorf("Action = %v, want %v", pq.Action, models.ActionFailedParts)
	}
	if pq.Confidence < 0.7 || pq.Confidence > 1 {
		t.Errorf("Confidence = %v, want in [0.7, 1]", pq.Confidence)
	}
}

func TestParseCustomerNameExtraction(t *testing.T) {
	p := newTestPipeline()

	pq, err := p.Parse("show contracts for customer Alice Johnson")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if pq.CustomerName != "Alice Johnson" {
		t.Errorf("CustomerName = %q, want %q", pq.CustomerName, "Alice Johnson")
	}
	if !pq.HasEntity(models.EntityPersonName) {
		t.Errorf("expected a person entity, got %+v", pq.Entities)
	}
	if pq.Intent != models.IntentContractLookup {
		t.Errorf("Intent = %v, want %v", pq.Intent, models.IntentContractLookup)
	}
	if pq.Action != models.ActionContractByCustomer {
		t.Errorf("Action = %v, want %v", pq.Action, models.ActionContractByCustomer)
	}
}

func TestParseCompanyNameExtraction(t *testing.T) {
	p := newTestPipeline()

	pq, err := p.Parse("show contracts for Initech Corp")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !strings.HasPrefix(pq.CustomerName, "Initech Corp") {
		t.Errorf("CustomerName = %q, want Initech Corp", pq.CustomerName)
	}
	if !pq.HasEntity(models.EntityCompanyName) {
		t.Errorf("expected a company entity, got %+v", pq.Entities)
	}
	if pq.Action != models.ActionContractByCustomer {
		t.Errorf("Action = %v, want %v", pq.Action, models.ActionContractByCustomer)
	}
}

func TestParseEmptyQuery(t *testing.T) {
	p := newTestPipeline()

	pq, err := p.Parse("   ")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if pq.Intent != models.IntentUnknown {
		t.Errorf("Intent = %v, want %v", pq.Intent, models.IntentUnknown)
	}
	if pq.Message != "Empty query" {
		t.Errorf("Message = %q, want %q", pq.Message, "Empty query")
	}
	if pq.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", pq.Confidence)
	}
}

func TestParseWithContextCarryOver(t *testing.T) {
	p := newTestPipeline()

	first, err := p.Parse("show contract 987654")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if first.ContractNumber != "987654" {
		t.Fatalf("first ContractNumber = %q, want 987654", first.ContractNumber)
	}
	if first.Confidence <= 0.7 {
		t.Fatalf("first Confidence = %v, want > 0.7 for carry-over", first.Confidence)
	}

	second, err := p.ParseWithContext("what about the status", first)
	if err != nil {
		t.Fatalf("ParseWithContext: %v", err)
	}
	if second.ContractNumber != "987654" {
		t.Errorf("carried ContractNumber = %q, want 987654", second.ContractNumber)
	}
	if second.Intent != models.IntentContractStatus {
		t.Errorf("Intent = %v, want %v", second.Intent, models.IntentContractStatus)
	}
	if second.Action != models.ActionContractStatus {
		t.Errorf("Action = %v, want %v", second.Action, models.ActionContractStatus)
	}
}

func TestParseWithContextWeakPrevious(t *testing.T) {
	p := newTestPipeline()

	weak := &models.ParsedQuery{
		Intent:         models.IntentContractLookup,
		ContractNumber: "123456",
		Confidence:     0.3,
	}
	pq, err := p.ParseWithContext("what about the status", weak)
	if err != nil {
		t.Fatalf("ParseWithContext: %v", err)
	}
	if pq.ContractNumber != "" {
		t.Errorf("ContractNumber = %q, want empty when previous was weak", pq.ContractNumber)
	}
}

func TestParseEntityPopulation(t *testing.T) {
	p := newTestPipeline()

	pq, err := p.Parse("contact john.doe@company.com or call (555) 123-4567")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if e, ok := pq.EntityOfType(models.EntityEmail); !ok || e.Value != "john.doe@company.com" {
		t.Errorf("email entity = %+v, ok=%v", e, ok)
	}
	if !pq.HasEntity(models.EntityPhone) {
		t.Error("expected a phone entity")
	}
}

func TestParseConfidenceBounds(t *testing.T) {
	p := newTestPipeline()

	for _, q := range []string{
		"zzzz qqqq",
		"!!!???",
		"show contract 987654 for boeing with $1,500.50 due by 2025-12-31",
	} {
		pq, err := p.Parse(q)
		if err != nil {
			t.Fatalf("Parse(%q): %v", q, err)
		}
		if pq.Confidence < 0 || pq.Confidence > 1 {
			t.Errorf("Parse(%q) confidence = %v, want in [0, 1]", q, pq.Confidence)
		}
	}
}

func TestParseUnknownIntent(t *testing.T) {
	p := newTestPipeline()

	pq, err := p.Parse("zzzz qqqq")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if pq.Intent != models.IntentUnknown {
		t.Errorf("Intent = %v, want %v", pq.Intent, models.IntentUnknown)
	}
	if pq.Action != models.ActionGeneralSearch {
		t.Errorf("Action = %v, want %v", pq.Action, models.ActionGeneralSearch)
	}
}

func BenchmarkParse(b *testing.B) {
	p := newTestPipeline()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Parse("show faild prts for contrct 987654")
	}
}

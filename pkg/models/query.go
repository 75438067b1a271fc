package models

import "fmt"

// EntityType classifies an extracted entity span.
type EntityType string

const (
	EntityContractNumber EntityType = "CONTRACT_NUMBER"
	EntityPartNumber     EntityType = "PART_NUMBER"
	EntityCustomerID     EntityType = "CUSTOMER_ID"
	EntityAccountNumber  EntityType = "ACCOUNT_NUMBER"
	EntityInvoiceNumber  EntityType = "INVOICE_NUMBER"
	EntityPaymentID      EntityType = "PAYMENT_ID"
	EntityAmount         EntityType = "AMOUNT"
	EntityDate           EntityType = "DATE"
	EntityEmail          EntityType = "EMAIL"
	EntityPhone          EntityType = "PHONE"
	EntityPersonName     EntityType = "PERSON_NAME"
	EntityCompanyName    EntityType = "COMPANY_NAME"
	EntityStatus         EntityType = "STATUS"
	EntityPriority       EntityType = "PRIORITY"
	EntityDepartment     EntityType = "DEPARTMENT"
	EntityCurrency       EntityType = "CURRENCY"
	EntityPercentage     EntityType = "PERCENTAGE"
	EntityTime           EntityType = "TIME"
	EntityURL            EntityType = "URL"
	EntityIPAddress      EntityType = "IP_ADDRESS"
	EntityCreditCard     EntityType = "CREDIT_CARD"
	EntitySSN            EntityType = "SSN"
	EntityTaxID          EntityType = "TAX_ID"
	EntityUnknown        EntityType = "UNKNOWN"
)

// Intent is the caller's high-level goal inferred from a query.
type Intent string

const (
	IntentContractLookup Intent = "CONTRACT_LOOKUP"
	IntentContractStatus Intent = "CONTRACT_STATUS"
	IntentPartLookup     Intent = "PART_LOOKUP"
	IntentPartFailure    Intent = "PART_FAILURE"
	IntentPartSpecs      Intent = "PART_SPECS"
	IntentCustomerLookup Intent = "CUSTOMER_LOOKUP"
	IntentPaymentInquiry Intent = "PAYMENT_INQUIRY"
	IntentHelp           Intent = "HELP"
	IntentUnknown        Intent = "UNKNOWN"
)

// Action is the concrete operation derived from an intent plus the
// entities present in the query.
type Action string

const (
	ActionContractByNumber   Action = "CONTRACT_BY_NUMBER"
	ActionContractByCustomer Action = "CONTRACT_BY_CUSTOMER"
	ActionContractStatus     Action = "CONTRACT_STATUS_CHECK"
	ActionPartByNumber       Action = "PART_BY_NUMBER"
	ActionPartsByContract    Action = "PARTS_BY_CONTRACT"
	ActionFailedParts        Action = "FAILED_PARTS_REPORT"
	ActionPartSpecs          Action = "PART_SPECIFICATIONS"
	ActionPartDatasheet      Action = "PART_DATASHEET"
	ActionCustomerByName     Action = "CUSTOMER_BY_NAME"
	ActionPaymentStatus      Action = "PAYMENT_STATUS_CHECK"
	ActionHelp               Action = "SHOW_HELP"
	ActionGeneralSearch      Action = "GENERAL_SEARCH"
)

// CorrectionRecord documents a single typo correction for explainability.
// Records are append-only and never mutated after creation.
type CorrectionRecord struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
	Strategy  string `json:"strategy"` // dictionary, typo_table, abbreviation, bigram, edit_distance, phonetic, keyboard
}

// Entity is a typed span of text with business meaning. Offsets are byte
// offsets into the analyzed text with Start < End.
type Entity struct {
	Type       EntityType `json:"type"`
	Value      string     `json:"value"`    // canonical value (prefixes stripped)
	Original   string     `json:"original"` // surface text as matched
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Confidence float64    `json:"confidence"`
	Context    string     `json:"context,omitempty"` // surrounding window used for scoring
}

// EntityResolution is the result of a full entity extraction pass.
type EntityResolution struct {
	Entities   []Entity `json:"entities"`
	Confidence float64  `json:"confidence"`
	Summary    string   `json:"summary"`
}

// NormalizationResult carries the normalized query plus the ordered log of
// transformations that produced it.
type NormalizationResult struct {
	Original         string   `json:"original"`
	Normalized       string   `json:"normalized"`
	Confidence       float64  `json:"confidence"`
	Message          string   `json:"message,omitempty"`
	Transformations  []string `json:"transformations"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
}

// Classification is a single intent decision for a query.
type Classification struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// GrammarSuggestion flags a probable grammar issue without rewriting it.
type GrammarSuggestion struct {
	Issue      string  `json:"issue"`
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// ParsedQuery is the aggregate pipeline output handed to downstream
// business logic. Created fresh per query, never persisted by the pipeline.
type ParsedQuery struct {
	Original        string             `json:"original"`
	Corrected       string             `json:"corrected"`
	Normalized      string             `json:"normalized"`
	Intent          Intent             `json:"intent"`
	Action          Action             `json:"action"`
	Entities        []Entity           `json:"entities"`
	ContractNumber  string             `json:"contract_number,omitempty"`
	PartNumber      string             `json:"part_number,omitempty"`
	CustomerName    string             `json:"customer_name,omitempty"`
	AccountNumber   string             `json:"account_number,omitempty"`
	Status          string             `json:"status,omitempty"`
	Confidence      float64            `json:"confidence"`
	Corrections     []CorrectionRecord `json:"corrections"`
	Transformations []string           `json:"transformations"`
	Message         string             `json:"message,omitempty"`
}

// ParseLogEntry is one persisted record of a past parse.
type ParseLogEntry struct {
	ID         int64   `json:"id"`
	Query      string  `json:"query"`
	Intent     Intent  `json:"intent"`
	Action     Action  `json:"action"`
	Confidence float64 `json:"confidence"`
	DurationMs int64   `json:"duration_ms"`
	CreatedAt  string  `json:"created_at"`
}

// EntityOfType returns the first entity of the given type, if any.
func (p *ParsedQuery) EntityOfType(t EntityType) (Entity, bool) {
	for _, e := range p.Entities {
		if e.Type == t {
			return e, true
		}
	}
	return Entity{}, false
}

// HasEntity reports whether an entity of the given type was extracted.
func (p *ParsedQuery) HasEntity(t EntityType) bool {
	_, ok := p.EntityOfType(t)
	return ok
}

// Summary returns a one-line human-readable description of the parse.
func (p *ParsedQuery) Summary() string {
	return fmt.Sprintf("intent=%s action=%s entities=%d confidence=%.2f",
		p.Intent, p.Action, len(p.Entities), p.Confidence)
}

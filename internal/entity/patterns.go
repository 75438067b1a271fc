package entity

import (
	"regexp"

	"github.com/vinodlearning/contractnlp/pkg/models"
)

// pattern couples an entity type with its matcher. group selects the
// submatch holding the canonical value (0 keeps the full match); base is the
// pre-context confidence of a raw regex hit.
type pattern struct {
	typ   models.EntityType
	re    *regexp.Regexp
	group int
	base  float64
}

// patterns are tried in order. More specific shapes come first so the
// overlap reconciliation rarely has to arbitrate between regex hits.
var patterns = []pattern{
	{typ: models.EntityContractNumber, re: regexp.MustCompile(`(?i)\b(?:contract|agreement)\s*#?\s*(\d{4,10})\b`), group: 1, base: 0.9},
	{typ: models.EntityContractNumber, re: regexp.MustCompile(`\b\d{6}\b`), base: 0.7},
	{typ: models.EntityAccountNumber, re: regexp.MustCompile(`(?i)\b(?:account|acct)\s*#?\s*(\d{4,12})\b`), group: 1, base: 0.85},
	{typ: models.EntityInvoiceNumber, re: regexp.MustCompile(`(?i)\binv(?:oice)?\s*#?\s*([A-Z0-9][A-Z0-9-]{2,14})\b`), group: 1, base: 0.85},
	{typ: models.EntityPaymentID, re: regexp.MustCompile(`(?i)\bpayment\s*(?:id|#)\s*:?\s*([A-Z0-9][A-Z0-9-]{2,14})\b`), group: 1, base: 0.85},
	{typ: models.EntityCustomerID, re: regexp.MustCompile(`(?i)\bcustomer\s*(?:id|#)\s*:?\s*([A-Z0-9][A-Z0-9-]{2,11})\b`), group: 1, base: 0.85},
	{typ: models.EntityPartNumber, re: regexp.MustCompile(`\b[A-Z]{2,4}\d{2,6}[A-Z]?\b`), base: 0.75},
	{typ: models.EntityPartNumber, re: regexp.MustCompile(`\b[A-Z]{1,3}-\d{2,4}(?:-\d{1,3})?\b`), base: 0.75},
	{typ: models.EntityEmail, re: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), base: 0.95},
	{typ: models.EntityPhone, re: regexp.MustCompile(`(\(\d{3}\)\s?|\b\d{3}[-.\s])\d{3}[-.\s]?\d{4}\b`), base: 0.9},
	{typ: models.EntityURL, re: regexp.MustCompile(`\bhttps?://[^\s]+`), base: 0.9},
	{typ: models.EntityIPAddress, re: regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`), base: 0.85},
	{typ: models.EntitySSN, re: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), base: 0.9},
	{typ: models.EntityTaxID, re: regexp.MustCompile(`\b\d{2}-\d{7}\b`), base: 0.85},
	{typ: models.EntityCreditCard, re: regexp.MustCompile(`\b(?:\d{4}[-\s]){3}\d{4}\b`), base: 0.9},
	{typ: models.EntityAmount, re: regexp.MustCompile(`[$€£]\s?\d+(?:,\d{3})*(?:\.\d{1,2})?`), base: 0.85},
	{typ: models.EntityAmount, re: regexp.MustCompile(`(?i)\b(\d+(?:,\d{3})*(?:\.\d{1,2})?)\s?(?:dollars|usd|eur|gbp)\b`), base: 0.8},
	{typ: models.EntityPercentage, re: regexp.MustCompile(`\b\d+(?:\.\d+)?\s?%`), base: 0.85},
	{typ: models.EntityDate, re: regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`), base: 0.85},
	{typ: models.EntityDate, re: regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`), base: 0.8},
	{typ: models.EntityDate, re: regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:,)?\s+\d{4}\b`), base: 0.85},
	{typ: models.EntityTime, re: regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(?::\d{2})?\s?(?:am|pm)?\b`), base: 0.8},
	{typ: models.EntityCompanyName, re: regexp.MustCompile(`\b[A-Z][A-Za-z]+(?:\s[A-Z][A-Za-z]+)?\s(?:Corp|Corporation|Inc|LLC|Ltd)\.?\b`), base: 0.85},
	{typ: models.EntityPersonName, re: regexp.MustCompile(`\b[A-Z][a-z]+\s[A-Z][a-z]+\b`), base: 0.6},
}

// specificity ranks entity types for overlap tie-breaks. Higher wins.
var specificity = map[models.EntityType]int{
	models.EntityContractNumber: 90,
	models.EntityPartNumber:     89,
	models.EntityCustomerID:     88,
	models.EntityAccountNumber:  87,
	models.EntityInvoiceNumber:  86,
	models.EntityPaymentID:      85,
	models.EntityEmail:          80,
	models.EntityPhone:          79,
	models.EntityURL:            78,
	models.EntityIPAddress:      77,
	models.EntityDate:           70,
	models.EntityAmount:         69,
	models.EntityPercentage:     68,
	models.EntityTime:           67,
	models.EntityPersonName:     60,
	models.EntityCompanyName:    59,
	models.EntityStatus:         50,
	models.EntityPriority:       49,
	models.EntityDepartment:     48,
	models.EntityCurrency:       40,
	models.EntityCreditCard:     30,
	models.EntitySSN:            29,
	models.EntityTaxID:          28,
	models.EntityUnknown:        0,
}

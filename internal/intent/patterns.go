package intent

import (
	"regexp"

	"github.com/vinodlearning/contractnlp/pkg/models"
)

// contextPattern is a full canonical phrase shape. The first matching
// pattern fixes the intent before keyword scoring runs.
type contextPattern struct {
	re     *regexp.Regexp
	intent models.Intent
}

func buildContextPatterns() []contextPattern {
	return []contextPattern{
		{re: regexp.MustCompile(`\b(failed|failing|broken|defective)\s+parts?\b`), intent: models.IntentPartFailure},
		{re: regexp.MustCompile(`\bparts?\s+(that\s+)?(failed|failures?)\b`), intent: models.IntentPartFailure},
		{re: regexp.MustCompile(`\bstatus\s+(of|for)\s+(the\s+)?contract\b`), intent: models.IntentContractStatus},
		{re: regexp.MustCompile(`\bcontract\s+\d{6}\s+status\b`), intent: models.IntentContractStatus},
		{re: regexp.MustCompile(`\bis\s+(the\s+)?contract\s+(\d{6}\s+)?(active|expired|valid)\b`), intent: models.IntentContractStatus},
		{re: regexp.MustCompile(`\b(specs?|specifications|datasheet)\s+(of|for)\b`), intent: models.IntentPartSpecs},
		{re: regexp.MustCompile(`\bparts?\s+(in|for|of|under)\s+contract\b`), intent: models.IntentPartLookup},
		{re: regexp.MustCompile(`\bcontracts?\s+(for|of|with)\s+(customer|client|account)\b`), intent: models.IntentContractLookup},
		{re: regexp.MustCompile(`\bpayment\s+(status|history)\b`), intent: models.IntentPaymentInquiry},
		{re: regexp.MustCompile(`\bwho\s+is\s+(the\s+)?customer\b`), intent: models.IntentCustomerLookup},
		{re: regexp.MustCompile(`^help\b`), intent: models.IntentHelp},
		{re: regexp.MustCompile(`\bhow\s+do\s+i\b`), intent: models.IntentHelp},
	}
}

// keywordEntry preserves registration order; the slice position is the
// tie-break rank.
type keywordEntry struct {
	intent models.Intent
	words  []string
}

func buildKeywordSets() []keywordEntry {
	return []keywordEntry{
		{intent: models.IntentContractLookup, words: []string{
			"contract", "contracts", "agreement", "agreements", "details",
			"lookup",
		}},
		{intent: models.IntentContractStatus, words: []string{
			"status", "active", "expired", "expire", "expires", "expiring",
			"valid", "renewal",
		}},
		{intent: models.IntentPartLookup, words: []string{
			"part", "parts", "component", "components", "item", "items",
		}},
		{intent: models.IntentPartFailure, words: []string{
			"failed", "failure", "failures", "failing", "broken",
			"defective", "faulty", "error",
		}},
		{intent: models.IntentPartSpecs, words: []string{
			"specifications", "specification", "specs", "datasheet",
			"dimensions", "material",
		}},
		{intent: models.IntentCustomerLookup, words: []string{
			"customer", "customers", "client", "clients", "account",
			"vendor", "supplier",
		}},
		{intent: models.IntentPaymentInquiry, words: []string{
			"payment", "payments", "paid", "invoice", "invoices", "due",
			"balance", "owed",
		}},
		{intent: models.IntentHelp, words: []string{
			"help", "usage", "guide", "explain",
		}},
	}
}

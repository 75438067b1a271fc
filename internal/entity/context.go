package entity

import (
	"strings"

	"github.com/vinodlearning/contractnlp/pkg/models"
)

// contextKeywords lists, per type, the cue words whose presence near an
// entity raises its context confidence by the paired increment.
var contextKeywords = map[models.EntityType][]contextCue{
	models.EntityContractNumber: {{words: []string{"contract", "agreement"}, boost: 0.2}, {words: []string{"number", "#"}, boost: 0.1}},
	models.EntityPartNumber:     {{words: []string{"part", "component", "item"}, boost: 0.2}, {words: []string{"failed", "spec"}, boost: 0.1}},
	models.EntityAccountNumber:  {{words: []string{"account", "acct"}, boost: 0.2}},
	models.EntityInvoiceNumber:  {{words: []string{"invoice", "bill"}, boost: 0.2}},
	models.EntityPaymentID:      {{words: []string{"payment", "paid", "transaction"}, boost: 0.2}},
	models.EntityCustomerID:     {{words: []string{"customer", "client"}, boost: 0.2}},
	models.EntityEmail:          {{words: []string{"email", "contact", "send", "mail"}, boost: 0.2}},
	models.EntityPhone:          {{words: []string{"call", "phone", "dial", "contact"}, boost: 0.2}},
	models.EntityAmount:         {{words: []string{"pay", "cost", "price", "amount", "total", "due"}, boost: 0.2}},
	models.EntityDate:           {{words: []string{"date", "due", "by", "expires", "expired", "until", "before", "after", "on"}, boost: 0.2}},
	models.EntityPersonName:     {{words: []string{"customer", "contact", "manager", "rep"}, boost: 0.2}},
	models.EntityCompanyName:    {{words: []string{"customer", "vendor", "supplier", "company"}, boost: 0.2}},
	models.EntityStatus:         {{words: []string{"status", "state", "currently", "is", "are"}, boost: 0.2}},
	models.EntityPriority:       {{words: []string{"priority", "urgent", "escalate"}, boost: 0.2}},
	models.EntityDepartment:     {{words: []string{"department", "dept", "team"}, boost: 0.2}},
	models.EntityCurrency:       {{words: []string{"pay", "amount", "price", "currency"}, boost: 0.2}},
}

type contextCue struct {
	words []string
	boost float64
}

var businessCues = []string{"contract", "part", "customer", "payment", "invoice", "order", "vendor", "account"}

// applyContext inspects the window around a candidate, recombines its
// confidence with the window's context score and records the window on the
// entity for explainability.
func (r *Resolver) applyContext(text string, c *candidate) {
	start := c.Start - contextWindow
	if start < 0 {
		start = 0
	}
	end := c.End + contextWindow
	if end > len(text) {
		end = len(text)
	}
	window := strings.ToLower(text[start:c.Start] + " " + text[c.End:end])

	ctx := 0.5
	for _, cue := range contextKeywords[c.Type] {
		for _, w := range cue.words {
			if strings.Contains(window, w) {
				ctx += cue.boost
				break
			}
		}
	}
	for _, w := range businessCues {
		if strings.Contains(window, w) {
			ctx += 0.1
			break
		}
	}
	if ctx > 1 {
		ctx = 1
	}

	c.Context = strings.TrimSpace(window)
	c.ctxFactor = ctx
	c.Confidence = (c.Confidence + ctx) / 2
}

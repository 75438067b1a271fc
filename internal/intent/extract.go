package intent

import (
	"regexp"
	"strings"

	"github.com/vinodlearning/contractnlp/pkg/models"
)

var (
	contractNumberShape = regexp.MustCompile(`^\d{6}$`)
	partNumberShape     = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{2,}$`)
)

// partStoplist excludes common English tokens that fit the loose
// part-number shape.
var partStoplist = map[string]bool{
	"the": true, "and": true, "for": true, "all": true, "any": true,
	"show": true, "find": true, "get": true, "list": true, "what": true,
	"are": true, "was": true, "were": true, "has": true, "have": true,
	"with": true, "from": true, "this": true, "that": true, "status": true,
	"contract": true, "contracts": true, "part": true, "parts": true,
	"customer": true, "payment": true, "failed": true, "active": true,
	"details": true, "number": true, "please": true, "about": true,
}

// extractIdentifiers pulls contract numbers, part-number-shaped tokens and
// proper nouns out of the tagged token stream.
func extractIdentifiers(tokens, tags []string, res *Result) {
	var properRun []string
	for i, tok := range tokens {
		clean := strings.Trim(tok, ".,!?;:()\"'")
		if clean == "" {
			continue
		}

		if contractNumberShape.MatchString(clean) {
			if res.ContractNumber == "" {
				res.ContractNumber = clean
			}
		} else if isPartNumber(clean) {
			if res.PartNumber == "" {
				res.PartNumber = clean
			}
		}

		if strings.HasPrefix(tags[i], "NNP") {
			properRun = append(properRun, clean)
			res.ProperNouns = append(res.ProperNouns, clean)
			continue
		}
		if len(properRun) > 0 && res.CustomerName == "" {
			res.CustomerName = strings.Join(properRun, " ")
		}
		properRun = properRun[:0]
	}
	if len(properRun) > 0 && res.CustomerName == "" {
		res.CustomerName = strings.Join(properRun, " ")
	}
}

// isPartNumber accepts 3+ character alphanumeric tokens that mix letters
// and digits (or carry dashes) and are not common English words.
func isPartNumber(tok string) bool {
	if !partNumberShape.MatchString(tok) {
		return false
	}
	if partStoplist[strings.ToLower(tok)] {
		return false
	}
	hasLetter, hasDigit := false, false
	for i := 0; i < len(tok); i++ {
		switch {
		case tok[i] >= '0' && tok[i] <= '9':
			hasDigit = true
		case (tok[i] >= 'a' && tok[i] <= 'z') || (tok[i] >= 'A' && tok[i] <= 'Z'):
			hasLetter = true
		}
	}
	return hasLetter && hasDigit
}

// decideAction maps (intent, extracted identifiers, literal cues) onto the
// concrete action the business layer should run.
func decideAction(res Result, lower string) models.Action {
	switch res.Intent {
	case models.IntentContractLookup:
		switch {
		case res.ContractNumber != "":
			return models.ActionContractByNumber
		case res.CustomerName != "":
			return models.ActionContractByCustomer
		default:
			return models.ActionGeneralSearch
		}
	case models.IntentContractStatus:
		return models.ActionContractStatus
	case models.IntentPartLookup:
		switch {
		case strings.Contains(lower, "specifications"):
			return models.ActionPartSpecs
		case strings.Contains(lower, "datasheet"):
			return models.ActionPartDatasheet
		case res.PartNumber != "":
			return models.ActionPartByNumber
		case res.ContractNumber != "":
			return models.ActionPartsByContract
		default:
			return models.ActionGeneralSearch
		}
	case models.IntentPartFailure:
		return models.ActionFailedParts
	case models.IntentPartSpecs:
		if strings.Contains(lower, "datasheet") {
			return models.ActionPartDatasheet
		}
		return models.ActionPartSpecs
	case models.IntentCustomerLookup:
		return models.ActionCustomerByName
	case models.IntentPaymentInquiry:
		return models.ActionPaymentStatus
	case models.IntentHelp:
		return models.ActionHelp
	default:
		return models.ActionGeneralSearch
	}
}

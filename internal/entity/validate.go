package entity

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vinodlearning/contractnlp/pkg/models"
)

var (
	emailCheck = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	nameCheck  = regexp.MustCompile(`^[A-Za-z][A-Za-z .'-]*$`)
	idCheck    = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
)

// dateLayouts are the accepted date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"01/02/06",
	"January 2, 2006",
	"January 2 2006",
}

// validFormat runs the type-specific syntactic check on a canonical value.
func validFormat(typ models.EntityType, value string) bool {
	switch typ {
	case models.EntityContractNumber, models.EntityAccountNumber:
		return allDigits(value) && len(value) >= 4
	case models.EntityPartNumber, models.EntityCustomerID,
		models.EntityInvoiceNumber, models.EntityPaymentID:
		return idCheck.MatchString(value)
	case models.EntityEmail:
		return emailCheck.MatchString(value)
	case models.EntityPhone:
		n := digitCount(value)
		return n == 10 || n == 11
	case models.EntityDate:
		return parseableDate(value)
	case models.EntityAmount:
		return parseableAmount(value)
	case models.EntityPercentage:
		return parseableAmount(strings.TrimSuffix(strings.TrimSpace(strings.TrimSuffix(value, "%")), " "))
	case models.EntityURL:
		u, err := url.Parse(value)
		return err == nil && u.Scheme != "" && u.Host != ""
	case models.EntityIPAddress:
		return validIP(value)
	case models.EntityCreditCard:
		return digitCount(value) == 16
	case models.EntitySSN:
		return digitCount(value) == 9
	case models.EntityTaxID:
		return digitCount(value) == 9
	case models.EntityPersonName, models.EntityCompanyName:
		return nameCheck.MatchString(value)
	case models.EntityStatus, models.EntityPriority,
		models.EntityDepartment, models.EntityCurrency:
		return value != ""
	case models.EntityTime:
		return strings.Contains(value, ":")
	}
	return false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func digitCount(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}

func parseableDate(value string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

// parseableAmount accepts a non-negative finite number with at most one
// decimal point, ignoring currency symbols, thousands separators and unit
// words.
func parseableAmount(value string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	for _, junk := range []string{"$", "€", "£", ",", "dollars", "usd", "eur", "gbp"} {
		cleaned = strings.ReplaceAll(cleaned, junk, "")
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || strings.Count(cleaned, ".") > 1 {
		return false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	return err == nil && f >= 0
}

func validIP(value string) bool {
	parts := strings.Split(value, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 || (len(p) > 1 && p[0] == '0') {
			return false
		}
	}
	return true
}

package typo

import "strings"

// PreserveCase reapplies the case pattern of the original surface form to a
// replacement word: ALL-CAPS stays all caps, lowercase stays lowercase,
// Title-case keeps its capital, and mixed case falls back to per-character
// mapping.
func PreserveCase(original, replacement string) string {
	if original == "" || replacement == "" {
		return replacement
	}

	switch casePattern(original) {
	case caseUpper:
		return strings.ToUpper(replacement)
	case caseLower:
		return strings.ToLower(replacement)
	case caseTitle:
		return strings.ToUpper(replacement[:1]) + strings.ToLower(replacement[1:])
	default:
		return mapCaseByPosition(original, replacement)
	}
}

type caseClass int

const (
	caseLower caseClass = iota
	caseUpper
	caseTitle
	caseMixed
)

func casePattern(s string) caseClass {
	hasUpper, hasLower := false, false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= 'A' && s[i] <= 'Z':
			hasUpper = true
		case s[i] >= 'a' && s[i] <= 'z':
			hasLower = true
		}
	}
	switch {
	case hasUpper && !hasLower:
		return caseUpper
	case hasLower && !hasUpper:
		return caseLower
	case s[0] >= 'A' && s[0] <= 'Z' && strings.ToLower(s[1:]) == s[1:]:
		return caseTitle
	default:
		return caseMixed
	}
}

// mapCaseByPosition copies the per-character case of original onto the
// replacement; positions beyond the original keep the original's last case.
func mapCaseByPosition(original, replacement string) string {
	out := []byte(strings.ToLower(replacement))
	lastUpper := false
	for i := 0; i < len(out); i++ {
		upper := lastUpper
		if i < len(original) {
			upper = original[i] >= 'A' && original[i] <= 'Z'
			lastUpper = upper
		}
		if upper && out[i] >= 'a' && out[i] <= 'z' {
			out[i] -= 'a' - 'A'
		}
	}
	return string(out)
}

// Package clean contains the generic label-cleaning primitives shared by all agencies.
//
// Nothing in this package knows about a particular agency. Agency-specific stripping rules are
// expressed as a RuleSet and composed with these primitives in a Pipeline.
package clean

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// IsDigitsOnly reports whether s is non-empty and made only of ASCII decimal digits.
func IsDigitsOnly(s string) bool {
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

// IsShouting reports whether s has at least one letter and no lower-case letters.
// Digits, punctuation and whitespace are ignored.
func IsShouting(s string) bool {
	hasLetter := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsLower(r) {
			return false
		}
		hasLetter = true
	}
	return hasLetter
}

// FoldShouting title-cases s if it is written entirely in upper case, and returns it unchanged otherwise.
func FoldShouting(s string) string {
	if !IsShouting(s) {
		return s
	}
	// A Caser keeps state, so one is built per call.
	return cases.Title(language.English).String(s)
}

var streetTypes = RuleSet{
	NewRule("avenue", `\b(ave|av)\b\.?`, "Avenue"),
	NewRule("boulevard", `\bblvd\b\.?`, "Boulevard"),
	NewRule("centre", `\b(ctr|cntr)\b\.?`, "Centre"),
	NewRule("crescent", `\bcres\b\.?`, "Crescent"),
	NewRule("drive", `\bdr\b\.?`, "Drive"),
	NewRule("highway", `\bhwy\b\.?`, "Highway"),
	NewRule("parkway", `\bpkwy\b\.?`, "Parkway"),
	NewRule("road", `\brd\b\.?`, "Road"),
	NewRule("street", `\bst\b\.?`, "Street"),
}

// StreetTypes expands street-type abbreviations, for example "St" to "Street".
func StreetTypes(s string) string {
	return streetTypes.Apply(s)
}

var (
	via    = regexp.MustCompile(`(?i)\s+via\s+.*$`)
	keepTo = regexp.MustCompile(`(?i)^.*\bto\s+(\S)`)
)

// KeepToRemoveVia keeps only the destination of "A to B via C" style labels.
func KeepToRemoveVia(s string) string {
	s = via.ReplaceAllString(s, "")
	return keepTo.ReplaceAllString(s, "${1}")
}

var (
	spaces           = regexp.MustCompile(`\s+`)
	spaceBeforePunct = regexp.MustCompile(`\s+([,.;:)])`)
	spaceAfterParen  = regexp.MustCompile(`\(\s+`)
	commaSpacing     = regexp.MustCompile(`,(\S)`)
	spacedDash       = regexp.MustCompile(`\s+-\s*|\s*-\s+`)
)

const labelNoise = " -/,;:&"

// Label is the final generic cleanup applied to every display label.
//
// It collapses whitespace, normalizes punctuation spacing, trims dangling separators and
// upper-cases the first letter of each word. It is idempotent.
func Label(s string) string {
	s = norm.NFC.String(s)
	s = spaces.ReplaceAllString(s, " ")
	s = spaceBeforePunct.ReplaceAllString(s, "${1}")
	s = spaceAfterParen.ReplaceAllString(s, "(")
	s = commaSpacing.ReplaceAllString(s, ", ${1}")
	s = spacedDash.ReplaceAllString(s, " - ")
	s = strings.Trim(s, labelNoise)
	return capitalizeWords(s)
}

func capitalizeWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	atWordStart := true
	for _, r := range s {
		if atWordStart && unicode.IsLetter(r) {
			r = unicode.ToUpper(r)
		}
		switch {
		case unicode.IsSpace(r), strings.ContainsRune(`-/("`, r):
			atWordStart = true
		default:
			atWordStart = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Package normalize converts raw export field values into canonical typed
// values. Every function is total: unparsable input degrades to the absent
// value ("" or nil), never an error.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	nonDigitRe   = regexp.MustCompile(`\D`)
	floatTailRe  = regexp.MustCompile(`^\d+\.0+$`)
	taxCodeRe    = regexp.MustCompile(`^\s*([A-Za-z0-9]{1,2})`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
	nonAlnumRe   = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// dateLayouts covers the date representations seen across the two export
// systems. Order matters: unambiguous layouts first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
	"20060102",
}

// SSN normalizes a participant identifier to exactly 9 digits, left-padded
// with zeros. Values that cannot resolve to 9 digits return "".
func SSN(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}
	// Spreadsheet exports sometimes render integer identifiers as floats
	// ("123456789.0"); strip the fractional tail before digit extraction.
	if floatTailRe.MatchString(s) {
		s = s[:strings.Index(s, ".")]
	}
	digits := nonDigitRe.ReplaceAllString(s, "")
	if digits == "" {
		return ""
	}
	if len(digits) < 9 {
		digits = strings.Repeat("0", 9-len(digits)) + digits
	}
	if len(digits) != 9 {
		return ""
	}
	return digits
}

// Date parses heterogeneous date representations into a canonical date.
// Unparsable input returns nil.
func Date(value string) *time.Time {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

// Amount parses a money amount to a nullable float. Thousands separators and
// a leading currency sign are tolerated; anything else returns nil.
func Amount(value string) *float64 {
	s := strings.TrimSpace(value)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// IntYear parses a 4-digit year to a nullable int, accepting float-rendered
// years ("2019.0").
func IntYear(value string) *int {
	f := Amount(value)
	if f == nil {
		return nil
	}
	if *f != float64(int(*f)) {
		return nil
	}
	y := int(*f)
	return &y
}

// Year extracts the calendar year from an optional date.
func Year(t *time.Time) *int {
	if t == nil {
		return nil
	}
	y := t.Year()
	return &y
}

// TaxCode extracts the leading 1-2 alphanumeric characters of a free-text
// tax-code field and uppercases them ("7 - Normal Distribution" -> "7",
// "11 - Loan" -> "11"). Non-matching input returns "".
func TaxCode(value string) string {
	m := taxCodeRe.FindStringSubmatch(value)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// CompactUpper strips everything but letters and digits and uppercases, for
// strict categorical comparisons ("No  Tax" -> "NOTAX", "1099-R" -> "1099R").
func CompactUpper(value string) string {
	return strings.ToUpper(nonAlnumRe.ReplaceAllString(value, ""))
}

// SpaceLower collapses runs of whitespace to single spaces, trims, and
// lowercases ("Check  Distribution " -> "check distribution").
func SpaceLower(value string) string {
	return strings.ToLower(strings.TrimSpace(multiSpaceRe.ReplaceAllString(value, " ")))
}

// PlanID trims and uppercases a plan identifier.
func PlanID(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// CentsKey rounds an amount to whole cents for exact join-key comparison.
func CentsKey(amount float64) int64 {
	if amount < 0 {
		return -CentsKey(-amount)
	}
	return int64(amount*100 + 0.5)
}

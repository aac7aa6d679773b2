// Package validate provides tri-state validation predicates for normalized
// record fields and cross-field plausibility checks. Findings accumulate as
// issue tags; nothing here raises on bad data.
package validate

import (
	"strings"
	"time"

	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/model"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/normalize"
)

// Validity is the outcome of a single predicate.
type Validity int

// Validity states. Unknown means the inputs were insufficient to decide.
const (
	Unknown Validity = iota
	Valid
	Invalid
)

// Known 1099-R classification codes.
var knownTaxCodes = map[string]struct{}{
	"1": {}, "2": {}, "4": {}, "7": {}, "8": {},
	"B": {}, "G": {}, "H": {}, "L": {}, "P": {}, "Q": {},
}

// Amount bounds.
const (
	maxAmountMagnitude = 10_000_000
	minPlausibleYear   = 1990
	maxPlausibleYear   = 2050
	paymentWindowDays  = 30
)

// invalidSSNs are well-known placeholder identifiers.
var invalidSSNs = map[string]struct{}{
	"000000000": {},
	"999999999": {},
	"012345678": {},
	"123456789": {},
}

// SSN validates an already-normalized 9-digit identifier: known placeholder
// blocks, the 000/666 area prefixes, and the reserved 9xx area are invalid.
func SSN(ssn string) Validity {
	if ssn == "" {
		return Unknown
	}
	if len(ssn) != 9 {
		return Invalid
	}
	for _, r := range ssn {
		if r < '0' || r > '9' {
			return Invalid
		}
	}
	if _, bad := invalidSSNs[ssn]; bad {
		return Invalid
	}
	area := ssn[:3]
	if area == "000" || area == "666" || area[0] == '9' {
		return Invalid
	}
	return Valid
}

// Amounts validates gross/taxable/withholding relationships. A negative
// gross is allowed only in a correction context. Taxable and withholding,
// when present, must not exceed gross.
func Amounts(gross, taxable, withholding *float64, isCorrection bool) Validity {
	if gross == nil {
		return Unknown
	}
	g := *gross
	if g < 0 && !isCorrection {
		return Invalid
	}
	if abs(g) > maxAmountMagnitude {
		return Invalid
	}
	if taxable != nil {
		if *taxable < 0 || *taxable > g {
			return Invalid
		}
	}
	if withholding != nil && *withholding > g {
		return Invalid
	}
	return Valid
}

// Dates validates a distribution date (plausible year, not in the future)
// and, when present, that the payment date falls within a bounded window of
// the distribution date.
func Dates(distDate, payDate *time.Time, today time.Time) Validity {
	if distDate == nil {
		return Unknown
	}
	if distDate.Year() < minPlausibleYear || distDate.Year() > maxPlausibleYear {
		return Invalid
	}
	if distDate.After(today) {
		return Invalid
	}
	if payDate == nil {
		return Valid
	}
	if payDate.After(today.AddDate(0, 0, paymentWindowDays)) {
		return Invalid
	}
	if payDate.Before(distDate.AddDate(0, 0, -paymentWindowDays)) {
		return Invalid
	}
	return Valid
}

// TaxCode validates membership in the known 1099-R code vocabulary.
func TaxCode(code string) Validity {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return Unknown
	}
	if _, ok := knownTaxCodes[c]; ok {
		return Valid
	}
	return Invalid
}

// Cross-field issue tags.
const (
	IssueCodeGTaxableOver10Pct     = "cross_code_g_taxable_over_10pct"
	IssueTaxableExceeds150PctGross = "cross_taxable_exceeds_gross_150pct"
	IssueCode1AgePastNormal        = "cross_code1_age_over_59_5"

	IssueSSNInvalid    = "ssn_invalid"
	IssueAmountInvalid = "amount_invalid"
	IssueDateInvalid   = "date_invalid"
	IssueCodeInvalid   = "code_1099r_invalid"
)

// CrossChecks evaluates cross-field implausibilities: a rollover code with
// taxable over 10% of gross, taxable exceeding 150% of gross, and an
// early-distribution code for a participant already past the normal-age
// threshold. Returns zero or more issue tags.
func CrossChecks(gross, taxable *float64, code string, dob, txnDate *time.Time) []string {
	var issues []string
	if gross == nil || taxable == nil {
		return issues
	}
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "G" && *taxable > *gross*0.1 {
		issues = append(issues, IssueCodeGTaxableOver10Pct)
	}
	if *taxable > *gross*1.5 {
		issues = append(issues, IssueTaxableExceeds150PctGross)
	}
	if c == "1" && normalize.AttainedByYearEnd(dob, normalize.Year(txnDate), normalize.AgeThreshold{Years: 59, Months: 6}) {
		issues = append(issues, IssueCode1AgePastNormal)
	}
	return issues
}

// Issues runs every field predicate over a disbursement record and returns
// the accumulated issue tags. Unknown findings are not tagged; only
// affirmative invalidity is.
func Issues(rec model.DisbursementRecord, demo *model.DemographicRecord, today time.Time) []string {
	var issues []string
	if SSN(rec.ParticipantID) == Invalid {
		issues = append(issues, IssueSSNInvalid)
	}
	if Amounts(rec.GrossAmt, rec.FedTaxableAmt, nil, false) == Invalid {
		issues = append(issues, IssueAmountInvalid)
	}
	if Dates(rec.TxnDate, nil, today) == Invalid {
		issues = append(issues, IssueDateInvalid)
	}
	if TaxCode(rec.TaxCode1) == Invalid || TaxCode(rec.TaxCode2) == Invalid {
		issues = append(issues, IssueCodeInvalid)
	}
	var dob *time.Time
	if demo != nil {
		dob = demo.BirthDate
	}
	issues = append(issues, CrossChecks(rec.GrossAmt, rec.FedTaxableAmt, rec.TaxCode1, dob, rec.TxnDate)...)
	return issues
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

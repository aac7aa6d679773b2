package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/model"
)

var today = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func d(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func f(v float64) *float64 { return &v }

func TestSSN(t *testing.T) {
	tests := []struct {
		name string
		ssn  string
		want Validity
	}{
		{"valid", "412851234", Valid},
		{"empty is unknown", "", Unknown},
		{"wrong length", "12345", Invalid},
		{"non digit", "41285123X", Invalid},
		{"placeholder all zeros", "000000000", Invalid},
		{"placeholder sequence", "123456789", Invalid},
		{"area 000", "000851234", Invalid},
		{"area 666", "666851234", Invalid},
		{"reserved 9xx area", "912851234", Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SSN(tt.ssn))
		})
	}
}

func TestAmounts(t *testing.T) {
	tests := []struct {
		gross        *float64
		taxable      *float64
		withholding  *float64
		name         string
		isCorrection bool
		want         Validity
	}{
		{f(1000), f(800), f(100), "normal distribution", false, Valid},
		{nil, nil, nil, "missing gross is unknown", false, Unknown},
		{f(-500), nil, nil, "negative gross outside correction", false, Invalid},
		{f(-500), nil, nil, "negative gross in correction", true, Valid},
		{f(1000), f(1200), nil, "taxable exceeds gross", false, Invalid},
		{f(1000), f(-1), nil, "negative taxable", false, Invalid},
		{f(1000), nil, f(1200), "withholding exceeds gross", false, Invalid},
		{f(20_000_000), nil, nil, "implausibly large", false, Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Amounts(tt.gross, tt.taxable, tt.withholding, tt.isCorrection))
		})
	}
}

func TestDates(t *testing.T) {
	tests := []struct {
		distDate *time.Time
		payDate  *time.Time
		name     string
		want     Validity
	}{
		{d(2025, 3, 1), nil, "plausible, no pay date", Valid},
		{nil, nil, "missing dist date is unknown", Unknown},
		{d(1980, 1, 1), nil, "before plausible range", Invalid},
		{d(2026, 1, 1), nil, "future dated", Invalid},
		{d(2025, 3, 1), d(2025, 3, 5), "pay date shortly after", Valid},
		{d(2025, 3, 1), d(2025, 1, 1), "pay date far before dist", Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dates(tt.distDate, tt.payDate, today))
		})
	}
}

func TestTaxCode(t *testing.T) {
	assert.Equal(t, Valid, TaxCode("7"))
	assert.Equal(t, Valid, TaxCode("g"), "case insensitive")
	assert.Equal(t, Valid, TaxCode(" B "))
	assert.Equal(t, Unknown, TaxCode(""))
	assert.Equal(t, Invalid, TaxCode("Z"))
	assert.Equal(t, Invalid, TaxCode("77"))
}

func TestCrossChecks(t *testing.T) {
	tests := []struct {
		gross   *float64
		taxable *float64
		dob     *time.Time
		txnDate *time.Time
		name    string
		code    string
		want    []string
	}{
		{
			name:  "rollover with significant taxable",
			gross: f(1000), taxable: f(500), code: "G",
			want: []string{IssueCodeGTaxableOver10Pct},
		},
		{
			name:  "rollover with incidental taxable",
			gross: f(1000), taxable: f(50), code: "G",
			want: nil,
		},
		{
			name:  "taxable far exceeds gross",
			gross: f(1000), taxable: f(2000), code: "7",
			want: []string{IssueTaxableExceeds150PctGross},
		},
		{
			name:  "early code past normal age",
			gross: f(1000), taxable: f(800), code: "1",
			dob: d(1950, 1, 1), txnDate: d(2024, 6, 1),
			want: []string{IssueCode1AgePastNormal},
		},
		{
			name:  "early code for young participant",
			gross: f(1000), taxable: f(800), code: "1",
			dob: d(1990, 1, 1), txnDate: d(2024, 6, 1),
			want: nil,
		},
		{
			name:  "missing amounts short circuit",
			gross: nil, taxable: f(800), code: "G",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CrossChecks(tt.gross, tt.taxable, tt.code, tt.dob, tt.txnDate))
		})
	}
}

func TestIssuesAccumulates(t *testing.T) {
	rec := model.DisbursementRecord{
		TxnDate:       d(2026, 1, 1), // future
		GrossAmt:      f(1000),
		FedTaxableAmt: f(2000), // exceeds gross
		ParticipantID: "000000000",
		TaxCode1:      "Z",
	}

	issues := Issues(rec, nil, today)

	assert.Contains(t, issues, IssueSSNInvalid)
	assert.Contains(t, issues, IssueAmountInvalid)
	assert.Contains(t, issues, IssueDateInvalid)
	assert.Contains(t, issues, IssueCodeInvalid)
	assert.Contains(t, issues, IssueTaxableExceeds150PctGross)
}

func TestIssuesCleanRecord(t *testing.T) {
	rec := model.DisbursementRecord{
		TxnDate:       d(2025, 3, 1),
		GrossAmt:      f(1000),
		FedTaxableAmt: f(800),
		ParticipantID: "412851234",
		TaxCode1:      "7",
	}

	assert.Empty(t, Issues(rec, nil, today))
}

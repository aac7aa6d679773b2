// Package model defines the core domain records shared by every
// reconciliation and correction engine.
package model

import (
	"strings"
	"time"
)

// SourceRecord is one source-of-record distribution row, already normalized
// by the loading layer.
type SourceRecord struct {
	ExportedDate  *time.Time
	GrossAmt      *float64
	PlanID        string
	ParticipantID string
	TransID       string
	DistName      string // raw distribution-purpose description
	DistCategory  DistCategory
	DistCode1     string
}

// DisbursementRecord is one payment / tax-form transaction row.
type DisbursementRecord struct {
	TxnDate             *time.Time
	GrossAmt            *float64
	FedTaxableAmt       *float64
	RothInitialYear     *int
	PlanID              string
	ParticipantID       string
	TransactionID       string
	TaxCode1            string
	TaxCode2            string
	TxnMethod           string
	TaxForm             string
	FederalTaxingMethod string
	AccountID           string
	ParticipantName     string
	ValidationIssues    []string
}

// DemographicRecord carries participant birth and termination data joined
// onto disbursements by (plan, participant).
type DemographicRecord struct {
	BirthDate     *time.Time
	TermDate      *time.Time
	PlanID        string
	ParticipantID string
	FirstName     string
	LastName      string
}

// FullName returns "First Last" trimmed, or "" when both parts are missing.
func (d DemographicRecord) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(d.FirstName) + " " + strings.TrimSpace(d.LastName))
}

// RothBasisRecord carries cumulative after-tax basis per (plan, participant).
type RothBasisRecord struct {
	FirstRothYear *int
	BasisAmt      *float64
	PlanID        string
	ParticipantID string
}

// DistCategory is the normalized distribution-purpose category derived from
// the free-text source description.
type DistCategory string

// Distribution category constants.
const (
	CategoryRollover        DistCategory = "rollover"
	CategoryPartialRollover DistCategory = "partial_rollover"
	CategoryRMD             DistCategory = "rmd"
	CategoryPartialCash     DistCategory = "partial_cash"
	CategoryFinalCash       DistCategory = "final_cash"
	CategoryOther           DistCategory = "other"
)

// IsRolloverLike reports whether the category denotes a full or partial
// rollover distribution.
func (c DistCategory) IsRolloverLike() bool {
	return c == CategoryRollover || c == CategoryPartialRollover
}

// ClassifyDistName maps a free-text distribution description to a category.
// Unknown or empty descriptions classify as CategoryOther.
func ClassifyDistName(name string) DistCategory {
	text := strings.ToLower(strings.TrimSpace(name))
	if text == "" {
		return CategoryOther
	}
	switch {
	case strings.Contains(text, "rollover"):
		if strings.Contains(text, "partial") {
			return CategoryPartialRollover
		}
		return CategoryRollover
	case strings.Contains(text, "rmd"):
		return CategoryRMD
	case strings.Contains(text, "partial") && strings.Contains(text, "liquidation"),
		strings.Contains(text, "recurring"):
		return CategoryPartialCash
	case strings.Contains(text, "liquidation") && strings.Contains(text, "full"):
		return CategoryFinalCash
	}
	return CategoryOther
}

// Package config defines the immutable configuration surfaces consumed by
// the reconciliation and correction engines. Every engine call receives its
// config explicitly; there is no mutable package-level state.
package config

import (
	"fmt"
	"time"

	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/normalize"
)

// MatchingConfig controls the source/disbursement reconciliation matcher.
type MatchingConfig struct {
	// DefaultPlanIDs is the plan scope used when a caller passes none.
	DefaultPlanIDs []string
	// InheritedPlanIDs are plans subject to death/beneficiary rules.
	InheritedPlanIDs []string
	// MaxDateLagDays is the inclusive upper bound on disbursement date minus
	// source export date. The source exports first; negative lags never match.
	MaxDateLagDays int
}

// DefaultMatchingConfig returns the production matcher settings.
func DefaultMatchingConfig() MatchingConfig {
	inherited := []string{"300004PLAT", "300004GOLD", "300004SLVR"}
	return MatchingConfig{
		DefaultPlanIDs:   inherited,
		InheritedPlanIDs: inherited,
		MaxDateLagDays:   10,
	}
}

// IsInherited reports whether the plan is in the inherited-plan set.
func (c MatchingConfig) IsInherited(planID string) bool {
	for _, id := range c.InheritedPlanIDs {
		if id == planID {
			return true
		}
	}
	return false
}

// AgeCodeConfig controls the age-based tax-code engine.
type AgeCodeConfig struct {
	// ExcludedCodes are primary codes this engine never touches: rollover
	// codes and loan/insurance codes driven by distribution type, not age.
	ExcludedCodes []string
	NormalAge     normalize.AgeThreshold
	TermRuleAge   normalize.AgeThreshold
	NormalCode    string
	Age55PlusCode string
	Under55Code   string
}

// DefaultAgeCodeConfig returns the production age-rule settings.
func DefaultAgeCodeConfig() AgeCodeConfig {
	return AgeCodeConfig{
		ExcludedCodes: []string{"G", "H", "L", "P"},
		NormalAge:     normalize.AgeThreshold{Years: 59, Months: 6},
		TermRuleAge:   normalize.AgeThreshold{Years: 55},
		NormalCode:    "7",
		Age55PlusCode: "2",
		Under55Code:   "1",
	}
}

// IsExcludedCode reports whether the primary code is out of this engine's
// scope.
func (c AgeCodeConfig) IsExcludedCode(code string) bool {
	for _, excluded := range c.ExcludedCodes {
		if excluded == code {
			return true
		}
	}
	return false
}

// RothConfig controls the Roth taxable/year analysis engine.
type RothConfig struct {
	// PlanPrefixes / PlanSuffixes identify Roth-designated plans.
	PlanPrefixes []string
	PlanSuffixes []string
	// BasisCoverageYear is the tax year whose per-participant gross total the
	// cumulative basis must cover to zero out taxable.
	BasisCoverageYear int
	// QualifiedAge and QualifiedYearsSinceFirst define a qualified
	// distribution (age plus holding period).
	QualifiedAge             normalize.AgeThreshold
	QualifiedYearsSinceFirst int
	// ValidYearMin/Max bound a plausible first-contribution year.
	ValidYearMin int
	ValidYearMax int
	// TaxableProximityPct flags likely partial-taxable errors: gross within
	// this fraction above the current taxable amount.
	TaxableProximityPct float64
	// TaxableTolerance is the absolute difference below which a taxable
	// amount is considered already correct.
	TaxableTolerance float64
}

// DefaultRothConfig returns the production Roth engine settings for the
// current tax year.
func DefaultRothConfig() RothConfig {
	return RothConfig{
		PlanPrefixes:             []string{"300005"},
		PlanSuffixes:             []string{"R"},
		BasisCoverageYear:        2025,
		QualifiedAge:             normalize.AgeThreshold{Years: 59, Months: 6},
		QualifiedYearsSinceFirst: 5,
		ValidYearMin:             1998, // first year designated Roth accounts existed
		ValidYearMax:             2025,
		TaxableProximityPct:      0.15,
		TaxableTolerance:         0.01,
	}
}

// ValidFirstYear reports whether a first-contribution year is plausible.
func (c RothConfig) ValidFirstYear(year *int) bool {
	return year != nil && *year >= c.ValidYearMin && *year <= c.ValidYearMax
}

// RothCodeConfig fixes the code vocabulary the Roth engine reasons about.
type RothCodeConfig struct {
	// ExcludedCodes are extra primary codes excluded from all Roth logic.
	ExcludedCodes    []string
	RothCode         string
	RolloverCode     string
	RothRolloverCode string
	DeathCode        string
}

// DefaultRothCodeConfig returns the standard 1099-R Roth code markers.
func DefaultRothCodeConfig() RothCodeConfig {
	return RothCodeConfig{
		RothCode:         "B",
		RolloverCode:     "G",
		RothRolloverCode: "H",
		DeathCode:        "4",
	}
}

// IsExcludedCode reports whether the primary code is configured out of the
// Roth engine's scope.
func (c RothCodeConfig) IsExcludedCode(code string) bool {
	for _, excluded := range c.ExcludedCodes {
		if excluded == code {
			return true
		}
	}
	return false
}

// IRAConfig controls the IRA rollover tax-form audit engine.
type IRAConfig struct {
	PlanPrefixes   []string
	PlanSubstrings []string
	// RolloverCodes indicate a rollover on either tax code.
	RolloverCodes []string
	// NeutralCode is suggested when a rollover was issued a 1099-R form.
	NeutralCode string
}

// DefaultIRAConfig returns the production IRA audit settings.
func DefaultIRAConfig() IRAConfig {
	return IRAConfig{
		PlanPrefixes:   []string{"300001", "300005"},
		PlanSubstrings: []string{"IRA"},
		RolloverCodes:  []string{"G", "H"},
		NeutralCode:    "0",
	}
}

// DateFilter optionally restricts engine input to transactions within an
// inclusive date window. Nil bounds are open.
type DateFilter struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether a transaction date passes the filter.
func (f *DateFilter) Contains(date *time.Time) bool {
	if f == nil {
		return true
	}
	return normalize.InDateWindow(date, f.Start, f.End)
}

// Validate rejects nonsensical threshold combinations before a run starts.
func Validate(matching MatchingConfig, roth RothConfig) error {
	if matching.MaxDateLagDays < 0 {
		return fmt.Errorf("max date lag days must be non-negative, got %d", matching.MaxDateLagDays)
	}
	if roth.ValidYearMin > roth.ValidYearMax {
		return fmt.Errorf("roth valid year range inverted: %d > %d", roth.ValidYearMin, roth.ValidYearMax)
	}
	if roth.TaxableProximityPct < 0 || roth.TaxableProximityPct > 1 {
		return fmt.Errorf("taxable proximity must be a fraction between 0 and 1, got %.2f", roth.TaxableProximityPct)
	}
	return nil
}

// Package roth implements the Roth taxable and tax-code engine (Engine C):
// for Roth-designated plans it computes expected taxable-amount overrides
// (basis coverage, qualified distributions), initial-contribution-year
// corrections, malformed code-pair repairs, and age-based code-pair
// expectations. Rules accumulate every triggered reason per row.
package roth

import (
	"log/slog"
	"math"
	"time"

	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/common"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/config"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/model"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/normalize"
)

// Reason tokens.
const (
	ReasonBasisCoversTotal    = "roth_basis_covers_coverage_year_total"
	ReasonQualified           = "qualified_roth_distribution"
	ReasonInitialYearMismatch = "roth_initial_year_mismatch"
	ReasonMissingFirstYear    = "missing_first_roth_tax_year"
	ReasonMissingFedTaxable   = "missing_fed_taxable_amt"
	ReasonTaxableNearGross    = "taxable_within_15pct_of_gross"
	ReasonAgeCodeMismatch     = "roth_age_tax_code_mismatch"

	ReasonFixRothPlusRollover  = "roth_rollover_code_fix_B_G_to_H"
	ReasonFixRolloverPlusDeath = "roth_rollover_code_fix_G_4_to_H4"
	ReasonFixLoneDeathPrimary  = "roth_death_code_fix_4_to_B4"
	ReasonFixLoneDeathSecond   = "roth_death_code_fix_blank_4_to_B4"
	ReasonFixLoneRollover      = "roth_rollover_code_fix_G_blank_to_H"
	ReasonFixLoneRolloverSec   = "roth_rollover_code_fix_blank_G_to_H"

	ReasonAgeNormal      = "roth_age_rule_attained_59_5_in_txn_year_expect_B7"
	ReasonAgeTerm55Plus  = "roth_age_rule_attained_55_in_term_year_expect_B2"
	ReasonAgeTermUnder55 = "roth_age_rule_under_55_in_term_year_expect_B1"
	ReasonAgeTxn55Plus   = "roth_age_rule_attained_55_in_txn_year_no_term_expect_B2"
	ReasonAgeTxnUnder55  = "roth_age_rule_under_55_in_txn_year_no_term_expect_B1"
)

// Engine evaluates Roth taxable, contribution-year, and code rules.
type Engine struct {
	cfg      config.RothConfig
	codes    config.RothCodeConfig
	age      config.AgeCodeConfig
	matching config.MatchingConfig
}

// New creates a Roth engine. The age config supplies the shared age
// thresholds; the matching config supplies the inherited-plan exclusions.
func New(cfg config.RothConfig, codes config.RothCodeConfig, age config.AgeCodeConfig, matching config.MatchingConfig) *Engine {
	return &Engine{cfg: cfg, codes: codes, age: age, matching: matching}
}

// joined is one disbursement with its demographic and basis rows attached.
type joined struct {
	rec   *model.DisbursementRecord
	demo  *model.DemographicRecord
	basis *model.RothBasisRecord
}

// Analyze restricts the batch to Roth-designated, non-inherited plans,
// left-joins demographics and basis data, and evaluates the rule stack per
// row. Rollover-coded rows are NOT excluded here (unlike the age engine).
func (e *Engine) Analyze(disbursements []model.DisbursementRecord, demographics []model.DemographicRecord, basis []model.RothBasisRecord, filter *config.DateFilter) ([]model.CorrectionCandidate, error) {
	if disbursements == nil {
		return nil, common.MissingInput("disbursements")
	}
	if demographics == nil {
		return nil, common.MissingInput("demographics")
	}
	if basis == nil {
		return nil, common.MissingInput("roth basis")
	}

	demoByKey := make(map[[2]string]*model.DemographicRecord, len(demographics))
	for i := range demographics {
		d := &demographics[i]
		demoByKey[[2]string{d.PlanID, d.ParticipantID}] = d
	}
	basisByKey := make(map[[2]string]*model.RothBasisRecord, len(basis))
	for i := range basis {
		b := &basis[i]
		basisByKey[[2]string{b.PlanID, b.ParticipantID}] = b
	}

	var rows []joined
	for i := range disbursements {
		rec := &disbursements[i]
		if !filter.Contains(rec.TxnDate) {
			continue
		}
		if !normalize.IsRothPlan(rec.PlanID, e.cfg.PlanPrefixes, e.cfg.PlanSuffixes) {
			continue
		}
		if e.matching.IsInherited(rec.PlanID) {
			continue
		}
		key := [2]string{rec.PlanID, rec.ParticipantID}
		rows = append(rows, joined{rec: rec, demo: demoByKey[key], basis: basisByKey[key]})
	}

	coverage := e.coverageTotals(rows)

	candidates := make([]model.CorrectionCandidate, 0, len(rows))
	for _, row := range rows {
		total := coverage[[2]string{row.rec.PlanID, row.rec.ParticipantID}]
		candidates = append(candidates, e.evaluate(row, total))
	}

	slog.Info("roth analysis complete", "candidates", len(candidates))
	return candidates, nil
}

// coverageTotals sums gross per (plan, participant) across transactions in
// the configured coverage year. Keys with no known gross stay absent.
func (e *Engine) coverageTotals(rows []joined) map[[2]string]*float64 {
	totals := make(map[[2]string]*float64)
	for _, row := range rows {
		year := normalize.Year(row.rec.TxnDate)
		if year == nil || *year != e.cfg.BasisCoverageYear || row.rec.GrossAmt == nil {
			continue
		}
		key := [2]string{row.rec.PlanID, row.rec.ParticipantID}
		if existing := totals[key]; existing != nil {
			sum := *existing + *row.rec.GrossAmt
			totals[key] = &sum
		} else {
			amt := *row.rec.GrossAmt
			totals[key] = &amt
		}
	}
	return totals
}

// evaluate runs the full rule stack over one row, in precedence order:
// exclusion, code repair, basis coverage, qualified distribution,
// contribution-year checks, proximity review, age-based code expectations.
func (e *Engine) evaluate(row joined, coverageTotal *float64) model.CorrectionCandidate {
	rec := row.rec
	cand := newCandidate(rec, row.demo)

	c1 := normalize.TaxCode(rec.TaxCode1)
	c2 := normalize.TaxCode(rec.TaxCode2)

	// Rule 1: rows already carrying the combined Roth-rollover code, a
	// Roth+death pair, or a configured excluded code are out of scope.
	if e.codes.IsExcludedCode(c1) ||
		c1 == e.codes.RothRolloverCode ||
		(c1 == e.codes.RothCode && c2 == e.codes.DeathCode) {
		cand.Status = model.StatusExcluded
		return cand
	}

	repaired := e.repairCodes(&cand, c1, c2)

	startYear := e.startYear(row)
	txnYear := normalize.Year(rec.TxnDate)

	// Rule 3: basis coverage zeroes out taxable.
	if row.basis != nil && row.basis.BasisAmt != nil && coverageTotal != nil &&
		*row.basis.BasisAmt >= *coverageTotal {
		cand.SuggestedTaxable = zero()
		cand.Reasons.Add(ReasonBasisCoversTotal)
	}

	// Rule 4: qualified distribution (age plus holding period) zeroes out
	// taxable when basis coverage has not already resolved the row.
	var dob, termDate *time.Time
	if row.demo != nil {
		dob = row.demo.BirthDate
		termDate = row.demo.TermDate
	}
	if txnYear != nil && startYear != nil &&
		normalize.AttainedByYearEnd(dob, txnYear, e.cfg.QualifiedAge) &&
		*txnYear-*startYear >= e.cfg.QualifiedYearsSinceFirst {
		cand.Reasons.Add(ReasonQualified)
		if cand.SuggestedTaxable == nil {
			cand.SuggestedTaxable = zero()
		}
	}

	if cand.SuggestedTaxable != nil {
		switch {
		case rec.FedTaxableAmt == nil:
			cand.Actions.Add(model.ActionInvestigate)
			cand.Reasons.Add(ReasonMissingFedTaxable)
		case math.Abs(*rec.FedTaxableAmt-*cand.SuggestedTaxable) > e.cfg.TaxableTolerance:
			cand.Actions.Add(model.ActionUpdate)
		}
	}

	// Rules 5 and 6: contribution-year mismatch or missing year.
	var firstYear *int
	if row.basis != nil {
		firstYear = row.basis.FirstRothYear
	}
	if e.cfg.ValidFirstYear(firstYear) {
		if rec.RothInitialYear == nil || *rec.RothInitialYear != *firstYear {
			year := *firstYear
			cand.SuggestedFirstYear = &year
			cand.Actions.Add(model.ActionUpdate)
			cand.Reasons.Add(ReasonInitialYearMismatch)
		}
	} else {
		cand.Actions.Add(model.ActionInvestigate)
		cand.Reasons.Add(ReasonMissingFirstYear)
	}

	// Rule 7: proximity heuristic for likely partial-taxable errors.
	if rec.FedTaxableAmt != nil && *rec.FedTaxableAmt > 0 && rec.GrossAmt != nil &&
		*rec.GrossAmt <= *rec.FedTaxableAmt*(1+e.cfg.TaxableProximityPct) {
		cand.Actions.Add(model.ActionInvestigate)
		cand.Reasons.Add(ReasonTaxableNearGross)
	}

	// Rule 8: age-based code-pair expectations, skipped when a repair
	// already rewrote the pair.
	if !repaired && dob != nil && txnYear != nil {
		e.applyAgeCodes(&cand, c1, c2, dob, txnYear, normalize.Year(termDate))
	}

	e.finalize(&cand)
	return cand
}

// repairCodes rewrites known malformed code pairs to their canonical
// combined form. Returns true when a repair applied; repaired rows skip the
// age-based expectations.
func (e *Engine) repairCodes(cand *model.CorrectionCandidate, c1, c2 string) bool {
	roth := e.codes.RothCode
	rollover := e.codes.RolloverCode
	combined := e.codes.RothRolloverCode
	death := e.codes.DeathCode

	switch {
	case c1 == roth && c2 == rollover:
		cand.SuggestedTaxCode1 = combined
		cand.Reasons.Add(ReasonFixRothPlusRollover)
	case c1 == rollover && c2 == death:
		cand.SuggestedTaxCode1 = combined
		cand.SuggestedTaxCode2 = death
		cand.Reasons.Add(ReasonFixRolloverPlusDeath)
	case c1 == death && c2 == "":
		cand.SuggestedTaxCode1 = roth
		cand.SuggestedTaxCode2 = death
		cand.Reasons.Add(ReasonFixLoneDeathPrimary)
	case c1 == "" && c2 == death:
		cand.SuggestedTaxCode1 = roth
		cand.SuggestedTaxCode2 = death
		cand.Reasons.Add(ReasonFixLoneDeathSecond)
	case c1 == rollover && c2 == "":
		cand.SuggestedTaxCode1 = combined
		cand.Reasons.Add(ReasonFixLoneRollover)
	case c1 == "" && c2 == rollover:
		cand.SuggestedTaxCode1 = combined
		cand.Reasons.Add(ReasonFixLoneRolloverSec)
	default:
		return false
	}
	cand.Actions.Add(model.ActionUpdate)
	return true
}

// applyAgeCodes expects primary code fixed at the Roth marker and a
// secondary code following the same three-way age logic as the non-Roth
// engine.
func (e *Engine) applyAgeCodes(cand *model.CorrectionCandidate, c1, c2 string, dob *time.Time, txnYear, termYear *int) {
	var expected2, reason string
	switch {
	case normalize.AttainedByYearEnd(dob, txnYear, e.age.NormalAge):
		expected2 = e.age.NormalCode
		reason = ReasonAgeNormal
	case termYear != nil && normalize.AttainedByYearEnd(dob, termYear, e.age.TermRuleAge):
		expected2 = e.age.Age55PlusCode
		reason = ReasonAgeTerm55Plus
	case termYear != nil:
		expected2 = e.age.Under55Code
		reason = ReasonAgeTermUnder55
	case normalize.AttainedByYearEnd(dob, txnYear, e.age.TermRuleAge):
		expected2 = e.age.Age55PlusCode
		reason = ReasonAgeTxn55Plus
	default:
		expected2 = e.age.Under55Code
		reason = ReasonAgeTxnUnder55
	}

	if c1 == e.codes.RothCode && c2 == expected2 {
		return
	}
	if cand.SuggestedTaxCode1 == "" {
		cand.SuggestedTaxCode1 = e.codes.RothCode
	}
	if cand.SuggestedTaxCode2 == "" {
		cand.SuggestedTaxCode2 = expected2
	}
	cand.Actions.Add(model.ActionUpdate)
	cand.Reasons.Add(ReasonAgeCodeMismatch)
	cand.Reasons.Add(reason)
}

// finalize resolves the status precedence (excluded rows never reach here):
// any UPDATE outranks INVESTIGATE; neither means no-action, which clears
// every suggestion and reason.
func (e *Engine) finalize(cand *model.CorrectionCandidate) {
	switch {
	case cand.Actions.Has(model.ActionUpdate):
		cand.Status = model.StatusNeedsCorrection
	case cand.Actions.Has(model.ActionInvestigate):
		cand.Status = model.StatusNeedsReview
	default:
		cand.Status = model.StatusNoAction
		cand.ClearSuggestions()
	}
	cand.ComposeNewTaxCode()
}

// startYear picks the first plausible Roth start year: the basis record's
// first contribution year, falling back to the disbursement's initial year.
func (e *Engine) startYear(row joined) *int {
	if row.basis != nil && e.cfg.ValidFirstYear(row.basis.FirstRothYear) {
		return row.basis.FirstRothYear
	}
	if e.cfg.ValidFirstYear(row.rec.RothInitialYear) {
		return row.rec.RothInitialYear
	}
	return nil
}

func newCandidate(rec *model.DisbursementRecord, demo *model.DemographicRecord) model.CorrectionCandidate {
	name := rec.ParticipantName
	if name == "" && demo != nil {
		name = demo.FullName()
	}
	return model.CorrectionCandidate{
		TxnDate:         rec.TxnDate,
		GrossAmt:        rec.GrossAmt,
		FedTaxableAmt:   rec.FedTaxableAmt,
		PlanID:          rec.PlanID,
		ParticipantID:   rec.ParticipantID,
		TransactionID:   rec.TransactionID,
		ParticipantName: name,
		AccountID:       rec.AccountID,
		TaxCode1:        rec.TaxCode1,
		TaxCode2:        rec.TaxCode2,
	}
}

func zero() *float64 {
	z := 0.0
	return &z
}

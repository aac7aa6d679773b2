// Package agecode implements the age-based tax-code correction engine
// (Engine B): for non-Roth, non-inherited plans it derives the expected
// primary 1099-R code from attained-age milestones and flags disbursements
// whose observed code differs.
package agecode

import (
	"log/slog"
	"time"

	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/common"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/config"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/model"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/normalize"
)

// Reason tokens emitted with an expected-code decision.
const (
	ReasonNormalDistribution = "age_59_5_or_over_normal_distribution"
	ReasonTermAtOrAfter55    = "terminated_at_or_after_55"
	ReasonTermBefore55       = "terminated_before_55"
	ReasonNoTermUnder55      = "no_term_date_under_55_in_txn_year"
	ReasonNoTerm55Plus       = "no_term_date_55_plus_in_txn_year"
)

// Engine evaluates age-based primary-code expectations.
type Engine struct {
	cfg      config.AgeCodeConfig
	matching config.MatchingConfig
	roth     config.RothConfig
}

// New creates an age-code engine. The matching config supplies the
// inherited-plan exclusion set; the Roth config identifies Roth plans, which
// belong to the Roth engine instead.
func New(cfg config.AgeCodeConfig, matching config.MatchingConfig, roth config.RothConfig) *Engine {
	return &Engine{cfg: cfg, matching: matching, roth: roth}
}

// Analyze left-joins demographics onto disbursements by (plan, participant)
// and emits one correction candidate per in-scope row. Roth-plan rows are
// dropped entirely; rollover-coded and inherited-plan rows are kept but
// marked excluded for transparency.
func (e *Engine) Analyze(disbursements []model.DisbursementRecord, demographics []model.DemographicRecord, filter *config.DateFilter) ([]model.CorrectionCandidate, error) {
	if disbursements == nil {
		return nil, common.MissingInput("disbursements")
	}
	if demographics == nil {
		return nil, common.MissingInput("demographics")
	}

	demoByKey := make(map[[2]string]*model.DemographicRecord, len(demographics))
	for i := range demographics {
		d := &demographics[i]
		demoByKey[[2]string{d.PlanID, d.ParticipantID}] = d
	}

	candidates := make([]model.CorrectionCandidate, 0, len(disbursements))
	excluded := 0
	for i := range disbursements {
		rec := &disbursements[i]
		if !filter.Contains(rec.TxnDate) {
			continue
		}
		if normalize.IsRothPlan(rec.PlanID, e.roth.PlanPrefixes, e.roth.PlanSuffixes) {
			continue
		}
		demo := demoByKey[[2]string{rec.PlanID, rec.ParticipantID}]
		cand := e.evaluate(rec, demo)
		if cand.Status == model.StatusExcluded {
			excluded++
		}
		candidates = append(candidates, cand)
	}

	slog.Info("age-code analysis complete",
		"candidates", len(candidates),
		"excluded", excluded)
	return candidates, nil
}

// evaluate applies the three-way age rule to one row:
//  1. attains the normal-distribution age within the transaction year ->
//     normal code;
//  2. otherwise, with a termination date, the age-55 rule applies against
//     the termination year;
//  3. without one, the same test applies against the transaction year.
func (e *Engine) evaluate(rec *model.DisbursementRecord, demo *model.DemographicRecord) model.CorrectionCandidate {
	cand := newCandidate(rec, demo)

	if e.cfg.IsExcludedCode(rec.TaxCode1) || e.matching.IsInherited(rec.PlanID) {
		cand.Status = model.StatusExcluded
		return cand
	}

	var dob, termDate *time.Time
	if demo != nil {
		dob = demo.BirthDate
		termDate = demo.TermDate
	}
	txnYear := normalize.Year(rec.TxnDate)
	if dob == nil || txnYear == nil {
		cand.Status = model.StatusInsufficientData
		return cand
	}

	expected, reason := e.expectedCode(dob, txnYear, normalize.Year(termDate))

	if rec.TaxCode1 == expected {
		cand.Status = model.StatusNoAction
		cand.ClearSuggestions()
		return cand
	}

	cand.Status = model.StatusNeedsCorrection
	cand.SuggestedTaxCode1 = expected
	cand.Actions.Add(model.ActionUpdate)
	cand.Reasons.Add(reason)
	cand.ComposeNewTaxCode()
	return cand
}

// expectedCode returns the expected primary code and its reason token.
func (e *Engine) expectedCode(dob *time.Time, txnYear, termYear *int) (string, string) {
	if normalize.AttainedByYearEnd(dob, txnYear, e.cfg.NormalAge) {
		return e.cfg.NormalCode, ReasonNormalDistribution
	}
	if termYear != nil {
		if normalize.AttainedByYearEnd(dob, termYear, e.cfg.TermRuleAge) {
			return e.cfg.Age55PlusCode, ReasonTermAtOrAfter55
		}
		return e.cfg.Under55Code, ReasonTermBefore55
	}
	if normalize.AttainedByYearEnd(dob, txnYear, e.cfg.TermRuleAge) {
		return e.cfg.Age55PlusCode, ReasonNoTerm55Plus
	}
	return e.cfg.Under55Code, ReasonNoTermUnder55
}

// newCandidate copies the traceability fields from the disbursement,
// preferring its participant name and falling back to the demographic name.
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

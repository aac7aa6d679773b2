// Package ira implements the IRA rollover tax-form audit (Engine D): for
// IRA-type plans with check-disbursed, rollover-coded transactions it
// cross-checks the declared federal taxing method against the tax-form type.
package ira

import (
	"log/slog"

	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/common"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/config"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/model"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/normalize"
)

// Reason tokens.
const (
	ReasonMissingTaxingMethod = "missing_federal_taxing_method"
	ReasonMissingTaxForm      = "missing_tax_form"
	ReasonMethodNotRollover   = "federal_taxing_method_not_rollover"
	ReasonUnrecognizedTaxForm = "unrecognized_tax_form"
	ReasonFormShouldBeNoTax   = "ira_rollover_tax_form_1099r_expected_no_tax"
)

// Normalized field values the audit recognizes.
const (
	methodRollover       = "ROLLOVER"
	taxFormNoTax         = "NOTAX"
	taxForm1099R         = "1099R"
	checkDisbursedMethod = "check distribution"
)

// Engine audits rollover-coded IRA check disbursements.
type Engine struct {
	cfg config.IRAConfig
}

// New creates an IRA rollover audit engine.
func New(cfg config.IRAConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Analyze filters the batch to IRA plans with a check-type disbursement
// method and a rollover code on either tax code, then audits the federal
// taxing method against the tax-form type. Amounts are never touched.
func (e *Engine) Analyze(disbursements []model.DisbursementRecord, filter *config.DateFilter) ([]model.CorrectionCandidate, error) {
	if disbursements == nil {
		return nil, common.MissingInput("disbursements")
	}

	var candidates []model.CorrectionCandidate
	for i := range disbursements {
		rec := &disbursements[i]
		if !filter.Contains(rec.TxnDate) {
			continue
		}
		if !normalize.IsIRAPlan(rec.PlanID, e.cfg.PlanPrefixes, e.cfg.PlanSubstrings) {
			continue
		}
		if normalize.SpaceLower(rec.TxnMethod) != checkDisbursedMethod {
			continue
		}
		if !e.hasRolloverCode(rec) {
			continue
		}
		candidates = append(candidates, e.audit(rec))
	}

	slog.Info("ira rollover audit complete", "candidates", len(candidates))
	return candidates, nil
}

func (e *Engine) hasRolloverCode(rec *model.DisbursementRecord) bool {
	c1 := normalize.TaxCode(rec.TaxCode1)
	c2 := normalize.TaxCode(rec.TaxCode2)
	for _, code := range e.cfg.RolloverCodes {
		if c1 == code || c2 == code {
			return true
		}
	}
	return false
}

// audit resolves one candidate row:
//   - Rollover method + "No Tax" form: correctly shielded, no action.
//   - Rollover method + 1099-R form: the rollover was issued a taxable form;
//     suggest the neutralizing code.
//   - Anything missing or unrecognized: review, one reason per cause.
func (e *Engine) audit(rec *model.DisbursementRecord) model.CorrectionCandidate {
	cand := model.CorrectionCandidate{
		TxnDate:         rec.TxnDate,
		GrossAmt:        rec.GrossAmt,
		FedTaxableAmt:   rec.FedTaxableAmt,
		PlanID:          rec.PlanID,
		ParticipantID:   rec.ParticipantID,
		TransactionID:   rec.TransactionID,
		ParticipantName: rec.ParticipantName,
		AccountID:       rec.AccountID,
		TaxCode1:        rec.TaxCode1,
		TaxCode2:        rec.TaxCode2,
	}

	method := normalize.CompactUpper(rec.FederalTaxingMethod)
	form := normalize.CompactUpper(rec.TaxForm)

	if method == methodRollover {
		switch form {
		case taxFormNoTax:
			cand.Status = model.StatusNoAction
			return cand
		case taxForm1099R:
			cand.Status = model.StatusNeedsCorrection
			cand.SuggestedTaxCode1 = e.cfg.NeutralCode
			cand.Actions.Add(model.ActionUpdate)
			cand.Reasons.Add(ReasonFormShouldBeNoTax)
			cand.ComposeNewTaxCode()
			return cand
		}
	}

	if method == "" {
		cand.Reasons.Add(ReasonMissingTaxingMethod)
	} else if method != methodRollover {
		cand.Reasons.Add(ReasonMethodNotRollover)
	}
	if form == "" {
		cand.Reasons.Add(ReasonMissingTaxForm)
	} else if form != taxFormNoTax && form != taxForm1099R {
		cand.Reasons.Add(ReasonUnrecognizedTaxForm)
	}

	cand.Status = model.StatusNeedsReview
	cand.Actions.Add(model.ActionInvestigate)
	return cand
}

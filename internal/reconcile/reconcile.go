// Package reconcile implements the reconciliation matcher (Engine A): a full
// outer join of source-of-record distributions against disbursement
// transactions, with timing-tolerance classification and inherited-plan
// tax-code rules.
package reconcile

import (
	"log/slog"

	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/common"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/config"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/model"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/normalize"
)

// Reason and expectation constants for the inherited-plan rules.
const (
	ReasonInheritedRollover = "inherited_rollover_expected_G_and_4"
	ReasonInheritedCash     = "inherited_cash_expected_4"
)

// Engine matches source distributions to disbursement transactions.
type Engine struct {
	cfg config.MatchingConfig
}

// New creates a reconciliation engine with the given matching configuration.
func New(cfg config.MatchingConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Options adjusts a single reconciliation pass.
type Options struct {
	// PlanIDs restricts both batches before matching. Nil falls back to the
	// configured default scope; an explicit empty slice matches no plans.
	PlanIDs []string
	// ApplyBusinessRules enables the inherited-plan tax-code expectations.
	ApplyBusinessRules bool
}

// joinKey is the composite natural key for one distribution transaction.
// Amounts are compared at whole-cent precision.
type joinKey struct {
	plan   string
	ssn    string
	cents  int64
	hasAmt bool
}

func keyFor(plan, ssn string, amt *float64) joinKey {
	k := joinKey{plan: plan, ssn: ssn}
	if amt != nil {
		k.cents = normalize.CentsKey(*amt)
		k.hasAmt = true
	}
	return k
}

// Reconcile produces one MatchedPair per distinct (plan, participant, gross
// amount) key present in either batch. Duplicate keys within a side collapse
// last-value-wins and are logged as a data-integrity warning: silently
// dropping transactions is a known gap the business has chosen to surface
// rather than fan out.
func (e *Engine) Reconcile(source []model.SourceRecord, disbursements []model.DisbursementRecord, opts Options) ([]model.MatchedPair, error) {
	if source == nil {
		return nil, common.MissingInput("source")
	}
	if disbursements == nil {
		return nil, common.MissingInput("disbursements")
	}

	scope := opts.PlanIDs
	if scope == nil {
		scope = e.cfg.DefaultPlanIDs
	}
	inScope := make(map[string]struct{}, len(scope))
	for _, plan := range scope {
		inScope[plan] = struct{}{}
	}

	srcByKey := make(map[joinKey]*model.SourceRecord)
	disbByKey := make(map[joinKey]*model.DisbursementRecord)
	var keyOrder []joinKey
	duplicates := 0

	for i := range source {
		rec := &source[i]
		if _, ok := inScope[rec.PlanID]; !ok {
			continue
		}
		k := keyFor(rec.PlanID, rec.ParticipantID, rec.GrossAmt)
		if _, seen := srcByKey[k]; seen {
			duplicates++
		} else {
			keyOrder = append(keyOrder, k)
		}
		srcByKey[k] = rec
	}
	for i := range disbursements {
		rec := &disbursements[i]
		if _, ok := inScope[rec.PlanID]; !ok {
			continue
		}
		k := keyFor(rec.PlanID, rec.ParticipantID, rec.GrossAmt)
		if _, seen := disbByKey[k]; seen {
			duplicates++
		} else if _, onSource := srcByKey[k]; !onSource {
			keyOrder = append(keyOrder, k)
		}
		disbByKey[k] = rec
	}
	if duplicates > 0 {
		slog.Warn("duplicate join keys collapsed last-value-wins",
			"count", duplicates,
			"key", "(plan, participant, gross)")
	}

	pairs := make([]model.MatchedPair, 0, len(keyOrder))
	for _, k := range keyOrder {
		src := srcByKey[k]
		disb := disbByKey[k]
		pair := model.MatchedPair{
			Source:        src,
			Disbursement:  disb,
			PlanID:        k.plan,
			ParticipantID: k.ssn,
		}
		switch {
		case src != nil && disb != nil:
			pair.Merge = model.MergeBoth
			pair.GrossAmt = disb.GrossAmt
		case src != nil:
			pair.Merge = model.MergeSourceOnly
			pair.GrossAmt = src.GrossAmt
		default:
			pair.Merge = model.MergeDisbursementOnly
			pair.GrossAmt = disb.GrossAmt
		}

		e.computeLag(&pair)
		e.classify(&pair, opts.ApplyBusinessRules)
		pair.NewTaxCode = model.CombineCodes(pair.SuggestedTaxCode1, pair.SuggestedTaxCode2)
		pairs = append(pairs, pair)
	}

	slog.Info("reconciliation pass complete",
		"pairs", len(pairs),
		"source_rows", len(source),
		"disbursement_rows", len(disbursements))
	return pairs, nil
}

// computeLag fills the day lag between source export and disbursement dates
// and the asymmetric tolerance flag: the source system exports before the
// disbursement is recorded, never after.
func (e *Engine) computeLag(pair *model.MatchedPair) {
	if pair.Source == nil || pair.Disbursement == nil {
		return
	}
	exported := pair.Source.ExportedDate
	txn := pair.Disbursement.TxnDate
	if exported == nil || txn == nil {
		return
	}
	lag := int(txn.Sub(*exported).Hours() / 24)
	pair.DateLagDays = &lag
	pair.WithinTolerance = lag >= 0 && lag <= e.cfg.MaxDateLagDays
}

func (e *Engine) classify(pair *model.MatchedPair, applyRules bool) {
	switch pair.Merge {
	case model.MergeSourceOnly:
		pair.Status = model.StatusUnmatchedSource
		return
	case model.MergeDisbursementOnly:
		pair.Status = model.StatusUnmatchedDisbursement
		return
	case model.MergeBoth:
	}
	if !pair.WithinTolerance {
		pair.Status = model.StatusDateOutOfRange
		return
	}
	if applyRules {
		e.applyInheritedRules(pair)
	}
	if pair.Status == "" {
		pair.Status = model.StatusNoAction
	}
}

// applyInheritedRules evaluates the inherited-plan expectations: a
// rollover-like source category expects codes 4+G, any other (cash-like)
// distribution expects 4 alone. Both codes must match for no-action.
func (e *Engine) applyInheritedRules(pair *model.MatchedPair) {
	if !e.cfg.IsInherited(pair.PlanID) || pair.Source == nil || pair.Disbursement == nil {
		return
	}

	rolloverLike := pair.Source.DistCategory.IsRolloverLike()
	pair.ExpectedTaxCode1 = "4"
	if rolloverLike {
		pair.ExpectedTaxCode2 = "G"
	}

	if pair.Disbursement.TaxCode1 == pair.ExpectedTaxCode1 &&
		pair.Disbursement.TaxCode2 == pair.ExpectedTaxCode2 {
		return
	}

	pair.Status = model.StatusNeedsCorrection
	pair.SuggestedTaxCode1 = pair.ExpectedTaxCode1
	pair.SuggestedTaxCode2 = pair.ExpectedTaxCode2
	pair.Actions.Add(model.ActionUpdate)
	if rolloverLike {
		pair.CorrectionReason = ReasonInheritedRollover
	} else {
		pair.CorrectionReason = ReasonInheritedCash
	}
}

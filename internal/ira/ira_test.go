package ira

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/common"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/config"
	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/model"
)

func d(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func newEngine() *Engine {
	return New(config.DefaultIRAConfig())
}

func rollover(method, form string) model.DisbursementRecord {
	return model.DisbursementRecord{
		PlanID:              "300001XYZ",
		ParticipantID:       "412851234",
		TransactionID:       "TXN-1",
		TaxCode1:            "G",
		TxnMethod:           "Check Distribution",
		FederalTaxingMethod: method,
		TaxForm:             form,
		TxnDate:             d(2025, 3, 1),
	}
}

func analyzeOne(t *testing.T, rec model.DisbursementRecord) model.CorrectionCandidate {
	t.Helper()
	cands, err := newEngine().Analyze([]model.DisbursementRecord{rec}, nil)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	return cands[0]
}

func TestAnalyzeRequiresDisbursements(t *testing.T) {
	_, err := newEngine().Analyze(nil, nil)
	assert.ErrorIs(t, err, common.ErrMissingInput)
}

func TestFilters(t *testing.T) {
	tests := []struct {
		mutate func(*model.DisbursementRecord)
		name   string
	}{
		{func(r *model.DisbursementRecord) { r.PlanID = "300004PLAT" }, "non ira plan"},
		{func(r *model.DisbursementRecord) { r.TxnMethod = "ACH Transfer" }, "not a check distribution"},
		{func(r *model.DisbursementRecord) { r.TaxCode1 = "7" }, "no rollover code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := rollover("Rollover", "No Tax")
			tt.mutate(&rec)

			cands, err := newEngine().Analyze([]model.DisbursementRecord{rec}, nil)
			require.NoError(t, err)
			assert.Empty(t, cands)
		})
	}
}

func TestRolloverCodeOnSecondaryPosition(t *testing.T) {
	rec := rollover("Rollover", "No Tax")
	rec.TaxCode1 = "4"
	rec.TaxCode2 = "G"

	cand := analyzeOne(t, rec)
	assert.Equal(t, model.StatusNoAction, cand.Status)
}

func TestRolloverWithNoTaxFormIsClean(t *testing.T) {
	cand := analyzeOne(t, rollover("Rollover", "No Tax"))

	assert.Equal(t, model.StatusNoAction, cand.Status)
	assert.Empty(t, cand.Actions)
	assert.Empty(t, cand.Reasons)
}

func TestRolloverIssuedTaxableFormIsCorrection(t *testing.T) {
	cand := analyzeOne(t, rollover("Rollover", "1099-R"))

	assert.Equal(t, model.StatusNeedsCorrection, cand.Status)
	assert.Equal(t, "0", cand.SuggestedTaxCode1)
	assert.Equal(t, "0", cand.NewTaxCode)
	assert.Equal(t, model.Reasons{ReasonFormShouldBeNoTax}, cand.Reasons)
	assert.True(t, cand.Actions.Has(model.ActionUpdate))
}

func TestAuditReviewReasons(t *testing.T) {
	tests := []struct {
		name   string
		method string
		form   string
		want   model.Reasons
	}{
		{"missing method", "", "No Tax", model.Reasons{ReasonMissingTaxingMethod}},
		{"method not rollover", "Periodic", "No Tax", model.Reasons{ReasonMethodNotRollover}},
		{"missing form", "Periodic", "", model.Reasons{ReasonMethodNotRollover, ReasonMissingTaxForm}},
		{"unrecognized form", "Periodic", "W-2", model.Reasons{ReasonMethodNotRollover, ReasonUnrecognizedTaxForm}},
		{"both missing", "", "", model.Reasons{ReasonMissingTaxingMethod, ReasonMissingTaxForm}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand := analyzeOne(t, rollover(tt.method, tt.form))

			assert.Equal(t, model.StatusNeedsReview, cand.Status)
			assert.Equal(t, tt.want, cand.Reasons)
			assert.True(t, cand.Actions.Has(model.ActionInvestigate))
		})
	}
}

func TestFieldNormalizationTolerance(t *testing.T) {
	// Spacing, case, and punctuation in the raw fields must not change the
	// audit outcome.
	cand := analyzeOne(t, rollover(" ROLL-OVER ", "no  tax"))
	assert.Equal(t, model.StatusNoAction, cand.Status)

	rec := rollover("rollover", "1099R")
	rec.TxnMethod = "  check   DISTRIBUTION "
	cand = analyzeOne(t, rec)
	assert.Equal(t, model.StatusNeedsCorrection, cand.Status)
}

func TestDateFilterRestrictsAudit(t *testing.T) {
	filter := &config.DateFilter{Start: d(2026, 1, 1), End: nil}

	cands, err := newEngine().Analyze([]model.DisbursementRecord{rollover("Rollover", "1099-R")}, filter)
	require.NoError(t, err)
	assert.Empty(t, cands)
}

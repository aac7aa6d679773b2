package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineCodes(t *testing.T) {
	tests := []struct {
		name  string
		code1 string
		code2 string
		want  string
	}{
		{"both present", "B", "7", "B7"},
		{"inherited pair", "4", "G", "4G"},
		{"primary only", "4", "", "4"},
		{"secondary without primary is invalid", "", "4", ""},
		{"neither", "", "", ""},
		{"normalizes case and whitespace", " b ", " g", "BG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CombineCodes(tt.code1, tt.code2))
		})
	}
}

func TestActionsAddDeduplicates(t *testing.T) {
	var actions Actions
	actions.Add(ActionUpdate)
	actions.Add(ActionInvestigate)
	actions.Add(ActionUpdate)

	assert.Equal(t, Actions{ActionUpdate, ActionInvestigate}, actions)
	assert.Equal(t, "UPDATE_1099 + INVESTIGATE", actions.Join(" + "))
}

func TestActionsIntersects(t *testing.T) {
	actions := Actions{ActionInvestigate}

	assert.True(t, actions.Intersects([]Action{ActionUpdate, ActionInvestigate}))
	assert.False(t, actions.Intersects([]Action{ActionUpdate}))
	assert.False(t, Actions(nil).Intersects([]Action{ActionUpdate}))
}

func TestReasonsAddPreservesOrderAndDeduplicates(t *testing.T) {
	var reasons Reasons
	reasons.Add("second_code_missing")
	reasons.Add("taxable_mismatch")
	reasons.Add("second_code_missing")

	assert.Equal(t, Reasons{"second_code_missing", "taxable_mismatch"}, reasons)
	assert.Equal(t, "- second_code_missing\n- taxable_mismatch", reasons.Render("- ", "\n"))
	assert.Equal(t, "", Reasons(nil).Render("- ", "\n"))
}

func TestStatusIsActionable(t *testing.T) {
	assert.True(t, StatusNeedsCorrection.IsActionable())
	assert.True(t, StatusNeedsReview.IsActionable())
	assert.False(t, StatusNoAction.IsActionable())
	assert.False(t, StatusExcluded.IsActionable())
	assert.False(t, StatusUnmatchedSource.IsActionable())
}

func TestClassifyDistName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  DistCategory
	}{
		{"rollover", "Direct Rollover to IRA", CategoryRollover},
		{"partial rollover", "Partial Rollover", CategoryPartialRollover},
		{"rmd", "2024 RMD Payment", CategoryRMD},
		{"partial liquidation", "Partial Liquidation", CategoryPartialCash},
		{"recurring payment", "Recurring Installment", CategoryPartialCash},
		{"full liquidation", "Full Account Liquidation", CategoryFinalCash},
		{"unknown", "Hardship Withdrawal", CategoryOther},
		{"empty", "", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDistName(tt.input))
		})
	}
}

func TestIsRolloverLike(t *testing.T) {
	assert.True(t, CategoryRollover.IsRolloverLike())
	assert.True(t, CategoryPartialRollover.IsRolloverLike())
	assert.False(t, CategoryRMD.IsRolloverLike())
	assert.False(t, CategoryOther.IsRolloverLike())
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", DemographicRecord{FirstName: " Ada", LastName: "Lovelace "}.FullName())
	assert.Equal(t, "Ada", DemographicRecord{FirstName: "Ada"}.FullName())
	assert.Equal(t, "", DemographicRecord{}.FullName())
}

func TestClearSuggestions(t *testing.T) {
	taxable := 0.0
	year := 2019
	cand := CorrectionCandidate{
		SuggestedTaxCode1:  "B",
		SuggestedTaxCode2:  "7",
		NewTaxCode:         "B7",
		SuggestedTaxable:   &taxable,
		SuggestedFirstYear: &year,
		Reasons:            Reasons{"taxable_mismatch"},
	}

	cand.ClearSuggestions()

	assert.Empty(t, cand.SuggestedTaxCode1)
	assert.Empty(t, cand.SuggestedTaxCode2)
	assert.Empty(t, cand.NewTaxCode)
	assert.Nil(t, cand.SuggestedTaxable)
	assert.Nil(t, cand.SuggestedFirstYear)
	assert.Nil(t, cand.Reasons)
}

func TestMatchedPairCandidate(t *testing.T) {
	txn := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	gross := 1500.0
	pair := MatchedPair{
		Disbursement: &DisbursementRecord{
			TxnDate:         &txn,
			TransactionID:   "TXN-1",
			AccountID:       "ACCT-1",
			ParticipantName: "Ada Lovelace",
			TaxCode1:        "4",
		},
		PlanID:            "300004PLAT",
		ParticipantID:     "412851234",
		GrossAmt:          &gross,
		Status:            StatusNeedsCorrection,
		SuggestedTaxCode1: "4",
		SuggestedTaxCode2: "G",
		NewTaxCode:        "4G",
		CorrectionReason:  "inherited_rollover_expected_G_and_4",
		Actions:           Actions{ActionUpdate},
	}

	cand := pair.Candidate()

	assert.Equal(t, "300004PLAT", cand.PlanID)
	assert.Equal(t, "TXN-1", cand.TransactionID)
	assert.Equal(t, "4G", cand.NewTaxCode)
	assert.Equal(t, StatusNeedsCorrection, cand.Status)
	assert.Equal(t, Reasons{"inherited_rollover_expected_G_and_4"}, cand.Reasons)
	require.NotNil(t, cand.TxnDate)
	assert.True(t, txn.Equal(*cand.TxnDate))
	require.NotNil(t, cand.GrossAmt)
	assert.InDelta(t, gross, *cand.GrossAmt, 1e-9)
}

package model

import "time"

// MergeOutcome records which side(s) of the reconciliation join produced a
// pair.
type MergeOutcome string

// Merge outcome constants.
const (
	MergeBoth             MergeOutcome = "both"
	MergeSourceOnly       MergeOutcome = "source_only"
	MergeDisbursementOnly MergeOutcome = "disbursement_only"
)

// MatchedPair is one reconciled (plan, participant, gross amount) key from
// the source/disbursement outer join, annotated with timing and business-rule
// findings.
type MatchedPair struct {
	Source            *SourceRecord
	Disbursement      *DisbursementRecord
	DateLagDays       *int
	GrossAmt          *float64
	PlanID            string
	ParticipantID     string
	Merge             MergeOutcome
	ExpectedTaxCode1  string
	ExpectedTaxCode2  string
	SuggestedTaxCode1 string
	SuggestedTaxCode2 string
	NewTaxCode        string
	CorrectionReason  string
	Status            MatchStatus
	Actions           Actions
	WithinTolerance   bool
}

// Candidate adapts the pair to the common correction-candidate shape so the
// composer can consume Engine A output like any other engine's.
func (p MatchedPair) Candidate() CorrectionCandidate {
	cand := CorrectionCandidate{
		GrossAmt:          p.GrossAmt,
		PlanID:            p.PlanID,
		ParticipantID:     p.ParticipantID,
		SuggestedTaxCode1: p.SuggestedTaxCode1,
		SuggestedTaxCode2: p.SuggestedTaxCode2,
		NewTaxCode:        p.NewTaxCode,
		Status:            p.Status,
		Actions:           append(Actions(nil), p.Actions...),
	}
	if p.CorrectionReason != "" {
		cand.Reasons.Add(p.CorrectionReason)
	}
	if d := p.Disbursement; d != nil {
		cand.TransactionID = d.TransactionID
		cand.ParticipantName = d.ParticipantName
		cand.AccountID = d.AccountID
		cand.TaxCode1 = d.TaxCode1
		cand.TaxCode2 = d.TaxCode2
		cand.FedTaxableAmt = d.FedTaxableAmt
		cand.TxnDate = cloneTime(d.TxnDate)
	}
	return cand
}

// cloneTime is a small helper for copying optional dates.
func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

package model

import (
	"strings"
	"time"
)

// CorrectionCandidate is the common output shape every engine produces for
// the correction composer. Suggested fields are set only when the engine
// recommends a change; NewTaxCode is the composed combined code.
type CorrectionCandidate struct {
	TxnDate            *time.Time
	GrossAmt           *float64
	FedTaxableAmt      *float64
	SuggestedTaxable   *float64
	SuggestedFirstYear *int
	PlanID             string
	ParticipantID      string
	TransactionID      string
	ParticipantName    string
	AccountID          string
	TaxCode1           string
	TaxCode2           string
	SuggestedTaxCode1  string
	SuggestedTaxCode2  string
	NewTaxCode         string
	Status             MatchStatus
	Actions            Actions
	Reasons            Reasons
}

// ClearSuggestions resets every suggestion and reason, used when a row
// resolves to no-action.
func (c *CorrectionCandidate) ClearSuggestions() {
	c.SuggestedTaxCode1 = ""
	c.SuggestedTaxCode2 = ""
	c.NewTaxCode = ""
	c.SuggestedTaxable = nil
	c.SuggestedFirstYear = nil
	c.Reasons = nil
}

// ComposeNewTaxCode fills NewTaxCode from the suggested code pair.
func (c *CorrectionCandidate) ComposeNewTaxCode() {
	c.NewTaxCode = CombineCodes(c.SuggestedTaxCode1, c.SuggestedTaxCode2)
}

// CombineCodes concatenates the non-empty suggested codes into a combined
// tax code ("4"+"G" -> "4G"), or "" when neither is suggested. A secondary
// code without a primary is not a valid combination and yields "".
func CombineCodes(code1, code2 string) string {
	c1 := strings.ToUpper(strings.TrimSpace(code1))
	c2 := strings.ToUpper(strings.TrimSpace(code2))
	if c1 == "" {
		return ""
	}
	return c1 + c2
}

// Package correction composes engine output into the fixed business
// correction template: filtering by status and action allow-list, splitting
// multi-action rows into correction and investigation groups, and rendering
// reasons for reviewer audit.
package correction

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/manuel-reyes-ml/1099-reconciliation-pipeline/internal/model"
)

// Rendering separators for multi-valued fields.
const (
	actionJoiner = " + "
	reasonBullet = "- "
	reasonJoiner = "\n"
)

// Columns is the fixed external template column set, in order.
var Columns = []string{
	"Transaction Id",
	"Transaction Date",
	"Participant SSN",
	"Participant Name",
	"Matrix Account",
	"Current Tax Code 1",
	"Current Tax Code 2",
	"New Tax Code",
	"New Taxable Amount",
	"New First Year Contribution",
	"Reason",
	"Action",
}

// Row is one correction-template row ready for export.
type Row struct {
	TransactionDate  *time.Time
	NewTaxableAmount *float64
	NewFirstYear     *int
	TransactionID    string
	ParticipantSSN   string
	ParticipantName  string
	Account          string
	CurrentTaxCode1  string
	CurrentTaxCode2  string
	NewTaxCode       string
	Reason           string
	Action           string
	participantKey   string
}

// Record renders the row as template-ordered strings for the export layer.
// Absent values render as empty cells.
func (r Row) Record() []string {
	date := ""
	if r.TransactionDate != nil {
		date = r.TransactionDate.Format("2006-01-02")
	}
	taxable := ""
	if r.NewTaxableAmount != nil {
		taxable = fmt.Sprintf("%.2f", *r.NewTaxableAmount)
	}
	firstYear := ""
	if r.NewFirstYear != nil {
		firstYear = fmt.Sprintf("%d", *r.NewFirstYear)
	}
	return []string{
		r.TransactionID,
		date,
		r.ParticipantSSN,
		r.ParticipantName,
		r.Account,
		r.CurrentTaxCode1,
		r.CurrentTaxCode2,
		r.NewTaxCode,
		taxable,
		firstYear,
		r.Reason,
		r.Action,
	}
}

// Build filters candidates to actionable statuses whose action set
// intersects the allow-list, then shapes and sorts the template rows. A row
// carrying both UPDATE and INVESTIGATE appears in each group its actions
// qualify it for. Empty input yields an empty, correctly-shaped result.
func Build(candidates []model.CorrectionCandidate, allowed []model.Action) []Row {
	if len(allowed) == 0 {
		allowed = []model.Action{model.ActionUpdate}
	}

	rows := make([]Row, 0, len(candidates))
	for _, cand := range candidates {
		if !cand.Status.IsActionable() {
			continue
		}
		if !cand.Actions.Intersects(allowed) {
			continue
		}
		rows = append(rows, shape(cand))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Account != rows[j].Account {
			return rows[i].Account < rows[j].Account
		}
		if rows[i].participantKey != rows[j].participantKey {
			return rows[i].participantKey < rows[j].participantKey
		}
		return earlier(rows[i].TransactionDate, rows[j].TransactionDate)
	})
	return rows
}

// BuildCorrections returns the update-only correction file rows.
func BuildCorrections(candidates []model.CorrectionCandidate) []Row {
	return Build(candidates, []model.Action{model.ActionUpdate})
}

// BuildInvestigations returns the companion review-only output.
func BuildInvestigations(candidates []model.CorrectionCandidate) []Row {
	return Build(candidates, []model.Action{model.ActionInvestigate})
}

func shape(cand model.CorrectionCandidate) Row {
	return Row{
		TransactionDate:  cand.TxnDate,
		NewTaxableAmount: cand.SuggestedTaxable,
		NewFirstYear:     cand.SuggestedFirstYear,
		TransactionID:    cand.TransactionID,
		ParticipantSSN:   cand.ParticipantID,
		ParticipantName:  cand.ParticipantName,
		Account:          cand.AccountID,
		CurrentTaxCode1:  cand.TaxCode1,
		CurrentTaxCode2:  cand.TaxCode2,
		NewTaxCode:       cand.NewTaxCode,
		Reason:           cand.Reasons.Render(reasonBullet, reasonJoiner),
		Action:           cand.Actions.Join(actionJoiner),
		participantKey:   cand.ParticipantID,
	}
}

func earlier(a, b *time.Time) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	default:
		return a.Before(*b)
	}
}

// Header returns the template column names joined for simple delimited
// export previews.
func Header(sep string) string {
	return strings.Join(Columns, sep)
}

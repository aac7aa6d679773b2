package model

import "strings"

// MatchStatus classifies a record after an engine pass.
type MatchStatus string

// Match status constants.
const (
	StatusNoAction              MatchStatus = "match_no_action"
	StatusNeedsCorrection       MatchStatus = "match_needs_correction"
	StatusNeedsReview           MatchStatus = "match_needs_review"
	StatusDateOutOfRange        MatchStatus = "date_out_of_range"
	StatusUnmatchedSource       MatchStatus = "unmatched_source"
	StatusUnmatchedDisbursement MatchStatus = "unmatched_disbursement"
	StatusInsufficientData      MatchStatus = "insufficient_data"
	StatusExcluded              MatchStatus = "excluded"
)

// IsActionable reports whether the status belongs in a correction or review
// output (as opposed to clean, unmatched, or excluded rows).
func (s MatchStatus) IsActionable() bool {
	return s == StatusNeedsCorrection || s == StatusNeedsReview
}

// Action is a recommended operator action on a flagged record.
type Action string

// Action constants.
const (
	ActionUpdate      Action = "UPDATE_1099"
	ActionInvestigate Action = "INVESTIGATE"
)

// Actions is an ordered, de-duplicating set of action tags.
type Actions []Action

// Add appends an action unless already present.
func (a *Actions) Add(action Action) {
	if !a.Has(action) {
		*a = append(*a, action)
	}
}

// Has reports whether the action is present.
func (a Actions) Has(action Action) bool {
	for _, existing := range a {
		if existing == action {
			return true
		}
	}
	return false
}

// Intersects reports whether any of the given actions is present.
func (a Actions) Intersects(allowed []Action) bool {
	for _, action := range allowed {
		if a.Has(action) {
			return true
		}
	}
	return false
}

// Join renders the action set for export, e.g. "UPDATE_1099 + INVESTIGATE".
func (a Actions) Join(sep string) string {
	parts := make([]string, len(a))
	for i, action := range a {
		parts[i] = string(action)
	}
	return strings.Join(parts, sep)
}

// Reasons is an ordered, de-duplicating set of correction-reason tokens.
type Reasons []string

// Add appends a reason unless already present.
func (r *Reasons) Add(reason string) {
	for _, existing := range *r {
		if existing == reason {
			return
		}
	}
	*r = append(*r, reason)
}

// Render joins reasons as a bulleted list for reviewer audit output.
func (r Reasons) Render(bullet, sep string) string {
	if len(r) == 0 {
		return ""
	}
	parts := make([]string, len(r))
	for i, reason := range r {
		parts[i] = bullet + reason
	}
	return strings.Join(parts, sep)
}

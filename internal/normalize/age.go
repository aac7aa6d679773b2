package normalize

import "time"

// AgeThreshold is an attained-age milestone expressed as whole years plus
// months (59½ is {59, 6}).
type AgeThreshold struct {
	Years  int
	Months int
}

// AttainedByYearEnd reports whether a participant born on dob reaches the
// threshold age on or before December 31 of the target year. Year-end
// attainment semantics: turning 59½ in October of the transaction year makes
// the participant qualified for that whole year. A nil dob or zero year is
// never attained.
func AttainedByYearEnd(dob *time.Time, year *int, threshold AgeThreshold) bool {
	if dob == nil || year == nil || *year == 0 {
		return false
	}
	attained := dob.AddDate(threshold.Years, threshold.Months, 0)
	yearEnd := time.Date(*year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return !attained.After(yearEnd)
}

// AgeYearsAt returns the year-component age (as-of year minus birth year),
// or nil when either date is missing. Diagnostic only; threshold decisions
// use AttainedByYearEnd.
func AgeYearsAt(dob, asOf *time.Time) *float64 {
	if dob == nil || asOf == nil {
		return nil
	}
	age := float64(asOf.Year() - dob.Year())
	return &age
}

// InDateWindow reports whether a date falls inside an optional [start, end]
// window. Nil bounds are open; a nil date is never inside a bounded window.
func InDateWindow(date, start, end *time.Time) bool {
	if start == nil && end == nil {
		return true
	}
	if date == nil {
		return false
	}
	if start != nil && date.Before(*start) {
		return false
	}
	if end != nil && date.After(*end) {
		return false
	}
	return true
}

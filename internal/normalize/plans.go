package normalize

import "strings"

// IsRothPlan reports whether a plan identifier matches any of the configured
// Roth prefixes or suffixes. Matching is case-insensitive on the trimmed
// identifier.
func IsRothPlan(planID string, prefixes, suffixes []string) bool {
	id := strings.ToUpper(strings.TrimSpace(planID))
	if id == "" {
		return false
	}
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(id, strings.ToUpper(prefix)) {
			return true
		}
	}
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(id, strings.ToUpper(suffix)) {
			return true
		}
	}
	return false
}

// IsIRAPlan reports whether a plan identifier matches any configured IRA
// prefix or contains any configured substring, case-insensitively.
func IsIRAPlan(planID string, prefixes, substrings []string) bool {
	id := strings.ToUpper(strings.TrimSpace(planID))
	if id == "" {
		return false
	}
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(id, strings.ToUpper(prefix)) {
			return true
		}
	}
	for _, sub := range substrings {
		if sub != "" && strings.Contains(id, strings.ToUpper(sub)) {
			return true
		}
	}
	return false
}

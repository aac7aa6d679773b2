package config

import (
	"github.com/spf13/viper"
)

// Settings bundles every engine config for one pipeline run.
type Settings struct {
	Matching  MatchingConfig
	AgeCode   AgeCodeConfig
	Roth      RothConfig
	RothCodes RothCodeConfig
	IRA       IRAConfig
}

// DefaultSettings returns the production defaults for all engines.
func DefaultSettings() Settings {
	return Settings{
		Matching:  DefaultMatchingConfig(),
		AgeCode:   DefaultAgeCodeConfig(),
		Roth:      DefaultRothConfig(),
		RothCodes: DefaultRothCodeConfig(),
		IRA:       DefaultIRAConfig(),
	}
}

// LoadSettings layers viper overrides (config file or RECON_ env vars) on
// top of the defaults. Only keys that are set override; everything else
// keeps its default.
func LoadSettings() (Settings, error) {
	s := DefaultSettings()

	if viper.IsSet("matching.max_date_lag_days") {
		s.Matching.MaxDateLagDays = viper.GetInt("matching.max_date_lag_days")
	}
	if v := viper.GetStringSlice("matching.default_plan_ids"); len(v) > 0 {
		s.Matching.DefaultPlanIDs = v
	}
	if v := viper.GetStringSlice("matching.inherited_plan_ids"); len(v) > 0 {
		s.Matching.InheritedPlanIDs = v
	}

	if v := viper.GetStringSlice("agecode.excluded_codes"); len(v) > 0 {
		s.AgeCode.ExcludedCodes = v
	}
	if viper.IsSet("agecode.normal_age_years") {
		s.AgeCode.NormalAge.Years = viper.GetInt("agecode.normal_age_years")
	}
	if viper.IsSet("agecode.normal_age_months") {
		s.AgeCode.NormalAge.Months = viper.GetInt("agecode.normal_age_months")
	}
	if viper.IsSet("agecode.term_rule_age_years") {
		s.AgeCode.TermRuleAge.Years = viper.GetInt("agecode.term_rule_age_years")
	}

	if v := viper.GetStringSlice("roth.plan_prefixes"); len(v) > 0 {
		s.Roth.PlanPrefixes = v
	}
	if v := viper.GetStringSlice("roth.plan_suffixes"); len(v) > 0 {
		s.Roth.PlanSuffixes = v
	}
	if viper.IsSet("roth.basis_coverage_year") {
		s.Roth.BasisCoverageYear = viper.GetInt("roth.basis_coverage_year")
	}
	if viper.IsSet("roth.qualified_years_since_first") {
		s.Roth.QualifiedYearsSinceFirst = viper.GetInt("roth.qualified_years_since_first")
	}
	if viper.IsSet("roth.valid_year_min") {
		s.Roth.ValidYearMin = viper.GetInt("roth.valid_year_min")
	}
	if viper.IsSet("roth.valid_year_max") {
		s.Roth.ValidYearMax = viper.GetInt("roth.valid_year_max")
	}
	if viper.IsSet("roth.taxable_proximity_pct") {
		s.Roth.TaxableProximityPct = viper.GetFloat64("roth.taxable_proximity_pct")
	}
	if v := viper.GetStringSlice("roth.excluded_codes"); len(v) > 0 {
		s.RothCodes.ExcludedCodes = v
	}

	if v := viper.GetStringSlice("ira.plan_prefixes"); len(v) > 0 {
		s.IRA.PlanPrefixes = v
	}
	if v := viper.GetStringSlice("ira.plan_substrings"); len(v) > 0 {
		s.IRA.PlanSubstrings = v
	}
	if v := viper.GetString("ira.neutral_code"); v != "" {
		s.IRA.NeutralCode = v
	}

	if err := Validate(s.Matching, s.Roth); err != nil {
		return Settings{}, err
	}
	return s, nil
}

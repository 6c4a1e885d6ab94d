package schema

import (
	"fmt"

	"dealdesk/internal/domain"
)

// Validate checks a flattened record for disallowed residual nested objects
// (an error) and suspicious-but-not-fatal gaps (warnings). Warnings never
// fail the job.
func Validate(f *Flattened) ([]domain.ValidationWarning, error) {
	for _, name := range CanonicalFields {
		v := f.Record[name]
		if v == nil || name == FieldObservations {
			continue
		}
		if _, ok := v.(map[string]any); ok {
			return nil, fmt.Errorf("field %q survived flattening as a nested object", name)
		}
	}

	var warnings []domain.ValidationWarning
	warn := func(field, msg string) {
		warnings = append(warnings, domain.ValidationWarning{Field: field, Message: msg})
	}

	if f.Record["noi"] != nil && f.Record["annual_revenue"] == nil {
		warn("annual_revenue", "NOI present without annual revenue; margin cannot be checked")
	}
	if f.Record["asking_price"] != nil && f.Record["beds"] == nil {
		warn("beds", "asking price present without bed count; per-bed price cannot be derived")
	}
	if occ, ok := asFloat(f.Record["occupancy_pct"]); ok && (occ < 0 || occ > 100) {
		warn("occupancy_pct", fmt.Sprintf("occupancy %.1f%% outside 0-100 range", occ))
	}

	medicare, okA := asFloat(f.Record["payer_mix_medicare_pct"])
	medicaid, okB := asFloat(f.Record["payer_mix_medicaid_pct"])
	private, okC := asFloat(f.Record["payer_mix_private_pct"])
	if okA && okB && okC {
		sum := medicare + medicaid + private
		if sum < 90 || sum > 110 {
			warn("payer_mix_medicare_pct", fmt.Sprintf("payer mix sums to %.1f%%, expected ~100%%", sum))
		}
	}

	if f.Record["period_months"] != nil && f.Record["reporting_period"] == nil {
		warn("reporting_period", "period length present without a named reporting period")
	}

	return warnings, nil
}

// Package schema resolves the model's two output-schema generations into one
// flat, confidence-scored deal record.
package schema

// Special-shaped canonical fields.
const (
	FieldRateTables       = "rate_tables"
	FieldDocumentTypes    = "document_types"
	FieldDataQualityNotes = "data_quality_notes"
	FieldObservations     = "observations"
)

// CanonicalFields is the full deal field list. Every field appears in the
// flat record, confidence map, and source map of every normalized result,
// defaulting to null / "not_found" / null when absent from the model output.
var CanonicalFields = []string{
	"deal_name",
	"facility_name",
	"facility_type",
	"address",
	"city",
	"state",
	"beds",
	"units",
	"occupancy_pct",
	"asking_price",
	"price_per_bed",
	"annual_revenue",
	"annual_expenses",
	"noi",
	"ebitdar",
	"margin_pct",
	"price_multiple",
	"cap_rate_pct",
	"medicare_rate",
	"medicaid_rate",
	"private_pay_rate",
	"payer_mix_medicare_pct",
	"payer_mix_medicaid_pct",
	"payer_mix_private_pct",
	FieldRateTables,
	"reporting_period",
	"period_months",
	FieldDocumentTypes,
	FieldDataQualityNotes,
	FieldObservations,
	"broker_name",
}

// ImportantFields is the checklist behind the batch completeness score.
var ImportantFields = []string{
	"facility_name",
	"beds",
	"occupancy_pct",
	"asking_price",
	"annual_revenue",
	"annual_expenses",
	"noi",
	"medicare_rate",
	"medicaid_rate",
	"reporting_period",
}

// setFields are classification sets merged by dedup-union in batch mode.
var setFields = map[string]bool{
	FieldDocumentTypes:    true,
	FieldDataQualityNotes: true,
}

// IsSetField reports whether a field is a classification set.
func IsSetField(name string) bool { return setFields[name] }

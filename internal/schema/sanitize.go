package schema

import "dealdesk/internal/domain"

// derivedField describes one pure-arithmetic backfill.
type derivedField struct {
	name    string
	numer   string
	denom   string
	compute func(numer, denom float64) float64
}

var derivedFields = []derivedField{
	{"price_per_bed", "asking_price", "beds", func(n, d float64) float64 { return n / d }},
	{"margin_pct", "noi", "annual_revenue", func(n, d float64) float64 { return n / d * 100 }},
	{"price_multiple", "asking_price", "noi", func(n, d float64) float64 { return n / d }},
}

// Sanitize backfills still-missing derived fields, only when both operands
// are present and non-zero and the derived field itself is absent. Derived
// values get medium confidence and a citation naming their operands.
func Sanitize(f *Flattened) {
	for _, df := range derivedFields {
		if f.Record[df.name] != nil {
			continue
		}
		numer, okN := asFloat(f.Record[df.numer])
		denom, okD := asFloat(f.Record[df.denom])
		if !okN || !okD || numer == 0 || denom == 0 {
			continue
		}
		f.Record[df.name] = df.compute(numer, denom)
		f.Confidence[df.name] = domain.ConfidenceMedium
		source := "computed from " + df.numer + " and " + df.denom
		f.Sources[df.name] = &source
	}
}

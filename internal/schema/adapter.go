package schema

import (
	"strconv"
	"strings"

	"dealdesk/internal/domain"
)

// Generation identifies which historical output schema produced a parsed
// record.
type Generation string

const (
	// GenerationModern is the newer, flatter shape: scalar values under a
	// top-level "fields" object with parallel "confidence" and "sources" maps.
	GenerationModern Generation = "modern"
	// GenerationLegacy is the older shape: every leaf field is itself an
	// object carrying {value, confidence, source}.
	GenerationLegacy Generation = "legacy"
)

// Flattened bundles the three parallel structures produced by one
// normalization pass.
type Flattened struct {
	Record     domain.FlatRecord
	Confidence domain.ConfidenceMap
	Sources    domain.SourceMap
}

// Adapter flattens one schema generation into the canonical form. Both
// generations implement this single interface so they cannot drift apart.
type Adapter interface {
	Flatten(raw map[string]any) *Flattened
}

// DetectGeneration inspects generation-specific top-level keys to decide
// which adapter applies.
func DetectGeneration(raw map[string]any) Generation {
	if f, ok := raw["fields"].(map[string]any); ok && f != nil {
		return GenerationModern
	}
	if v, ok := raw["schema_version"]; ok {
		if n, ok := asFloat(v); ok && n >= 2 {
			return GenerationModern
		}
	}
	return GenerationLegacy
}

// AdapterFor returns the adapter for a schema generation.
func AdapterFor(g Generation) Adapter {
	if g == GenerationModern {
		return modernAdapter{}
	}
	return legacyAdapter{}
}

// Normalize runs the full pipeline stage: detect the generation, flatten,
// validate, and compute derived fields. Warnings are returned alongside a
// successful result; only a residual-nested-object failure returns an error.
func Normalize(raw map[string]any) (*Flattened, []domain.ValidationWarning, error) {
	f := AdapterFor(DetectGeneration(raw)).Flatten(raw)
	warnings, err := Validate(f)
	if err != nil {
		return nil, warnings, err
	}
	Sanitize(f)
	return f, warnings, nil
}

// EmptyFlattened returns a Flattened with every canonical field defaulted to
// null / not_found / null. Callers accumulating merged batch results start
// from this shape so the canonical-field invariant holds even when every
// document fails.
func EmptyFlattened() *Flattened {
	return newFlattened()
}

// newFlattened returns a Flattened with every canonical field defaulted to
// null / not_found / null.
func newFlattened() *Flattened {
	f := &Flattened{
		Record:     make(domain.FlatRecord, len(CanonicalFields)),
		Confidence: make(domain.ConfidenceMap, len(CanonicalFields)),
		Sources:    make(domain.SourceMap, len(CanonicalFields)),
	}
	for _, name := range CanonicalFields {
		f.Record[name] = nil
		f.Confidence[name] = domain.ConfidenceNotFound
		f.Sources[name] = nil
	}
	return f
}

// normalizeConfidence accepts both the string levels of the modern generation
// and the numeric scores some legacy responses carry. A present value with no
// usable confidence defaults to "low" rather than overstating certainty.
func normalizeConfidence(v any, hasValue bool) domain.Confidence {
	switch c := v.(type) {
	case string:
		switch strings.ToLower(strings.TrimSpace(c)) {
		case "high":
			return domain.ConfidenceHigh
		case "medium":
			return domain.ConfidenceMedium
		case "low":
			return domain.ConfidenceLow
		case "not_found", "notfound", "none", "":
			if hasValue {
				return domain.ConfidenceLow
			}
			return domain.ConfidenceNotFound
		}
	case float64:
		switch {
		case c >= 0.8:
			return domain.ConfidenceHigh
		case c >= 0.5:
			return domain.ConfidenceMedium
		case c > 0:
			return domain.ConfidenceLow
		}
		return domain.ConfidenceNotFound
	}
	if hasValue {
		return domain.ConfidenceLow
	}
	return domain.ConfidenceNotFound
}

// toSourcePtr converts a raw source citation to the SourceMap representation.
func toSourcePtr(v any) *string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// normalizeObservations converts either generation's observation shape into
// the four-bucket structured form. A legacy uncategorized array defaults into
// the "risks" bucket, an explicit compatibility choice rather than data loss.
func normalizeObservations(v any) map[string]any {
	buckets := map[string]any{
		"strengths":         []any{},
		"risks":             []any{},
		"missing_data":      []any{},
		"calculation_notes": []any{},
	}
	switch obs := v.(type) {
	case nil:
		return nil
	case []any:
		risks := make([]any, 0, len(obs))
		for _, entry := range obs {
			if s, ok := entry.(string); ok && strings.TrimSpace(s) != "" {
				risks = append(risks, s)
			}
		}
		buckets["risks"] = risks
	case map[string]any:
		for name := range buckets {
			if list, ok := obs[name].([]any); ok {
				kept := make([]any, 0, len(list))
				for _, entry := range list {
					if s, ok := entry.(string); ok && strings.TrimSpace(s) != "" {
						kept = append(kept, s)
					}
				}
				buckets[name] = kept
			}
		}
	default:
		return nil
	}
	return buckets
}

// normalizeStringList coerces a classification set or string array to []any
// of non-empty strings.
func normalizeStringList(v any) []any {
	list, ok := v.([]any)
	if !ok {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return []any{s}
		}
		return nil
	}
	out := make([]any, 0, len(list))
	for _, entry := range list {
		if s, ok := entry.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// asFloat coerces the numeric representations seen in model output.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		s = strings.TrimPrefix(s, "$")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

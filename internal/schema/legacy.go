package schema

import "dealdesk/internal/domain"

// legacyAdapter flattens the older generation, where every leaf field is an
// object carrying {value, confidence, source}. Raw fields that are not
// wrapper objects pass through unchanged, which also makes flattening
// idempotent on already-flat input.
type legacyAdapter struct{}

func (legacyAdapter) Flatten(raw map[string]any) *Flattened {
	f := newFlattened()
	for _, name := range CanonicalFields {
		rv, present := raw[name]
		if !present || rv == nil {
			continue
		}

		value, conf, source := unwrapLegacy(rv)

		switch {
		case name == FieldObservations:
			// Legacy responses carry observations as an uncategorized flat
			// array; normalizeObservations buckets those under "risks".
			obs := normalizeObservations(value)
			if obs == nil {
				continue
			}
			value = obs
		case name == FieldRateTables:
			list, ok := value.([]any)
			if !ok || len(list) == 0 {
				continue
			}
			value = list
		case IsSetField(name):
			list := normalizeStringList(value)
			if len(list) == 0 {
				continue
			}
			value = list
		}

		if value == nil {
			continue
		}
		f.Record[name] = value
		f.Confidence[name] = conf
		f.Sources[name] = source
	}
	return f
}

// unwrapLegacy returns the .value of a {value, confidence, source} wrapper,
// or the raw field unchanged when it is not a wrapper object.
func unwrapLegacy(v any) (any, domain.Confidence, *string) {
	m, ok := v.(map[string]any)
	if !ok {
		return v, normalizeConfidence(nil, true), nil
	}
	value, hasValue := m["value"]
	if !hasValue {
		// Nested object that is not a wrapper; the validator decides whether
		// it is allowed to survive flattening.
		return v, normalizeConfidence(nil, true), nil
	}
	return value, normalizeConfidence(m["confidence"], value != nil), toSourcePtr(m["source"])
}

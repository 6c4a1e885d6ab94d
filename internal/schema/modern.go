package schema

// modernAdapter flattens the newer generation: already-scalar values under a
// top-level "fields" object, with parallel "confidence" and "sources" maps.
type modernAdapter struct{}

func (modernAdapter) Flatten(raw map[string]any) *Flattened {
	fields, _ := raw["fields"].(map[string]any)
	conf, _ := raw["confidence"].(map[string]any)
	sources, _ := raw["sources"].(map[string]any)

	f := newFlattened()
	for _, name := range CanonicalFields {
		v, present := fields[name]
		if !present || v == nil {
			continue
		}

		switch {
		case name == FieldObservations:
			obs := normalizeObservations(v)
			if obs == nil {
				continue
			}
			f.Record[name] = obs
		case name == FieldRateTables:
			list, ok := v.([]any)
			if !ok || len(list) == 0 {
				continue
			}
			f.Record[name] = list
		case IsSetField(name):
			list := normalizeStringList(v)
			if len(list) == 0 {
				continue
			}
			f.Record[name] = list
		default:
			f.Record[name] = v
		}

		f.Confidence[name] = normalizeConfidence(conf[name], true)
		f.Sources[name] = toSourcePtr(sources[name])
	}
	return f
}

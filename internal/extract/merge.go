package extract

import (
	"dealdesk/internal/domain"
	"dealdesk/internal/schema"
)

// Merge policy ("last-non-null-wins"): in sequential mode, per-document
// results are folded in call order. A later document's non-null value
// replaces an earlier one, but a later null or empty value never overwrites
// an earlier populated value. Rate-table arrays are concatenated
// without de-duplication; classification sets and observation buckets are
// unioned with de-duplication.

// mergeFlattened folds next into acc in place.
func mergeFlattened(acc, next *schema.Flattened) {
	for _, name := range schema.CanonicalFields {
		incoming := next.Record[name]
		if incoming == nil {
			continue
		}

		switch {
		case name == schema.FieldObservations:
			acc.Record[name] = mergeObservations(acc.Record[name], incoming)
			bumpMeta(acc, next, name)
		case name == schema.FieldRateTables:
			existing, _ := acc.Record[name].([]any)
			list, _ := incoming.([]any)
			if len(list) == 0 {
				continue
			}
			acc.Record[name] = append(existing, list...)
			bumpMeta(acc, next, name)
		case schema.IsSetField(name):
			list, _ := incoming.([]any)
			if len(list) == 0 {
				continue
			}
			existing, _ := acc.Record[name].([]any)
			acc.Record[name] = unionStrings(existing, list)
			bumpMeta(acc, next, name)
		default:
			if s, ok := incoming.(string); ok && s == "" {
				continue // empty never overwrites
			}
			acc.Record[name] = incoming
			acc.Confidence[name] = next.Confidence[name]
			acc.Sources[name] = next.Sources[name]
		}
	}
}

// bumpMeta updates confidence and source for accumulated collection fields:
// confidence keeps the best level seen, source keeps the first citation.
func bumpMeta(acc, next *schema.Flattened, name string) {
	if next.Confidence[name].Rank() > acc.Confidence[name].Rank() {
		acc.Confidence[name] = next.Confidence[name]
	}
	if acc.Sources[name] == nil {
		acc.Sources[name] = next.Sources[name]
	}
}

func mergeObservations(existing, incoming any) any {
	in, ok := incoming.(map[string]any)
	if !ok {
		return existing
	}
	ex, ok := existing.(map[string]any)
	if !ok {
		return in
	}
	out := make(map[string]any, len(ex))
	for bucket, list := range ex {
		exList, _ := list.([]any)
		inList, _ := in[bucket].([]any)
		out[bucket] = unionStrings(exList, inList)
	}
	return out
}

// unionStrings appends entries of b not already present in a, preserving
// first-seen order.
func unionStrings(a, b []any) []any {
	seen := make(map[string]bool, len(a))
	out := make([]any, 0, len(a)+len(b))
	for _, v := range a {
		if s, ok := v.(string); ok {
			if seen[s] {
				continue
			}
			seen[s] = true
		}
		out = append(out, v)
	}
	for _, v := range b {
		if s, ok := v.(string); ok {
			if seen[s] {
				continue
			}
			seen[s] = true
		}
		out = append(out, v)
	}
	return out
}

// completeness is the fraction of the important-field checklist that ended up
// non-null in the merged record.
func completeness(record domain.FlatRecord) float64 {
	if len(schema.ImportantFields) == 0 {
		return 0
	}
	filled := 0
	for _, name := range schema.ImportantFields {
		if v, ok := record[name]; ok && v != nil {
			if s, isStr := v.(string); isStr && s == "" {
				continue
			}
			filled++
		}
	}
	return float64(filled) / float64(len(schema.ImportantFields))
}

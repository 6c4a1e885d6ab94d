package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/domain"
	"dealdesk/internal/schema"
)

func flattenedWith(t *testing.T, fields map[string]any) *schema.Flattened {
	t.Helper()
	f, _, err := schema.Normalize(map[string]any{"fields": fields})
	require.NoError(t, err)
	return f
}

func TestMergeFlattened_LaterNullNeverOverwrites(t *testing.T) {
	acc := schema.EmptyFlattened()
	first := flattenedWith(t, map[string]any{"beds": float64(5)})
	second := flattenedWith(t, map[string]any{"facility_name": "Oak Ridge"}) // beds null here

	mergeFlattened(acc, first)
	mergeFlattened(acc, second)

	assert.Equal(t, float64(5), acc.Record["beds"])
	assert.Equal(t, "Oak Ridge", acc.Record["facility_name"])
}

func TestMergeFlattened_LaterValueWins(t *testing.T) {
	acc := schema.EmptyFlattened()
	mergeFlattened(acc, flattenedWith(t, map[string]any{"occupancy_pct": float64(82)}))
	mergeFlattened(acc, flattenedWith(t, map[string]any{"occupancy_pct": float64(88)}))

	assert.Equal(t, float64(88), acc.Record["occupancy_pct"])
}

func TestMergeFlattened_EmptyStringNeverOverwrites(t *testing.T) {
	acc := schema.EmptyFlattened()
	mergeFlattened(acc, flattenedWith(t, map[string]any{"broker_name": "Blueprint"}))
	mergeFlattened(acc, flattenedWith(t, map[string]any{"broker_name": ""}))

	assert.Equal(t, "Blueprint", acc.Record["broker_name"])
}

func TestMergeFlattened_RateTablesAppend(t *testing.T) {
	acc := schema.EmptyFlattened()
	t1 := map[string]any{"payer": "medicaid", "rate": float64(245)}
	t2 := map[string]any{"payer": "medicare", "rate": float64(612)}

	mergeFlattened(acc, flattenedWith(t, map[string]any{"rate_tables": []any{t1}}))
	mergeFlattened(acc, flattenedWith(t, map[string]any{"rate_tables": []any{t2}}))

	tables := acc.Record["rate_tables"].([]any)
	require.Len(t, tables, 2)
	assert.Equal(t, t1, tables[0])
	assert.Equal(t, t2, tables[1])
}

func TestMergeFlattened_SetsUnionWithDedup(t *testing.T) {
	acc := schema.EmptyFlattened()
	mergeFlattened(acc, flattenedWith(t, map[string]any{"document_types": []any{"offering_memorandum", "rent_roll"}}))
	mergeFlattened(acc, flattenedWith(t, map[string]any{"document_types": []any{"rent_roll", "financial_statement"}}))

	assert.Equal(t, []any{"offering_memorandum", "rent_roll", "financial_statement"}, acc.Record["document_types"])
}

func TestMergeFlattened_ObservationBucketsUnion(t *testing.T) {
	acc := schema.EmptyFlattened()
	mergeFlattened(acc, flattenedWith(t, map[string]any{
		"observations": map[string]any{"risks": []any{"medicaid heavy"}},
	}))
	mergeFlattened(acc, flattenedWith(t, map[string]any{
		"observations": map[string]any{
			"risks":     []any{"medicaid heavy", "deferred maintenance"},
			"strengths": []any{"stable census"},
		},
	}))

	obs := acc.Record["observations"].(map[string]any)
	assert.Equal(t, []any{"medicaid heavy", "deferred maintenance"}, obs["risks"])
	assert.Equal(t, []any{"stable census"}, obs["strengths"])
}

func TestMergeFlattened_ConfidenceAndSourceFollowValue(t *testing.T) {
	acc := schema.EmptyFlattened()
	first, _, err := schema.Normalize(map[string]any{
		"fields":     map[string]any{"noi": float64(1000000)},
		"confidence": map[string]any{"noi": "low"},
		"sources":    map[string]any{"noi": "broker summary"},
	})
	require.NoError(t, err)
	second, _, err := schema.Normalize(map[string]any{
		"fields":     map[string]any{"noi": float64(1150000)},
		"confidence": map[string]any{"noi": "high"},
		"sources":    map[string]any{"noi": "financials.xlsx TTM tab"},
	})
	require.NoError(t, err)

	mergeFlattened(acc, first)
	mergeFlattened(acc, second)

	assert.Equal(t, float64(1150000), acc.Record["noi"])
	assert.Equal(t, domain.ConfidenceHigh, acc.Confidence["noi"])
	require.NotNil(t, acc.Sources["noi"])
	assert.Equal(t, "financials.xlsx TTM tab", *acc.Sources["noi"])
}

func TestCompleteness(t *testing.T) {
	empty := schema.EmptyFlattened()
	assert.Equal(t, float64(0), completeness(empty.Record))

	half := flattenedWith(t, map[string]any{
		"facility_name":  "Oak Ridge",
		"beds":           float64(120),
		"occupancy_pct":  float64(88),
		"asking_price":   float64(9000000),
		"annual_revenue": float64(11000000),
	})
	// 5 of the 10 checklist fields are filled; derived price_per_bed is not on the checklist
	assert.InDelta(t, 0.5, completeness(half.Record), 1e-9)
}

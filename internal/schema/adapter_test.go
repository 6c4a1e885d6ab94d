package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/domain"
	"dealdesk/internal/schema"
)

func TestDetectGeneration_FieldsKeyIsModern(t *testing.T) {
	raw := map[string]any{"fields": map[string]any{"beds": float64(120)}}
	assert.Equal(t, schema.GenerationModern, schema.DetectGeneration(raw))
}

func TestDetectGeneration_SchemaVersionIsModern(t *testing.T) {
	assert.Equal(t, schema.GenerationModern, schema.DetectGeneration(map[string]any{"schema_version": float64(2)}))
	assert.Equal(t, schema.GenerationLegacy, schema.DetectGeneration(map[string]any{"schema_version": float64(1)}))
}

func TestDetectGeneration_DefaultIsLegacy(t *testing.T) {
	raw := map[string]any{"beds": map[string]any{"value": float64(120)}}
	assert.Equal(t, schema.GenerationLegacy, schema.DetectGeneration(raw))
}

func TestModernFlatten(t *testing.T) {
	raw := map[string]any{
		"fields": map[string]any{
			"facility_name": "Oak Ridge Care Center",
			"beds":          float64(120),
			"rate_tables": []any{
				map[string]any{"payer": "medicaid", "rate": float64(245.5)},
			},
			"document_types": []any{"offering_memorandum"},
			"observations": map[string]any{
				"strengths": []any{"stable census"},
				"risks":     []any{"medicaid heavy"},
			},
		},
		"confidence": map[string]any{
			"facility_name": "high",
			"beds":          "medium",
		},
		"sources": map[string]any{
			"facility_name": "om.pdf p.1 cover",
		},
	}

	f, warnings, err := schema.Normalize(raw)

	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "Oak Ridge Care Center", f.Record["facility_name"])
	assert.Equal(t, float64(120), f.Record["beds"])
	assert.Equal(t, domain.ConfidenceHigh, f.Confidence["facility_name"])
	assert.Equal(t, domain.ConfidenceMedium, f.Confidence["beds"])
	require.NotNil(t, f.Sources["facility_name"])
	assert.Equal(t, "om.pdf p.1 cover", *f.Sources["facility_name"])

	obs := f.Record["observations"].(map[string]any)
	assert.Equal(t, []any{"stable census"}, obs["strengths"])
	assert.Equal(t, []any{"medicaid heavy"}, obs["risks"])
	assert.Equal(t, []any{}, obs["missing_data"])
}

func TestLegacyFlatten_UnwrapsValueObjects(t *testing.T) {
	raw := map[string]any{
		"facility_name": map[string]any{"value": "Oak Ridge", "confidence": "high", "source": "om.pdf"},
		"beds":          map[string]any{"value": float64(120), "confidence": float64(0.9)},
		"noi":           map[string]any{"value": nil, "confidence": "not_found"},
	}

	f := schema.AdapterFor(schema.GenerationLegacy).Flatten(raw)

	assert.Equal(t, "Oak Ridge", f.Record["facility_name"])
	assert.Equal(t, domain.ConfidenceHigh, f.Confidence["facility_name"])
	assert.Equal(t, float64(120), f.Record["beds"])
	// numeric 0.9 maps to high
	assert.Equal(t, domain.ConfidenceHigh, f.Confidence["beds"])
	// wrapped null stays null
	assert.Nil(t, f.Record["noi"])
	assert.Equal(t, domain.ConfidenceNotFound, f.Confidence["noi"])
}

func TestLegacyFlatten_FlatObservationsBucketAsRisks(t *testing.T) {
	raw := map[string]any{
		"observations": []any{"heavy medicaid mix", "old physical plant"},
	}

	f := schema.AdapterFor(schema.GenerationLegacy).Flatten(raw)

	obs := f.Record["observations"].(map[string]any)
	assert.Equal(t, []any{"heavy medicaid mix", "old physical plant"}, obs["risks"])
	assert.Equal(t, []any{}, obs["strengths"])
}

func TestFlatten_EveryCanonicalFieldPresent(t *testing.T) {
	for _, f := range []*schema.Flattened{
		schema.AdapterFor(schema.GenerationModern).Flatten(map[string]any{}),
		schema.AdapterFor(schema.GenerationLegacy).Flatten(map[string]any{}),
	} {
		for _, name := range schema.CanonicalFields {
			v, ok := f.Record[name]
			assert.True(t, ok, name)
			assert.Nil(t, v, name)
			assert.Equal(t, domain.ConfidenceNotFound, f.Confidence[name], name)
			assert.Nil(t, f.Sources[name], name)
		}
	}
}

func TestFlatten_IdempotentOnFlatInput(t *testing.T) {
	raw := map[string]any{
		"facility_name": "Oak Ridge",
		"beds":          float64(120),
		"document_types": []any{
			"financial_statement",
		},
	}

	once := schema.AdapterFor(schema.GenerationLegacy).Flatten(raw)
	twice := schema.AdapterFor(schema.GenerationLegacy).Flatten(map[string]any(once.Record))

	assert.Equal(t, once.Record["facility_name"], twice.Record["facility_name"])
	assert.Equal(t, once.Record["beds"], twice.Record["beds"])
	assert.Equal(t, once.Record["document_types"], twice.Record["document_types"])
}

func TestNormalizeConfidence_ValueWithoutConfidenceIsLow(t *testing.T) {
	raw := map[string]any{
		"fields": map[string]any{"beds": float64(120)},
	}

	f, _, err := schema.Normalize(raw)

	require.NoError(t, err)
	assert.Equal(t, domain.ConfidenceLow, f.Confidence["beds"])
}

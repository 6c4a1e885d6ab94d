package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealdesk/internal/domain"
	"dealdesk/internal/schema"
)

func normalized(t *testing.T, fields map[string]any) *schema.Flattened {
	t.Helper()
	f, _, err := schema.Normalize(map[string]any{"fields": fields})
	require.NoError(t, err)
	return f
}

func TestSanitize_DerivesPricePerBed(t *testing.T) {
	f := normalized(t, map[string]any{
		"asking_price": float64(9000000),
		"beds":         float64(120),
	})

	assert.Equal(t, float64(75000), f.Record["price_per_bed"])
	assert.Equal(t, domain.ConfidenceMedium, f.Confidence["price_per_bed"])
	require.NotNil(t, f.Sources["price_per_bed"])
	assert.Equal(t, "computed from asking_price and beds", *f.Sources["price_per_bed"])
}

func TestSanitize_DerivesMarginAndMultiple(t *testing.T) {
	f := normalized(t, map[string]any{
		"noi":            float64(1200000),
		"annual_revenue": float64(12000000),
		"asking_price":   float64(9600000),
	})

	assert.Equal(t, float64(10), f.Record["margin_pct"])
	assert.Equal(t, float64(8), f.Record["price_multiple"])
}

func TestSanitize_NeverOverwritesExtractedValue(t *testing.T) {
	f := normalized(t, map[string]any{
		"asking_price":  float64(9000000),
		"beds":          float64(120),
		"price_per_bed": float64(72000), // stated in the document, keep it
	})

	assert.Equal(t, float64(72000), f.Record["price_per_bed"])
}

func TestSanitize_SkipsZeroOperands(t *testing.T) {
	f := normalized(t, map[string]any{
		"asking_price": float64(9000000),
		"beds":         float64(0),
	})

	assert.Nil(t, f.Record["price_per_bed"])
}

func TestSanitize_SkipsMissingOperands(t *testing.T) {
	f := normalized(t, map[string]any{
		"noi": float64(1200000),
	})

	assert.Nil(t, f.Record["margin_pct"])
	assert.Nil(t, f.Record["price_multiple"])
}

func TestSanitize_CoercesFormattedStrings(t *testing.T) {
	f := normalized(t, map[string]any{
		"asking_price": "$9,000,000",
		"beds":         "120",
	})

	assert.Equal(t, float64(75000), f.Record["price_per_bed"])
}

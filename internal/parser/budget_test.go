package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"dealdesk/internal/domain"
	"dealdesk/internal/parser"
)

func textContent(chars int) domain.ExtractedContent {
	return domain.TextContent(strings.Repeat("a", chars))
}

func imageContent(pages int) domain.ExtractedContent {
	raster := make([]domain.RasterPage, pages)
	for i := range raster {
		raster[i] = domain.RasterPage{PageNumber: i + 1, ImageBytes: []byte{0}, MediaType: "image/png"}
	}
	return domain.ImageContent(raster)
}

func TestEstimateTokens_TextRoundsUp(t *testing.T) {
	est := parser.EstimateTokens([]domain.ExtractedContent{textContent(401)}, 0)

	assert.Equal(t, 101, est.TextTokens)
	assert.Equal(t, 0, est.ImageTokens)
	assert.Equal(t, 101, est.EstimatedTokens)
}

func TestEstimateTokens_CountsRunesNotBytes(t *testing.T) {
	// 8 characters of 3-byte UTF-8 text is still ceil(8/4) = 2 tokens
	text := strings.Repeat("€", 8)
	est := parser.EstimateTokens([]domain.ExtractedContent{domain.TextContent(text)}, 0)

	assert.Equal(t, 2, est.TextTokens)
}

func TestEstimateTokens_ImagesUseFlatCost(t *testing.T) {
	est := parser.EstimateTokens([]domain.ExtractedContent{imageContent(3)}, 0)

	assert.Equal(t, 3*parser.DefaultTokensPerImage, est.ImageTokens)
}

func TestEstimateTokens_MixedBatch(t *testing.T) {
	contents := []domain.ExtractedContent{textContent(8000), imageContent(2), textContent(4000)}

	est := parser.EstimateTokens(contents, 1000)

	assert.Equal(t, 3000, est.TextTokens)
	assert.Equal(t, 2000, est.ImageTokens)
	assert.Equal(t, 5000, est.EstimatedTokens)
}

func TestFitsCombined_CeilingBoundary(t *testing.T) {
	// exactly at the ceiling still fits; one past it does not
	at := parser.EstimateTokens([]domain.ExtractedContent{textContent(1000 * parser.CharsPerToken)}, 0)
	over := parser.EstimateTokens([]domain.ExtractedContent{textContent(1000*parser.CharsPerToken + 1)}, 0)

	assert.True(t, at.FitsCombined(1000))
	assert.False(t, over.FitsCombined(1000))
}

func TestFitsCombined_DefaultCeiling(t *testing.T) {
	est := parser.EstimateTokens([]domain.ExtractedContent{textContent(100)}, 0)

	assert.True(t, est.FitsCombined(0))
}

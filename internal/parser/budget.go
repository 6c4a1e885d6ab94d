package parser

import (
	"unicode/utf8"

	"dealdesk/internal/domain"
)

// Token budget constants for the batch combined-call decision. The per-image
// constant approximates what a full page costs at our render scale; the
// ceiling leaves headroom below a 200k-token model context.
const (
	CharsPerToken         = 4
	DefaultTokensPerImage = 1500
	DefaultTokenCeiling   = 150000
)

// BudgetEstimate is the approximate cost of combining a batch into one request.
type BudgetEstimate struct {
	TextTokens      int
	ImageTokens     int
	EstimatedTokens int
}

// EstimateTokens computes a batch's approximate combined-request cost:
// textTokens = ceil(totalChars/4) counting runes, imageTokens = imageCount *
// tokensPerImage.
func EstimateTokens(contents []domain.ExtractedContent, tokensPerImage int) BudgetEstimate {
	if tokensPerImage <= 0 {
		tokensPerImage = DefaultTokensPerImage
	}
	totalChars := 0
	imageCount := 0
	for _, c := range contents {
		switch c.Kind {
		case domain.ContentText:
			totalChars += utf8.RuneCountInString(c.Text)
		case domain.ContentImages:
			imageCount += len(c.Pages)
		}
	}
	est := BudgetEstimate{
		TextTokens:  (totalChars + CharsPerToken - 1) / CharsPerToken,
		ImageTokens: imageCount * tokensPerImage,
	}
	est.EstimatedTokens = est.TextTokens + est.ImageTokens
	return est
}

// FitsCombined reports whether the batch fits the combined-call safety ceiling.
// This is a proactive, one-time decision; it is never re-evaluated per retry.
func (b BudgetEstimate) FitsCombined(ceiling int) bool {
	if ceiling <= 0 {
		ceiling = DefaultTokenCeiling
	}
	return b.EstimatedTokens <= ceiling
}

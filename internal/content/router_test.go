package content_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"dealdesk/internal/content"
	"dealdesk/internal/domain"
)

func TestExtractText_PlainTextPassthrough(t *testing.T) {
	body := strings.Repeat("monthly census and revenue detail ", 10)
	doc := domain.NewSourceDocument([]byte(body), "text/plain", "census.txt")

	text, ok := content.ExtractText(doc)

	assert.True(t, ok)
	assert.Equal(t, body, text)
}

func TestExtractText_ShortTextRoutesToVision(t *testing.T) {
	// 99 trimmed chars is below the usable-text threshold.
	body := strings.Repeat("x", content.MinTextChars-1)
	doc := domain.NewSourceDocument([]byte(body), "text/plain", "stub.txt")

	text, ok := content.ExtractText(doc)

	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestExtractText_ThresholdUsesTrimmedLength(t *testing.T) {
	// Whitespace padding must not count toward the threshold.
	body := strings.Repeat("y", content.MinTextChars-1) + strings.Repeat(" ", 50)
	doc := domain.NewSourceDocument([]byte(body), "text/plain", "padded.txt")

	_, ok := content.ExtractText(doc)

	assert.False(t, ok)
}

func TestExtractText_ExactThresholdIsUsable(t *testing.T) {
	body := strings.Repeat("z", content.MinTextChars)
	doc := domain.NewSourceDocument([]byte(body), "text/plain", "exact.txt")

	_, ok := content.ExtractText(doc)

	assert.True(t, ok)
}

func TestExtractText_ImageAlwaysVision(t *testing.T) {
	// Even a large image payload never yields text.
	doc := domain.NewSourceDocument(make([]byte, 4096), "image/png", "scan.png")

	text, ok := content.ExtractText(doc)

	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestExtractText_MalformedPDFDoesNotPanic(t *testing.T) {
	doc := domain.NewSourceDocument([]byte("%PDF-1.7 garbage not a real pdf"), "application/pdf", "broken.pdf")

	assert.NotPanics(t, func() {
		_, ok := content.ExtractText(doc)
		assert.False(t, ok)
	})
}

func TestExtractText_MalformedSpreadsheetDoesNotPanic(t *testing.T) {
	doc := domain.NewSourceDocument([]byte("PK\x03\x04 truncated zip"), "", "deal.xlsx")

	assert.NotPanics(t, func() {
		_, ok := content.ExtractText(doc)
		assert.False(t, ok)
	})
}

func TestExtractText_UnknownFormat(t *testing.T) {
	doc := domain.NewSourceDocument([]byte("binary blob"), "application/octet-stream", "deal.bin")

	_, ok := content.ExtractText(doc)

	assert.False(t, ok)
}

func TestDetectFormat_MIMEWinsOverExtension(t *testing.T) {
	assert.Equal(t, domain.FormatPDF, domain.DetectFormat("application/pdf", "deal.txt"))
}

func TestDetectFormat_ExtensionFallback(t *testing.T) {
	assert.Equal(t, domain.FormatSpreadsheet, domain.DetectFormat("application/octet-stream", "Deal Financials.XLSX"))
	assert.Equal(t, domain.FormatImage, domain.DetectFormat("", "scan.JPG"))
	assert.Equal(t, domain.FormatUnknown, domain.DetectFormat("", "noext"))
}

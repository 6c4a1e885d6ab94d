// Package content decides, per document, whether usable text can be extracted
// or the vision path must be taken.
package content

import (
	"log"
	"strings"

	"dealdesk/internal/domain"
)

// MinTextChars is the minimum trimmed length for extracted text to be
// considered usable. Anything shorter routes to the vision path.
const MinTextChars = 100

// ExtractText attempts to pull usable text out of a document. ok is false when
// the document has no usable text and the caller should fall back to vision
// (or report a per-document failure for formats without a vision path).
// Decode failures never propagate: this function must not abort the job.
func ExtractText(doc domain.SourceDocument) (text string, ok bool) {
	defer func() {
		// Some decoders panic on malformed input; treat that as "no text".
		if r := recover(); r != nil {
			log.Printf("content: recovered decoding %s: %v", doc.Filename, r)
			text, ok = "", false
		}
	}()

	var raw string
	switch domain.DetectFormat(doc.MIMEType, doc.Filename) {
	case domain.FormatPDF:
		raw = pdfText(doc.Bytes)
	case domain.FormatSpreadsheet:
		raw = sheetText(doc.Bytes)
	case domain.FormatWordDoc:
		raw = wordText(doc.Bytes)
	case domain.FormatText:
		raw = string(doc.Bytes)
	case domain.FormatImage:
		return "", false // images always go to vision
	default:
		return "", false
	}

	if len(strings.TrimSpace(raw)) < MinTextChars {
		return "", false
	}
	return raw, true
}

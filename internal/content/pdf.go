package content

import (
	"bytes"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// pdfText extracts the text layer of a PDF, page by page. A scanned PDF with
// no text layer yields an empty or near-empty string.
func pdfText(content []byte) string {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return ""
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
	}
	return b.String()
}

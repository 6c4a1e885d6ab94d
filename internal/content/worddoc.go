package content

import (
	"archive/zip"
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode"
)

var (
	paraCloseRe = regexp.MustCompile(`</w:p>`)
	xmlTagRe    = regexp.MustCompile(`<[^>]+>`)
)

// wordText makes a best-effort text extraction from a word-processor document.
// DOCX files are unzipped and their document XML stripped of tags; anything
// else gets control characters removed and printable runs kept. Either way the
// caller applies the usable-length threshold.
func wordText(content []byte) string {
	if text := docxText(content); text != "" {
		return text
	}
	return stripControl(string(content))
}

func docxText(content []byte) string {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return ""
		}
		raw, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return ""
		}
		text := paraCloseRe.ReplaceAllString(string(raw), "\n")
		text = xmlTagRe.ReplaceAllString(text, "")
		text = strings.ReplaceAll(text, "&amp;", "&")
		text = strings.ReplaceAll(text, "&lt;", "<")
		text = strings.ReplaceAll(text, "&gt;", ">")
		return strings.TrimSpace(text)
	}
	return ""
}

// stripControl drops control and non-printable characters, collapsing the
// remainder into whitespace-separated runs.
func stripControl(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range s {
		if unicode.IsPrint(r) && r != unicode.ReplacementChar {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

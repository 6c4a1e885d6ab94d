package domain

import (
	"path/filepath"
	"strings"
)

// FileFormat classifies an uploaded document by how its content is extracted.
type FileFormat string

const (
	FormatPDF         FileFormat = "pdf"
	FormatSpreadsheet FileFormat = "spreadsheet"
	FormatWordDoc     FileFormat = "worddoc"
	FormatText        FileFormat = "text"
	FormatImage       FileFormat = "image"
	FormatUnknown     FileFormat = "unknown"
)

// mimeFormats maps MIME content types to a FileFormat.
var mimeFormats = map[string]FileFormat{
	"application/pdf": FormatPDF,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": FormatSpreadsheet,
	"application/vnd.ms-excel": FormatSpreadsheet,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatWordDoc,
	"application/msword": FormatWordDoc,
	"text/plain":         FormatText,
	"text/csv":           FormatText,
	"image/png":          FormatImage,
	"image/jpeg":         FormatImage,
	"image/gif":          FormatImage,
	"image/webp":         FormatImage,
}

// extFormats maps file extensions (without dot) to a FileFormat. Used as a
// fallback when the MIME type is missing or generic.
var extFormats = map[string]FileFormat{
	"pdf":  FormatPDF,
	"xlsx": FormatSpreadsheet,
	"xls":  FormatSpreadsheet,
	"docx": FormatWordDoc,
	"doc":  FormatWordDoc,
	"txt":  FormatText,
	"csv":  FormatText,
	"png":  FormatImage,
	"jpg":  FormatImage,
	"jpeg": FormatImage,
	"gif":  FormatImage,
	"webp": FormatImage,
}

// ImageMediaTypes lists the raster image MIME types accepted for the vision path.
var ImageMediaTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// DetectFormat resolves a FileFormat from a MIME type, falling back to the
// filename extension when the MIME type is unknown or generic.
func DetectFormat(mimeType, filename string) FileFormat {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if f, ok := mimeFormats[mt]; ok {
		return f
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if f, ok := extFormats[ext]; ok {
		return f
	}
	return FormatUnknown
}

// ImageMediaType returns the concrete image MIME type for a document, preferring
// the declared MIME type and falling back to the extension.
func ImageMediaType(mimeType, filename string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if ImageMediaTypes[mt] {
		return mt
	}
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	}
	return "image/png"
}

// ContentKind tags the two variants of ExtractedContent.
type ContentKind string

const (
	ContentText   ContentKind = "text"
	ContentImages ContentKind = "images"
)

// Confidence is the per-field certainty level in a ConfidenceMap.
type Confidence string

const (
	ConfidenceHigh     Confidence = "high"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceLow      Confidence = "low"
	ConfidenceNotFound Confidence = "not_found"
)

// confidenceRank orders confidence levels for merge decisions.
var confidenceRank = map[Confidence]int{
	ConfidenceNotFound: 0,
	ConfidenceLow:      1,
	ConfidenceMedium:   2,
	ConfidenceHigh:     3,
}

// Rank returns the ordering weight of a confidence level (higher is better).
func (c Confidence) Rank() int {
	return confidenceRank[c]
}

// ExtractionMethod records which path produced a result.
type ExtractionMethod string

const (
	MethodText        ExtractionMethod = "text"
	MethodVisionPDF   ExtractionMethod = "vision-pdf"
	MethodVisionImage ExtractionMethod = "vision-image"
	MethodCombined    ExtractionMethod = "combined"
	MethodSequential  ExtractionMethod = "sequential"
)

package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SourceDocument is one uploaded file entering an extraction job. It is
// immutable and discarded when the job completes.
type SourceDocument struct {
	Filename  string
	MIMEType  string
	Bytes     []byte
	SizeBytes int64
}

// NewSourceDocument builds a SourceDocument from raw upload data.
func NewSourceDocument(data []byte, mimeType, filename string) SourceDocument {
	return SourceDocument{
		Filename:  filename,
		MIMEType:  mimeType,
		Bytes:     data,
		SizeBytes: int64(len(data)),
	}
}

// RasterPage is one rendered page of a PDF sent down the vision path.
type RasterPage struct {
	PageNumber  int
	ImageBytes  []byte
	MediaType   string
	RenderScale int // DPI used for rendering
}

// ExtractedContent is the tagged union produced by the content router: either
// usable text or an ordered list of raster pages for the vision path.
type ExtractedContent struct {
	Kind   ContentKind
	Text   string
	Length int
	Pages  []RasterPage
}

// TextContent wraps extracted text as ExtractedContent.
func TextContent(text string) ExtractedContent {
	return ExtractedContent{Kind: ContentText, Text: text, Length: len(text)}
}

// ImageContent wraps ordered raster pages as ExtractedContent.
func ImageContent(pages []RasterPage) ExtractedContent {
	return ExtractedContent{Kind: ContentImages, Pages: pages}
}

// FlatRecord is the canonical flat mapping of deal field name to resolved value.
type FlatRecord map[string]any

// ConfidenceMap carries the per-field certainty parallel to a FlatRecord.
type ConfidenceMap map[string]Confidence

// SourceMap carries the per-field free-text citation parallel to a FlatRecord.
// A nil entry means no citation was provided.
type SourceMap map[string]*string

// Observations is the four-bucket structured form of model observations.
type Observations struct {
	Strengths        []string `json:"strengths"`
	Risks            []string `json:"risks"`
	MissingData      []string `json:"missing_data"`
	CalculationNotes []string `json:"calculation_notes"`
}

// ValidationWarning is a suspicious but non-fatal gap found by the normalizer.
type ValidationWarning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PeriodAnalysisHint is the optional output of the period-analysis collaborator,
// consumed read-only by the prompt assembler.
type PeriodAnalysisHint struct {
	CombinationNeeded bool              `json:"combination_needed"`
	OverlappingMonths []string          `json:"overlapping_months"`
	RecommendedPeriod string            `json:"recommended_period"`
	PerMonthSources   map[string]string `json:"per_month_sources"`
}

// ExtractionResult is the outcome of extracting a single document.
type ExtractionResult struct {
	Success          bool                `json:"success"`
	Data             FlatRecord          `json:"data"`
	RawData          map[string]any      `json:"raw_data,omitempty"`
	Confidence       ConfidenceMap       `json:"confidence"`
	Sources          SourceMap           `json:"sources"`
	ExtractionMethod ExtractionMethod    `json:"extraction_method"`
	Warnings         []ValidationWarning `json:"warnings,omitempty"`
	Error            string              `json:"error,omitempty"`
}

// DocumentOutcome reports per-document success within a batch result.
type DocumentOutcome struct {
	FileName    string      `json:"file_name"`
	Success     bool        `json:"success"`
	Error       string      `json:"error,omitempty"`
	ContentType ContentKind `json:"content_type,omitempty"`
}

// BatchResult is the outcome of a multi-document extraction.
type BatchResult struct {
	Success           bool                `json:"success"`
	MergedData        FlatRecord          `json:"merged_data"`
	Confidence        ConfidenceMap       `json:"confidence"`
	Sources           SourceMap           `json:"sources"`
	IndividualResults []DocumentOutcome   `json:"individual_results"`
	ExtractionMethod  ExtractionMethod    `json:"extraction_method"`
	Completeness      float64             `json:"completeness"`
	Warnings          []ValidationWarning `json:"warnings,omitempty"`
}

// ExtractionJob is the persisted record of a completed extraction, written by
// the repository boundary once the pipeline hands over its final result.
type ExtractionJob struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	FileNames    json.RawMessage `db:"file_names" json:"file_names"`
	Method       string          `db:"method" json:"method"`
	Success      bool            `db:"success" json:"success"`
	Data         json.RawMessage `db:"data" json:"data"`
	Confidence   json.RawMessage `db:"confidence" json:"confidence"`
	Sources      json.RawMessage `db:"sources" json:"sources"`
	Outcomes     json.RawMessage `db:"outcomes" json:"outcomes,omitempty"`
	Completeness float64         `db:"completeness" json:"completeness"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

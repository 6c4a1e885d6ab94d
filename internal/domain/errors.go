package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrNoUsableContent     = errors.New("document yielded no usable content")
)

// ContentExtractionError indicates a text or office-format decode failure for
// one document. Formats with a vision fallback recover from it; others surface
// it per-document.
type ContentExtractionError struct {
	Filename string
	Err      error
}

func (e *ContentExtractionError) Error() string {
	return fmt.Sprintf("content extraction failed for %s: %v", e.Filename, e.Err)
}

func (e *ContentExtractionError) Unwrap() error { return e.Err }

// NewContentExtractionError creates a ContentExtractionError.
func NewContentExtractionError(filename string, err error) *ContentExtractionError {
	return &ContentExtractionError{Filename: filename, Err: err}
}

// ConversionError indicates a PDF could not be rasterized at all. It is fatal
// for that one document only and must not be confused with a parse failure.
type ConversionError struct {
	Filename string
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("pdf rasterization failed for %s: %v", e.Filename, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// NewConversionError creates a ConversionError.
func NewConversionError(filename string, err error) *ConversionError {
	return &ConversionError{Filename: filename, Err: err}
}

// ModelCallError indicates a network, timeout, or non-success response from the
// external LLM service.
type ModelCallError struct {
	Err     error
	Timeout bool
}

func (e *ModelCallError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("model call timed out: %v", e.Err)
	}
	return fmt.Sprintf("model call failed: %v", e.Err)
}

func (e *ModelCallError) Unwrap() error { return e.Err }

// NewModelCallError creates a ModelCallError.
func NewModelCallError(err error, timeout bool) *ModelCallError {
	return &ModelCallError{Err: err, Timeout: timeout}
}

// ResponseParseError indicates all JSON recovery tiers were exhausted for one
// model response. The original parser message is preserved for diagnostics.
type ResponseParseError struct {
	Err     error  // original tier-1 parse error
	Snippet string // truncated raw response for diagnostics
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("unparseable model response: %v (raw: %s)", e.Err, e.Snippet)
}

func (e *ResponseParseError) Unwrap() error { return e.Err }

// NewResponseParseError creates a ResponseParseError, truncating the raw
// response to a diagnostic snippet.
func NewResponseParseError(err error, raw string) *ResponseParseError {
	const maxSnippet = 300
	if len(raw) > maxSnippet {
		raw = raw[:maxSnippet] + "..."
	}
	return &ResponseParseError{Err: err, Snippet: raw}
}

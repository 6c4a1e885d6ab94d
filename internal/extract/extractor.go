// Package extract orchestrates the document extraction pipeline: content
// routing, vision fallback, token budgeting, the model call, JSON recovery,
// schema normalization, and batch merging.
package extract

import (
	"context"
	"errors"
	"log"
	"time"

	"dealdesk/internal/content"
	"dealdesk/internal/domain"
	"dealdesk/internal/parser"
	"dealdesk/internal/port"
	"dealdesk/internal/schema"
	"dealdesk/internal/vision"
)

// Config holds per-job extraction settings. It is read-only once the
// extractor is constructed; jobs share nothing else.
type Config struct {
	TokenCeiling   int
	TokensPerImage int
	CallTimeout    time.Duration // per external call; a timed-out document fails, no auto-retry
	MaxTokens      int
}

// Extractor runs extraction jobs. All dependencies are injected so tests can
// substitute doubles.
type Extractor struct {
	model     port.DocumentModel
	converter *vision.Converter
	period    port.PeriodAnalyzer // optional; nil disables period guidance

	cfg Config

	// extractText is the content router; overridable in tests.
	extractText func(domain.SourceDocument) (string, bool)
}

// New creates an Extractor.
func New(model port.DocumentModel, converter *vision.Converter, period port.PeriodAnalyzer, cfg Config) *Extractor {
	return &Extractor{
		model:       model,
		converter:   converter,
		period:      period,
		cfg:         cfg,
		extractText: content.ExtractText,
	}
}

// ExtractOne runs the pipeline for a single document.
func (e *Extractor) ExtractOne(ctx context.Context, data []byte, mimeType, filename string) *domain.ExtractionResult {
	doc := domain.NewSourceDocument(data, mimeType, filename)

	extracted, method, err := e.preprocess(ctx, doc)
	if err != nil {
		return &domain.ExtractionResult{Success: false, Error: err.Error()}
	}

	hint := e.periodHint(ctx, []parser.Document{{Name: filename, Content: extracted}})
	blocks := parser.BuildContent([]parser.Document{{Name: filename, Content: extracted}}, hint)

	raw, err := e.callModel(ctx, blocks)
	if err != nil {
		return &domain.ExtractionResult{Success: false, Error: err.Error(), ExtractionMethod: method}
	}

	rawObj, flattened, warnings, err := e.processResponse(raw)
	if err != nil {
		return &domain.ExtractionResult{Success: false, Error: err.Error(), ExtractionMethod: method}
	}

	return &domain.ExtractionResult{
		Success:          true,
		Data:             flattened.Record,
		RawData:          rawObj,
		Confidence:       flattened.Confidence,
		Sources:          flattened.Sources,
		ExtractionMethod: method,
		Warnings:         warnings,
	}
}

// batchItem is one document's preprocessing outcome inside a batch.
type batchItem struct {
	doc     domain.SourceDocument
	content domain.ExtractedContent
	method  domain.ExtractionMethod
	err     error
}

// ExtractMany runs the batch pipeline: preprocess every file, decide Combined
// vs Sequential once via the token budget, and fall back from Combined to
// Sequential on any orchestration error, never the other way.
func (e *Extractor) ExtractMany(ctx context.Context, files []domain.SourceDocument) *domain.BatchResult {
	items := make([]batchItem, len(files))
	usable := 0
	for i, doc := range files {
		extracted, method, err := e.preprocess(ctx, doc)
		items[i] = batchItem{doc: doc, content: extracted, method: method, err: err}
		if err == nil {
			usable++
		}
	}

	if usable == 0 {
		// ALL_FAILED: zero documents yielded usable content. Returned as a
		// normal result, never thrown.
		empty := schema.EmptyFlattened()
		return &domain.BatchResult{
			Success:           false,
			MergedData:        empty.Record,
			Confidence:        empty.Confidence,
			Sources:           empty.Sources,
			IndividualResults: outcomesForFailures(items),
			ExtractionMethod:  domain.MethodSequential,
		}
	}

	docs := make([]parser.Document, 0, usable)
	contents := make([]domain.ExtractedContent, 0, usable)
	for _, item := range items {
		if item.err != nil {
			continue
		}
		docs = append(docs, parser.Document{Name: item.doc.Filename, Content: item.content})
		contents = append(contents, item.content)
	}

	hint := e.periodHint(ctx, docs)

	// Budget decision: computed once per job, never revisited mid-run.
	est := parser.EstimateTokens(contents, e.cfg.TokensPerImage)
	if est.FitsCombined(e.cfg.TokenCeiling) {
		result, err := e.runCombined(ctx, items, docs, hint)
		if err == nil {
			return result
		}
		log.Printf("extract.Extractor: combined call failed, falling back to sequential: %v", err)
	} else {
		log.Printf("extract.Extractor: estimated %d tokens exceeds ceiling, using sequential mode", est.EstimatedTokens)
	}

	return e.runSequential(ctx, items, hint)
}

// runCombined sends all usable documents in a single model call.
func (e *Extractor) runCombined(ctx context.Context, items []batchItem, docs []parser.Document, hint *domain.PeriodAnalysisHint) (*domain.BatchResult, error) {
	blocks := parser.BuildContent(docs, hint)
	raw, err := e.callModel(ctx, blocks)
	if err != nil {
		return nil, err
	}
	_, flattened, warnings, err := e.processResponse(raw)
	if err != nil {
		return nil, err
	}

	outcomes := make([]domain.DocumentOutcome, len(items))
	for i, item := range items {
		outcomes[i] = domain.DocumentOutcome{
			FileName:    item.doc.Filename,
			Success:     item.err == nil,
			ContentType: item.content.Kind,
		}
		if item.err != nil {
			outcomes[i].Error = item.err.Error()
		}
	}

	return &domain.BatchResult{
		Success:           true,
		MergedData:        flattened.Record,
		Confidence:        flattened.Confidence,
		Sources:           flattened.Sources,
		IndividualResults: outcomes,
		ExtractionMethod:  domain.MethodCombined,
		Completeness:      completeness(flattened.Record),
		Warnings:          warnings,
	}, nil
}

// runSequential processes each usable document independently, in strict input
// order with one in-flight model call at a time, merging results as calls
// complete.
func (e *Extractor) runSequential(ctx context.Context, items []batchItem, hint *domain.PeriodAnalysisHint) *domain.BatchResult {
	acc := schema.EmptyFlattened()
	var warnings []domain.ValidationWarning
	outcomes := make([]domain.DocumentOutcome, len(items))
	anySuccess := false

	for i, item := range items {
		outcomes[i] = domain.DocumentOutcome{FileName: item.doc.Filename, ContentType: item.content.Kind}
		if item.err != nil {
			outcomes[i].Error = item.err.Error()
			continue
		}

		blocks := parser.BuildContent([]parser.Document{{Name: item.doc.Filename, Content: item.content}}, hint)
		raw, err := e.callModel(ctx, blocks)
		if err != nil {
			outcomes[i].Error = err.Error()
			continue
		}
		_, flattened, docWarnings, err := e.processResponse(raw)
		if err != nil {
			outcomes[i].Error = err.Error()
			continue
		}

		mergeFlattened(acc, flattened)
		warnings = append(warnings, docWarnings...)
		outcomes[i].Success = true
		anySuccess = true
	}

	return &domain.BatchResult{
		Success:           anySuccess,
		MergedData:        acc.Record,
		Confidence:        acc.Confidence,
		Sources:           acc.Sources,
		IndividualResults: outcomes,
		ExtractionMethod:  domain.MethodSequential,
		Completeness:      completeness(acc.Record),
		Warnings:          warnings,
	}
}

// preprocess routes one document to text or vision content.
func (e *Extractor) preprocess(ctx context.Context, doc domain.SourceDocument) (domain.ExtractedContent, domain.ExtractionMethod, error) {
	format := domain.DetectFormat(doc.MIMEType, doc.Filename)

	if format == domain.FormatImage {
		page := domain.RasterPage{
			PageNumber: 1,
			ImageBytes: doc.Bytes,
			MediaType:  domain.ImageMediaType(doc.MIMEType, doc.Filename),
		}
		return domain.ImageContent([]domain.RasterPage{page}), domain.MethodVisionImage, nil
	}

	if text, ok := e.extractText(doc); ok {
		return domain.TextContent(text), domain.MethodText, nil
	}

	// No usable text. Only PDFs have a vision fallback.
	if format == domain.FormatPDF && e.converter != nil {
		pages, err := e.converter.Rasterize(ctx, doc.Bytes, doc.Filename)
		if err != nil {
			return domain.ExtractedContent{}, "", err
		}
		return domain.ImageContent(pages), domain.MethodVisionPDF, nil
	}

	return domain.ExtractedContent{}, "", domain.NewContentExtractionError(doc.Filename, domain.ErrNoUsableContent)
}

// callModel performs one time-bounded external model call.
func (e *Extractor) callModel(ctx context.Context, blocks []port.ContentBlock) (string, error) {
	if e.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.CallTimeout)
		defer cancel()
	}

	raw, err := e.model.Complete(ctx, port.ModelRequest{Blocks: blocks, MaxTokens: e.cfg.MaxTokens})
	if err != nil {
		var mce *domain.ModelCallError
		if errors.As(err, &mce) {
			return "", err
		}
		timeout := errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded
		return "", domain.NewModelCallError(err, timeout)
	}
	return raw, nil
}

// processResponse runs JSON recovery and schema normalization on a raw model
// reply. Pure CPU work; never suspends.
func (e *Extractor) processResponse(raw string) (map[string]any, *schema.Flattened, []domain.ValidationWarning, error) {
	obj, err := parser.RecoverJSON(raw)
	if err != nil {
		return nil, nil, nil, err
	}
	flattened, warnings, err := schema.Normalize(obj)
	if err != nil {
		return nil, nil, warnings, err
	}
	return obj, flattened, warnings, nil
}

// periodHint consults the optional period analyzer for the batch's
// text-bearing documents. Analyzer absence or failure never affects
// correctness.
func (e *Extractor) periodHint(ctx context.Context, docs []parser.Document) *domain.PeriodAnalysisHint {
	if e.period == nil {
		return nil
	}
	var inputs []port.PeriodInput
	for _, doc := range docs {
		if doc.Content.Kind != domain.ContentText {
			continue
		}
		inputs = append(inputs, port.PeriodInput{
			Filename:    doc.Name,
			TextContent: doc.Content.Text,
			FileType:    domain.DetectFormat("", doc.Name),
		})
	}
	if len(inputs) == 0 {
		return nil
	}
	hint, err := e.period.Analyze(ctx, inputs)
	if err != nil {
		log.Printf("extract.Extractor: period analysis failed, continuing without hint: %v", err)
		return nil
	}
	return hint
}

func outcomesForFailures(items []batchItem) []domain.DocumentOutcome {
	outcomes := make([]domain.DocumentOutcome, len(items))
	for i, item := range items {
		outcomes[i] = domain.DocumentOutcome{FileName: item.doc.Filename}
		if item.err != nil {
			outcomes[i].Error = item.err.Error()
		}
	}
	return outcomes
}

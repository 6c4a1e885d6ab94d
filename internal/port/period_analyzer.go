package port

import (
	"context"

	"dealdesk/internal/domain"
)

// PeriodInput describes one text-bearing document offered to the period
// analyzer.
type PeriodInput struct {
	Filename    string
	TextContent string
	FileType    domain.FileFormat
}

// PeriodAnalyzer is the optional collaborator that recommends a reporting
// period for a batch. A nil hint (or a nil analyzer) must not change pipeline
// correctness, only the precision of period guidance in the prompt.
type PeriodAnalyzer interface {
	Analyze(ctx context.Context, inputs []PeriodInput) (*domain.PeriodAnalysisHint, error)
}

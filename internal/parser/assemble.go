package parser

import (
	"dealdesk/internal/domain"
	"dealdesk/internal/port"
)

// Document pairs a filename with its routed content for assembly.
type Document struct {
	Name    string
	Content domain.ExtractedContent
}

// BuildContent assembles the ordered request payload: instruction header,
// per-document blocks each prefixed with a visible DOCUMENT delimiter, the
// optional period-analysis block, then the closing cross-referencing
// instructions. Document order in the output exactly matches input order so
// citations can be traced back to a file by position.
func BuildContent(docs []Document, hint *domain.PeriodAnalysisHint) []port.ContentBlock {
	blocks := []port.ContentBlock{port.TextBlock(BuildDealPrompt())}

	for _, doc := range docs {
		blocks = append(blocks, port.TextBlock("DOCUMENT: "+doc.Name))
		switch doc.Content.Kind {
		case domain.ContentText:
			blocks = append(blocks, port.TextBlock(doc.Content.Text))
		case domain.ContentImages:
			for _, page := range doc.Content.Pages {
				blocks = append(blocks, port.ImageBlock(page.ImageBytes, page.MediaType))
			}
		}
	}

	if hint != nil && hint.RecommendedPeriod != "" {
		blocks = append(blocks, port.TextBlock(
			BuildPeriodInstructions(hint.RecommendedPeriod, hint.OverlappingMonths, hint.PerMonthSources)))
	}

	blocks = append(blocks, port.TextBlock(BuildClosingInstructions(len(docs))))
	return blocks
}

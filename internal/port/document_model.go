package port

import "context"

// ContentBlock is one ordered element of a model request: either a text block
// or a base64-encodable image block.
type ContentBlock struct {
	Type      string // "text" or "image"
	Text      string
	ImageData []byte
	MediaType string
}

// TextBlock builds a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

// ImageBlock builds an image content block.
func ImageBlock(data []byte, mediaType string) ContentBlock {
	return ContentBlock{Type: "image", ImageData: data, MediaType: mediaType}
}

// ModelRequest is an ordered content sequence sent to the document model.
// Block order is preserved on the wire.
type ModelRequest struct {
	Blocks    []ContentBlock
	MaxTokens int
}

// DocumentModel abstracts the external LLM document-understanding service.
// The response is free text with no schema guarantee.
type DocumentModel interface {
	Complete(ctx context.Context, req ModelRequest) (string, error)
}

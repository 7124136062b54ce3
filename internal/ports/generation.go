package ports

import (
	"context"
	"io"

	"lifestory/internal/domain/layout"
)

// GenerationRequest is a single instruction for the text-generation service.
type GenerationRequest struct {
	Purpose   string
	Prompt    string
	MaxTokens int64
}

// TextGenerator calls an external text-generation service.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

type AudioInput struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// Transcriber converts interview audio to plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio AudioInput) (string, error)
}

// DocumentRenderer turns a laid-out book into a finished file.
type DocumentRenderer interface {
	Render(ctx context.Context, doc layout.Document) ([]byte, error)
}

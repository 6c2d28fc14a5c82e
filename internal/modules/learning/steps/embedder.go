package steps

import (
	"context"
	"fmt"

	"github.com/yungbote/neurobridge-pathgen/internal/platform/openai"
)

type Embedding struct {
	Vector     []float32
	TokenCount int
}

// Embedder turns one chunk of text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (Embedding, error)
}

type openAIEmbedder struct {
	ai openai.Client
}

func NewOpenAIEmbedder(ai openai.Client) Embedder {
	return &openAIEmbedder{ai: ai}
}

func (e *openAIEmbedder) Embed(ctx context.Context, text string) (Embedding, error) {
	res, err := e.ai.Embed(ctx, []string{text})
	if err != nil {
		return Embedding{}, err
	}
	if len(res.Vectors) != 1 {
		return Embedding{}, fmt.Errorf("embed: expected 1 vector, got %d", len(res.Vectors))
	}
	return Embedding{Vector: res.Vectors[0], TokenCount: res.PromptTokens}, nil
}

// estimateTokens is the chars/4 rule of thumb used when the provider reports no usage.
func estimateTokens(text string) int {
	n := len(text) / 4
	if n == 0 && text != "" {
		n = 1
	}
	return n
}

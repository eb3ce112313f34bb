package service

import (
	"context"

	"github.com/openlearn/learnportal-be/types"
)

// AIService streams a chat completion, invoking handler once per text fragment.
// Fragments are delivered in order and exactly once; a handler error aborts the
// stream and is returned as-is.
type AIService interface {
	ChatStream(ctx context.Context, messages []types.Message, handler types.StreamHandler) error
}

// EmbeddingService computes one embedding vector per input text.
type EmbeddingService interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// AIProvider is implemented by backends that serve both generation and
// embeddings (OpenAI-compatible endpoints, Gemini).
type AIProvider interface {
	AIService
	EmbeddingService
}

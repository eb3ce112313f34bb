package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/openlearn/learnportal-be/types"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiService is the Gemini-backed provider. Multiple API keys are rotated
// on failure to ride out per-key quota limits.
type GeminiService struct {
	apiKeys        []string
	currentKey     int
	client         *genai.Client
	model          *genai.GenerativeModel
	modelName      string
	embeddingModel string
	mu             sync.Mutex
}

func NewGeminiService(apiKeys []string, modelName, embeddingModel string) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no gemini API keys provided")
	}

	service := &GeminiService{
		apiKeys:        apiKeys,
		currentKey:     0,
		modelName:      modelName,
		embeddingModel: embeddingModel,
	}
	if err := service.initClient(); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *GeminiService) initClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	s.model = client.GenerativeModel(s.modelName)
	return nil
}

func (s *GeminiService) rotateAPIKey() error {
	s.mu.Lock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	if err := s.client.Close(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.initClient()
}

func (s *GeminiService) ChatStream(ctx context.Context, messages []types.Message, handler types.StreamHandler) error {
	history, last := toGeminiHistory(messages)
	chat := s.model.StartChat()
	chat.History = history

	iter := chat.SendMessageStream(ctx, genai.Text(last))
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			// Rotate the key for the next request only. Retrying a partially
			// streamed generation would corrupt the delivered transcript.
			if rotateErr := s.rotateAPIKey(); rotateErr != nil {
				return rotateErr
			}
			return fmt.Errorf("gemini stream error: %w", err)
		}

		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok && len(text) > 0 {
					if err := handler(string(text)); err != nil {
						return err
					}
				}
			}
		}
	}
}

func (s *GeminiService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	em := s.client.EmbeddingModel(s.embeddingModel)
	batch := em.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("gemini embedding request failed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, embedding := range resp.Embeddings {
		vectors[i] = embedding.Values
	}
	return vectors, nil
}

// toGeminiHistory maps conversation turns onto the Gemini chat schema, which
// only knows "user" and "model" roles and takes the final user message
// separately from the history.
func toGeminiHistory(messages []types.Message) ([]*genai.Content, string) {
	if len(messages) == 0 {
		return nil, ""
	}

	last := messages[len(messages)-1].Content
	history := make([]*genai.Content, 0, len(messages)-1)
	for _, msg := range messages[:len(messages)-1] {
		role := "user"
		if msg.Role == types.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Parts: []genai.Part{genai.Text(msg.Content)},
			Role:  role,
		})
	}
	return history, last
}

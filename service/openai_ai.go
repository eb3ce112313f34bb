package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/openlearn/learnportal-be/types"
	"github.com/sashabaranov/go-openai"
)

// OpenAIService talks to the OpenAI API or any OpenAI-compatible endpoint
// (configure baseURL for a local LLM server).
type OpenAIService struct {
	client         *openai.Client
	model          string
	embeddingModel string
}

func NewOpenAIService(baseURL, apiKey, model, embeddingModel string) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIService{
		client:         openai.NewClientWithConfig(config),
		model:          model,
		embeddingModel: embeddingModel,
	}
}

func (s *OpenAIService) ChatStream(ctx context.Context, messages []types.Message, handler types.StreamHandler) error {
	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	stream, err := s.client.CreateChatCompletionStream(
		ctx,
		openai.ChatCompletionRequest{
			Model:    s.model,
			Messages: openaiMessages,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to start chat stream: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("chat stream error: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			if err := handler(delta); err != nil {
				return err
			}
		}
	}
}

func (s *OpenAIService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(s.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		vectors[i] = data.Embedding
	}
	return vectors, nil
}

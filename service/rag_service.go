package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/openlearn/learnportal-be/database"
	"github.com/openlearn/learnportal-be/types"
	"github.com/rs/zerolog/log"
)

const askSystemPrompt = `You are a helpful AI assistant specialized in analyzing information and answering questions.
Format your responses in markdown to make them visually appealing and easy to read.
Use the following context to answer the question.

Context:
%s`

const analyzeSystemPrompt = `You are an educational assessment AI. Analyze the user's answer to the given question.
Compare it against both the evaluation guide and the relevant factual context.

Format your analysis as markdown and include:
1. A summary of what the answer covered well
2. Key points that were missed or could be improved
3. Factual accuracy assessment

End your analysis with a final line formatted exactly as "SCORE: <number>" where <number> is an integer from 0 to 100.

Question: %s
User Answer: %s
Evaluation Guide: %s
Relevant Context: %s`

// RAGService answers questions and grades answers against the per-module
// document index. Both operations return a lazy, finite event sequence: the
// channel is closed after the terminal done or error event, and every send
// respects ctx so an abandoned consumer never leaks the producer goroutine.
type RAGService interface {
	AskStream(ctx context.Context, req types.AskBotRequest) <-chan types.StreamEvent
	AnalyzeStream(ctx context.Context, req types.AnalyzeAnswerRequest) <-chan types.StreamEvent
}

type ragService struct {
	ai       AIService
	embedder EmbeddingService
	store    database.VectorStore
	prefix   string
	topK     int
}

func NewRAGService(ai AIService, embedder EmbeddingService, store database.VectorStore, prefix string, topK int) RAGService {
	return &ragService{
		ai:       ai,
		embedder: embedder,
		store:    store,
		prefix:   prefix,
		topK:     topK,
	}
}

func (s *ragService) AskStream(ctx context.Context, req types.AskBotRequest) <-chan types.StreamEvent {
	out := make(chan types.StreamEvent)
	go func() {
		defer close(out)

		contextText, err := s.retrieveContext(ctx, req.Module, req.Text)
		if err != nil {
			log.Error().Err(err).Str("module", req.Module).Msg("retrieval failed")
			emit(ctx, out, types.ErrorEvent(err))
			return
		}

		messages := make([]types.Message, 0, len(req.History)+2)
		messages = append(messages, types.Message{
			Role:    types.RoleSystem,
			Content: fmt.Sprintf(askSystemPrompt, orNoContext(contextText)),
		})
		for _, item := range req.History {
			messages = append(messages, item.Message())
		}
		messages = append(messages, types.Message{Role: types.RoleUser, Content: req.Text})

		s.generate(ctx, out, messages, nil)
	}()
	return out
}

func (s *ragService) AnalyzeStream(ctx context.Context, req types.AnalyzeAnswerRequest) <-chan types.StreamEvent {
	out := make(chan types.StreamEvent)
	go func() {
		defer close(out)

		contextText, err := s.retrieveContext(ctx, req.Module, req.Question)
		if err != nil {
			log.Error().Err(err).Str("module", req.Module).Msg("retrieval failed")
			emit(ctx, out, types.ErrorEvent(err))
			return
		}

		messages := []types.Message{
			{
				Role: types.RoleSystem,
				Content: fmt.Sprintf(analyzeSystemPrompt,
					req.Question, req.UserAnswer, req.Guide, orNoContext(contextText)),
			},
			{Role: types.RoleUser, Content: "Please analyze this answer comprehensively."},
		}

		var transcript strings.Builder
		s.generate(ctx, out, messages, &transcript)
	}()
	return out
}

// generate streams the completion into out. When transcript is non-nil the
// accumulated text is scanned for a score tag after the generation completes
// and the score is emitted as its own event; an unparseable score is expected
// and simply omitted.
func (s *ragService) generate(ctx context.Context, out chan<- types.StreamEvent, messages []types.Message, transcript *strings.Builder) {
	err := s.ai.ChatStream(ctx, messages, func(delta string) error {
		if transcript != nil {
			transcript.WriteString(delta)
		}
		if !emit(ctx, out, types.ContentEvent(delta)) {
			return ctx.Err()
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			// Client is gone; there is nobody left to tell.
			return
		}
		log.Error().Err(err).Msg("generation failed")
		emit(ctx, out, types.ErrorEvent(err))
		return
	}

	if transcript != nil {
		if score, ok := ParseScore(transcript.String()); ok {
			emit(ctx, out, types.ScoreEvent(score))
		} else {
			log.Warn().Msg("no parseable score in analysis output")
		}
	}
	emit(ctx, out, types.DoneEvent())
}

// retrieveContext embeds the query and gathers the top-k chunk texts from the
// module's collection. Zero hits yield empty context, not an error; a missing
// collection is a reportable error.
func (s *ragService) retrieveContext(ctx context.Context, module, query string) (string, error) {
	vectors, err := s.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return "", fmt.Errorf("embedding returned no vector")
	}

	collection := database.CollectionName(s.prefix, module)
	hits, err := s.store.Search(ctx, collection, vectors[0], s.topK)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		log.Info().Str("collection", collection).Msg("no relevant documents found for query")
		return "", nil
	}

	var sb strings.Builder
	for _, hit := range hits {
		sb.WriteString(hit.Chunk.Content)
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

func orNoContext(contextText string) string {
	if contextText == "" {
		return "No relevant information found in the documents."
	}
	return contextText
}

func emit(ctx context.Context, out chan<- types.StreamEvent, event types.StreamEvent) bool {
	select {
	case out <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openlearn/learnportal-be/config"
	"github.com/openlearn/learnportal-be/database"
	"github.com/openlearn/learnportal-be/types"
	"github.com/rs/zerolog/log"
)

// DocumentProcessor turns a PDF file into retrieval-sized text chunks.
// Implemented by PDFService; kept as an interface for testing.
type DocumentProcessor interface {
	ExtractText(ctx context.Context, path string, ocrEnabled bool) (string, error)
	ChunkText(text string) ([]string, error)
}

// LoadReport summarizes one ingestion run.
type LoadReport struct {
	Collection     string
	FilesProcessed int
	FilesSkipped   int
	ChunksStored   int
}

// LoaderService is the offline ingestion pipeline: extract, chunk, embed,
// upsert. It never runs on the serving path.
type LoaderService struct {
	store      database.VectorStore
	embedder   EmbeddingService
	docs       DocumentProcessor
	prefix     string
	batchSize  int
	maxRetries int
	retryDelay time.Duration
}

func NewLoaderService(store database.VectorStore, embedder EmbeddingService, docs DocumentProcessor, prefix string, cfg config.LoaderConfig) *LoaderService {
	return &LoaderService{
		store:      store,
		embedder:   embedder,
		docs:       docs,
		prefix:     prefix,
		batchSize:  cfg.BatchSize,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay(),
	}
}

// LoadDirectory ingests every PDF under dir into the module's collection.
// A malformed file is logged and skipped, never aborting the batch. With
// recreate set, the collection is dropped and rebuilt first (destructive).
func (s *LoaderService) LoadDirectory(ctx context.Context, dir, module string, ocrEnabled, recreate bool) (*LoadReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	collection := database.CollectionName(s.prefix, module)
	if err := s.store.EnsureCollection(ctx, collection, recreate); err != nil {
		return nil, err
	}

	report := &LoadReport{Collection: collection}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		path := filepath.Join(dir, entry.Name())
		chunks, err := s.processFile(ctx, path, module, ocrEnabled)
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping file")
			report.FilesSkipped++
			continue
		}

		stored, err := s.embedAndUpsert(ctx, collection, chunks)
		if err != nil {
			return report, err
		}
		report.FilesProcessed++
		report.ChunksStored += stored
		log.Info().Str("file", entry.Name()).Int("chunks", stored).Msg("file ingested")
	}

	log.Info().
		Str("collection", collection).
		Int("files", report.FilesProcessed).
		Int("skipped", report.FilesSkipped).
		Int("chunks", report.ChunksStored).
		Msg("load complete")
	return report, nil
}

func (s *LoaderService) processFile(ctx context.Context, path, module string, ocrEnabled bool) ([]types.DocumentChunk, error) {
	text, err := s.docs.ExtractText(ctx, path, ocrEnabled)
	if err != nil {
		return nil, err
	}

	pieces, err := s.docs.ChunkText(text)
	if err != nil {
		return nil, err
	}
	if len(pieces) == 0 {
		return nil, fmt.Errorf("%s produced no chunks", filepath.Base(path))
	}

	source := filepath.Base(path)
	chunks := make([]types.DocumentChunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, types.DocumentChunk{
			Content: piece,
			Source:  source,
			Module:  module,
			Index:   i,
		})
	}
	return chunks, nil
}

// embedAndUpsert submits chunks in batches to stay under embedding-API rate
// limits. A batch that still fails after the retry budget is dropped with an
// error log; the rest of the file continues.
func (s *LoaderService) embedAndUpsert(ctx context.Context, collection string, chunks []types.DocumentChunk) (int, error) {
	stored := 0
	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Content
		}

		vectors, err := s.embedWithRetry(ctx, texts)
		if err != nil {
			if ctx.Err() != nil {
				return stored, ctx.Err()
			}
			log.Error().Err(err).Str("collection", collection).Int("batch_start", start).Msg("dropping batch after retries")
			continue
		}

		points := make([]types.ChunkPoint, len(batch))
		for i, chunk := range batch {
			points[i] = types.ChunkPoint{
				ID:     ChunkID(chunk.Source, chunk.Index),
				Vector: vectors[i],
				Chunk:  chunk,
			}
		}
		if err := s.store.UpsertChunks(ctx, collection, points); err != nil {
			if ctx.Err() != nil {
				return stored, ctx.Err()
			}
			log.Error().Err(err).Str("collection", collection).Int("batch_start", start).Msg("upsert failed, dropping batch")
			continue
		}
		stored += len(points)
	}
	return stored, nil
}

func (s *LoaderService) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		vectors, err := s.embedder.EmbedTexts(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Int("max", s.maxRetries).Msg("embedding batch failed")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.retryDelay):
		}
	}
	return nil, lastErr
}

var chunkIDNamespace = uuid.MustParse("7f9ab2d4-5c31-4b6e-9d0a-3e8f1c2b4a65")

// ChunkID derives a deterministic point id from source file and chunk index,
// so reloading a file replaces its chunks instead of duplicating them.
func ChunkID(source string, index int) string {
	return uuid.NewSHA1(chunkIDNamespace, []byte(fmt.Sprintf("%s#%d", source, index))).String()
}

package database

import (
	"context"
	"fmt"

	"github.com/openlearn/learnportal-be/config"
	"github.com/openlearn/learnportal-be/types"
	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog/log"
)

const (
	payloadContent    = "page_content"
	payloadSource     = "source"
	payloadModule     = "module"
	payloadChunkIndex = "chunk_index"
)

type QdrantStore struct {
	client     *qdrant.Client
	vectorSize uint64
}

func NewQdrantStore(cfg config.QdrantConfig) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}
	if _, err := client.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant at %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return &QdrantStore{
		client:     client,
		vectorSize: cfg.VectorSize,
	}, nil
}

func (s *QdrantStore) EnsureCollection(ctx context.Context, name string, recreate bool) error {
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", name, err)
	}

	if exists && recreate {
		log.Info().Str("collection", name).Msg("deleting existing collection")
		if err := s.client.DeleteCollection(ctx, name); err != nil {
			return fmt.Errorf("failed to delete collection %s: %w", name, err)
		}
		exists = false
	}

	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     s.vectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
		log.Info().Str("collection", name).Uint64("vector_size", s.vectorSize).Msg("created collection")
	}
	return nil
}

func (s *QdrantStore) UpsertChunks(ctx context.Context, name string, points []types.ChunkPoint) error {
	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		qdrantPoints = append(qdrantPoints, &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: chunkToPayload(p.Chunk),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: name,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %d points into %s: %w", len(points), name, err)
	}
	return nil
}

func (s *QdrantStore) Search(ctx context.Context, name string, vector []float32, limit int) ([]SearchHit, error) {
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection %s: %w", name, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: name,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("search failed on %s: %w", name, err)
	}

	hits := make([]SearchHit, 0, len(points))
	for _, point := range points {
		hits = append(hits, SearchHit{
			Chunk: chunkFromPayload(point.Payload),
			Score: point.Score,
		})
	}
	return hits, nil
}

func chunkToPayload(chunk types.DocumentChunk) map[string]*qdrant.Value {
	return qdrant.NewValueMap(map[string]any{
		payloadContent:    chunk.Content,
		payloadSource:     chunk.Source,
		payloadModule:     chunk.Module,
		payloadChunkIndex: chunk.Index,
	})
}

func chunkFromPayload(payload map[string]*qdrant.Value) types.DocumentChunk {
	chunk := types.DocumentChunk{}
	if v, ok := payload[payloadContent]; ok {
		chunk.Content = v.GetStringValue()
	}
	if v, ok := payload[payloadSource]; ok {
		chunk.Source = v.GetStringValue()
	}
	if v, ok := payload[payloadModule]; ok {
		chunk.Module = v.GetStringValue()
	}
	if v, ok := payload[payloadChunkIndex]; ok {
		chunk.Index = int(v.GetIntegerValue())
	}
	return chunk
}

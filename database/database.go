package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/openlearn/learnportal-be/types"
)

// ErrCollectionNotFound is returned by Search for collections that were never
// created. An existing but empty collection yields an empty result instead.
var ErrCollectionNotFound = errors.New("collection not found")

// SearchHit is one retrieved chunk, ranked by similarity (highest first).
type SearchHit struct {
	Chunk types.DocumentChunk
	Score float32
}

// VectorStore is the adapter over the vector database.
type VectorStore interface {
	// EnsureCollection creates the collection if absent. With recreate set it
	// drops any existing collection first; this is destructive and has no undo.
	EnsureCollection(ctx context.Context, name string, recreate bool) error
	// UpsertChunks adds or replaces points by id.
	UpsertChunks(ctx context.Context, name string, points []types.ChunkPoint) error
	// Search returns up to limit hits ranked by similarity, highest first.
	Search(ctx context.Context, name string, vector []float32, limit int) ([]SearchHit, error)
}

// CollectionName derives the per-module collection name. The convention is
// configuration, not protocol: prefix + module id + "_docs".
func CollectionName(prefix, module string) string {
	return fmt.Sprintf("%s_%s_docs", prefix, module)
}

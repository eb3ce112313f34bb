package types

// DocumentChunk is a contiguous span of extracted text destined for the
// vector index. Chunks are immutable once created; reloading a source file
// regenerates its chunks wholesale.
type DocumentChunk struct {
	Content string
	Source  string // base name of the originating PDF
	Module  string
	Index   int // position of the chunk within its source file
}

// ChunkPoint pairs a chunk with its embedding and the deterministic id used
// for upsert-by-id in the vector index.
type ChunkPoint struct {
	ID     string
	Vector []float32
	Chunk  DocumentChunk
}

// DocumentServiceConfig holds chunking and extraction settings.
type DocumentServiceConfig struct {
	ChunkSize     int
	ChunkOverlap  int
	MinTextLength int // below this, direct extraction is considered unusable
	PdftoppmPath  string
	TesseractPath string
}

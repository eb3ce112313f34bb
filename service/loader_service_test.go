package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlearn/learnportal-be/config"
	"github.com/openlearn/learnportal-be/database"
	"github.com/openlearn/learnportal-be/types"
)

type fakeProcessor struct {
	failOn map[string]error
	chunks []string
}

func (f *fakeProcessor) ExtractText(ctx context.Context, path string, ocrEnabled bool) (string, error) {
	if err, ok := f.failOn[filepath.Base(path)]; ok {
		return "", err
	}
	return "extracted text from " + filepath.Base(path), nil
}

func (f *fakeProcessor) ChunkText(text string) ([]string, error) {
	if f.chunks != nil {
		return f.chunks, nil
	}
	return []string{text}, nil
}

type recordingStore struct {
	ensured   string
	recreate  bool
	upserts   [][]types.ChunkPoint
	upsertErr error
}

func (r *recordingStore) EnsureCollection(ctx context.Context, name string, recreate bool) error {
	r.ensured = name
	r.recreate = recreate
	return nil
}

func (r *recordingStore) UpsertChunks(ctx context.Context, name string, points []types.ChunkPoint) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserts = append(r.upserts, points)
	return nil
}

func (r *recordingStore) Search(ctx context.Context, name string, vector []float32, limit int) ([]database.SearchHit, error) {
	return nil, nil
}

type flakyEmbedder struct {
	failures int
	calls    int
}

func (f *flakyEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("temporarily unavailable")
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.5}
	}
	return vectors, nil
}

func writePDFFixtures(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("stub"), 0o644))
	}
	return dir
}

func newTestLoader(store database.VectorStore, embedder EmbeddingService, docs DocumentProcessor) *LoaderService {
	return NewLoaderService(store, embedder, docs, "testprefix", config.LoaderConfig{
		BatchSize:      2,
		MaxRetries:     3,
		RetryDelaySecs: 0,
	})
}

func TestLoadDirectory(t *testing.T) {
	dir := writePDFFixtures(t, "a.pdf", "b.PDF", "ignored.txt")
	store := &recordingStore{}
	svc := newTestLoader(store, &flakyEmbedder{}, &fakeProcessor{})

	report, err := svc.LoadDirectory(context.Background(), dir, "module1", false, false)
	require.NoError(t, err)

	assert.Equal(t, "testprefix_module1_docs", report.Collection)
	assert.Equal(t, "testprefix_module1_docs", store.ensured)
	assert.False(t, store.recreate)
	assert.Equal(t, 2, report.FilesProcessed, "pdf extension match is case-insensitive, other files ignored")
	assert.Equal(t, 0, report.FilesSkipped)
	assert.Equal(t, 2, report.ChunksStored)
}

func TestLoadDirectorySkipsBrokenFiles(t *testing.T) {
	dir := writePDFFixtures(t, "good.pdf", "broken.pdf")
	store := &recordingStore{}
	docs := &fakeProcessor{failOn: map[string]error{"broken.pdf": ErrNoUsableText}}
	svc := newTestLoader(store, &flakyEmbedder{}, docs)

	report, err := svc.LoadDirectory(context.Background(), dir, "module1", false, false)
	require.NoError(t, err)

	assert.Equal(t, 1, report.FilesProcessed)
	assert.Equal(t, 1, report.FilesSkipped)
	assert.Equal(t, 1, report.ChunksStored)
}

func TestLoadDirectoryRecreate(t *testing.T) {
	dir := writePDFFixtures(t, "a.pdf")
	store := &recordingStore{}
	svc := newTestLoader(store, &flakyEmbedder{}, &fakeProcessor{})

	_, err := svc.LoadDirectory(context.Background(), dir, "module1", false, true)
	require.NoError(t, err)
	assert.True(t, store.recreate)
}

func TestLoadDirectoryBatching(t *testing.T) {
	dir := writePDFFixtures(t, "a.pdf")
	store := &recordingStore{}
	docs := &fakeProcessor{chunks: []string{"one", "two", "three", "four", "five"}}
	svc := newTestLoader(store, &flakyEmbedder{}, docs)

	report, err := svc.LoadDirectory(context.Background(), dir, "module1", false, false)
	require.NoError(t, err)

	assert.Equal(t, 5, report.ChunksStored)
	require.Len(t, store.upserts, 3, "batch size 2 splits five chunks into three upserts")
	assert.Len(t, store.upserts[0], 2)
	assert.Len(t, store.upserts[2], 1)
}

func TestEmbedRetrySucceedsWithinBudget(t *testing.T) {
	dir := writePDFFixtures(t, "a.pdf")
	store := &recordingStore{}
	embedder := &flakyEmbedder{failures: 2}
	svc := newTestLoader(store, embedder, &fakeProcessor{})

	report, err := svc.LoadDirectory(context.Background(), dir, "module1", false, false)
	require.NoError(t, err)

	assert.Equal(t, 1, report.ChunksStored)
	assert.Equal(t, 3, embedder.calls)
}

func TestEmbedRetryExhaustedDropsBatch(t *testing.T) {
	dir := writePDFFixtures(t, "a.pdf")
	store := &recordingStore{}
	embedder := &flakyEmbedder{failures: 100}
	svc := newTestLoader(store, embedder, &fakeProcessor{})

	report, err := svc.LoadDirectory(context.Background(), dir, "module1", false, false)
	require.NoError(t, err, "a dropped batch does not abort the run")

	assert.Equal(t, 0, report.ChunksStored)
	assert.Equal(t, 3, embedder.calls, "bounded by max retries")
	assert.Empty(t, store.upserts)
}

func TestUpsertFailureDropsBatch(t *testing.T) {
	dir := writePDFFixtures(t, "a.pdf")
	store := &recordingStore{upsertErr: errors.New("write timeout")}
	svc := newTestLoader(store, &flakyEmbedder{}, &fakeProcessor{})

	report, err := svc.LoadDirectory(context.Background(), dir, "module1", false, false)
	require.NoError(t, err)
	assert.Equal(t, 0, report.ChunksStored)
}

func TestChunkIDDeterministic(t *testing.T) {
	a := ChunkID("report.pdf", 3)
	b := ChunkID("report.pdf", 3)
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, ChunkID("report.pdf", 4))
	assert.NotEqual(t, a, ChunkID("other.pdf", 3))
}

func TestLoadDirectoryMissingDir(t *testing.T) {
	svc := newTestLoader(&recordingStore{}, &flakyEmbedder{}, &fakeProcessor{})

	_, err := svc.LoadDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"), "module1", false, false)
	assert.Error(t, err)
}

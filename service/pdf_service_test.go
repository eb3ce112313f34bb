package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlearn/learnportal-be/types"
)

func newTestPDFService() *PDFService {
	return NewPDFService(types.DocumentServiceConfig{
		ChunkSize:     100,
		ChunkOverlap:  20,
		MinTextLength: 64,
	})
}

func TestChunkText(t *testing.T) {
	svc := newTestPDFService()

	paragraphs := make([]string, 8)
	for i := range paragraphs {
		paragraphs[i] = "This is a sentence that fills out the paragraph with enough words to matter."
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks, err := svc.ChunkText(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1, "long text must split into multiple chunks")

	for _, chunk := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestChunkTextShortInput(t *testing.T) {
	svc := newTestPDFService()

	chunks, err := svc.ChunkText("just a short note")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a short note", chunks[0])
}

func TestChunkTextEmptyInput(t *testing.T) {
	svc := newTestPDFService()

	chunks, err := svc.ChunkText("   \n\n   ")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips null bytes", "abc\x00def", "abcdef"},
		{"strips replacement runes", "ab�cd", "abcd"},
		{"strips carriage returns", "line one\r\nline two", "line one\nline two"},
		{"form feed becomes newline", "page one\fpage two", "page one\npage two"},
		{"collapses runs of spaces", "too    many     spaces", "too many spaces"},
		{"trims surrounding whitespace", "  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanText(tt.in))
		})
	}
}

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openlearn/learnportal-be/types"
)

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "learnportal_module1_docs", CollectionName("learnportal", "module1"))
	assert.Equal(t, "x_y_docs", CollectionName("x", "y"))
}

func TestChunkPayloadRoundTrip(t *testing.T) {
	chunk := types.DocumentChunk{
		Content: "some extracted text\nwith a newline",
		Source:  "handbook.pdf",
		Module:  "module1",
		Index:   7,
	}

	restored := chunkFromPayload(chunkToPayload(chunk))
	assert.Equal(t, chunk, restored)
}

func TestChunkFromPayloadMissingKeys(t *testing.T) {
	chunk := chunkFromPayload(nil)
	assert.Equal(t, types.DocumentChunk{}, chunk)
}

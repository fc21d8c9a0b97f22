package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitter_ShortTextSingleChunk(t *testing.T) {
	splitter := NewSplitter()

	chunks, err := splitter.Split("one small paragraph")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "one small paragraph", chunks[0])
}

func TestSplitter_LongTextRespectsChunkSize(t *testing.T) {
	splitter := NewSplitter()

	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("The quick brown fox jumps over the lazy dog. ")
	}

	chunks, err := splitter.Split(b.String())
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), DefaultChunkSize, "chunk %d", i)
		assert.NotEmpty(t, strings.TrimSpace(chunk), "chunk %d", i)
	}
}

func TestSplitter_Deterministic(t *testing.T) {
	splitter := NewSplitter()
	text := strings.Repeat("Sentence about the water cycle. ", 100)

	first, err := splitter.Split(text)
	require.NoError(t, err)
	second, err := splitter.Split(text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSplitter_EmptyInput(t *testing.T) {
	splitter := NewSplitter()

	chunks, err := splitter.Split("")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplitter_CustomGeometry(t *testing.T) {
	splitter := NewSplitter(WithChunkSize(100), WithChunkOverlap(10))
	text := strings.Repeat("word ", 200)

	chunks, err := splitter.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 100, "chunk %d", i)
	}
}

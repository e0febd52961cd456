package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowra/knowra-be/types"
)

func repeatSentences(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("The quick brown fox jumps over the lazy dog near the river bank. ")
	}
	return strings.TrimSpace(b.String())
}

func TestChunkPages(t *testing.T) {
	svc := NewPDFService(types.DocumentServiceConfig{MaxChunkSize: 100, OverlapSize: 20})

	t.Run("Short page yields a single chunk", func(t *testing.T) {
		chunks := svc.ChunkPages("doc.pdf", []types.PageText{
			{Page: 0, Text: "Just one short paragraph."},
		})

		require.Len(t, chunks, 1)
		assert.Equal(t, "Just one short paragraph.", chunks[0].Content)
		assert.Equal(t, 0, chunks[0].Page)
		assert.Equal(t, "doc.pdf", chunks[0].Source)
	})

	t.Run("No chunk exceeds the configured maximum", func(t *testing.T) {
		chunks := svc.ChunkPages("doc.pdf", []types.PageText{
			{Page: 0, Text: repeatSentences(30)},
		})

		require.NotEmpty(t, chunks)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(chunk.Content), 100)
			assert.NotEmpty(t, chunk.Content)
		}
	})

	t.Run("Consecutive chunks of a page overlap", func(t *testing.T) {
		chunks := svc.ChunkPages("doc.pdf", []types.PageText{
			{Page: 0, Text: repeatSentences(30)},
		})

		require.Greater(t, len(chunks), 1)
		for i := 1; i < len(chunks); i++ {
			prefix := chunks[i].Content
			if utf8.RuneCountInString(prefix) > 10 {
				prefix = string([]rune(prefix)[:10])
			}
			assert.Contains(t, chunks[i-1].Content, prefix,
				"chunk %d should start inside chunk %d", i, i-1)
		}
	})

	t.Run("Chunking is deterministic", func(t *testing.T) {
		pages := []types.PageText{
			{Page: 0, Text: repeatSentences(25)},
			{Page: 1, Text: repeatSentences(5)},
		}

		first := svc.ChunkPages("doc.pdf", pages)
		second := svc.ChunkPages("doc.pdf", pages)
		assert.Equal(t, first, second)
	})

	t.Run("Empty page yields zero chunks without aborting the rest", func(t *testing.T) {
		chunks := svc.ChunkPages("doc.pdf", []types.PageText{
			{Page: 0, Text: "First page text."},
			{Page: 1, Text: "   "},
			{Page: 2, Text: "Third page text."},
		})

		require.Len(t, chunks, 2)
		assert.Equal(t, 0, chunks[0].Page)
		assert.Equal(t, 2, chunks[1].Page)
	})

	t.Run("Chunks never reference pages outside the document", func(t *testing.T) {
		pages := []types.PageText{
			{Page: 0, Text: repeatSentences(10)},
			{Page: 1, Text: repeatSentences(10)},
			{Page: 2, Text: repeatSentences(10)},
		}

		chunks := svc.ChunkPages("doc.pdf", pages)
		require.NotEmpty(t, chunks)
		for _, chunk := range chunks {
			assert.GreaterOrEqual(t, chunk.Page, 0)
			assert.Less(t, chunk.Page, len(pages))
		}
	})

	t.Run("Fully empty document yields zero chunks", func(t *testing.T) {
		chunks := svc.ChunkPages("doc.pdf", []types.PageText{
			{Page: 0, Text: ""},
			{Page: 1, Text: "\n\n"},
		})
		assert.Empty(t, chunks)
	})

	t.Run("Chunks do not span page boundaries", func(t *testing.T) {
		chunks := svc.ChunkPages("doc.pdf", []types.PageText{
			{Page: 0, Text: "Alpha ends here."},
			{Page: 1, Text: "Beta starts here."},
		})

		require.Len(t, chunks, 2)
		assert.NotContains(t, chunks[0].Content, "Beta")
		assert.NotContains(t, chunks[1].Content, "Alpha")
	})
}

func TestNewPDFService(t *testing.T) {
	t.Run("Falls back to defaults for invalid configuration", func(t *testing.T) {
		svc := NewPDFService(types.DocumentServiceConfig{MaxChunkSize: 0, OverlapSize: -1})
		assert.Equal(t, DefaultDocumentServiceConfig.MaxChunkSize, svc.maxChunkSize)
		assert.Equal(t, DefaultDocumentServiceConfig.OverlapSize, svc.overlapSize)
	})

	t.Run("Rejects overlap larger than chunk size", func(t *testing.T) {
		svc := NewPDFService(types.DocumentServiceConfig{MaxChunkSize: 50, OverlapSize: 60})
		assert.Equal(t, 50, svc.maxChunkSize)
		assert.Equal(t, DefaultDocumentServiceConfig.OverlapSize, svc.overlapSize)
	})
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b", cleanText("a\u0000 b\r"))
	assert.Equal(t, "a b", cleanText("a \r b"))
	assert.Equal(t, "a b", cleanText("a    b"))
	assert.Equal(t, "line\nnext", cleanText("line\fnext"))
	assert.Equal(t, "", cleanText("  \n "))

	// Stripping "\r" leaves a double space that must always collapse,
	// regardless of replacement order.
	for i := 0; i < 100; i++ {
		assert.Equal(t, "alpha beta", cleanText("alpha \r beta"))
	}
}

package database

import (
	"context"
	"testing"

	"github.com/philippgille/chromem-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowra/knowra-be/types"
)

// axisEmbedding maps known chunk contents onto orthogonal unit vectors so
// similarity ordering in tests is fully predictable.
func axisEmbedding(vectors map[string][]float32) chromem.EmbeddingFunc {
	return func(_ context.Context, text string) ([]float32, error) {
		if v, ok := vectors[text]; ok {
			return v, nil
		}
		return []float32{0, 0, 1}, nil
	}
}

func testChunks() []types.DocumentChunk {
	return []types.DocumentChunk{
		{Content: "alpha", Page: 0, Source: "doc.pdf"},
		{Content: "beta", Page: 2, Source: "doc.pdf"},
		{Content: "gamma", Page: 5, Source: "doc.pdf"},
	}
}

func TestBuildChromemIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("empty chunk slice is rejected", func(t *testing.T) {
		_, err := BuildChromemIndex(ctx, "doc.pdf", nil, axisEmbedding(nil))
		require.Error(t, err)
	})

	t.Run("built index holds one entry per chunk", func(t *testing.T) {
		index, err := BuildChromemIndex(ctx, "doc.pdf", testChunks(), axisEmbedding(map[string][]float32{
			"alpha": {1, 0, 0},
			"beta":  {0, 1, 0},
			"gamma": {0, 0, 1},
		}))
		require.NoError(t, err)
		assert.Equal(t, 3, index.Count())
	})
}

func TestChromemIndexQuery(t *testing.T) {
	ctx := context.Background()
	vectors := map[string][]float32{
		"alpha": {1, 0, 0},
		"beta":  {0, 1, 0},
		"gamma": {0, 0, 1},
	}

	t.Run("nearest chunk comes first and metadata survives", func(t *testing.T) {
		index, err := BuildChromemIndex(ctx, "doc.pdf", testChunks(), axisEmbedding(vectors))
		require.NoError(t, err)

		got, err := index.Query(ctx, []float32{0, 1, 0}, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "beta", got[0].Content)
		assert.Equal(t, 2, got[0].Page)
		assert.Equal(t, 1, got[0].Seq)
		assert.Greater(t, got[0].Similarity, got[1].Similarity)
	})

	t.Run("k larger than the chunk count is clamped", func(t *testing.T) {
		index, err := BuildChromemIndex(ctx, "doc.pdf", testChunks(), axisEmbedding(vectors))
		require.NoError(t, err)

		got, err := index.Query(ctx, []float32{1, 0, 0}, 50)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("k smaller than the chunk count limits the result", func(t *testing.T) {
		index, err := BuildChromemIndex(ctx, "doc.pdf", testChunks(), axisEmbedding(vectors))
		require.NoError(t, err)

		got, err := index.Query(ctx, []float32{0, 0, 1}, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "gamma", got[0].Content)
	})

	t.Run("equal similarities fall back to insertion order", func(t *testing.T) {
		same := chromem.EmbeddingFunc(func(_ context.Context, _ string) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		})
		index, err := BuildChromemIndex(ctx, "doc.pdf", testChunks(), same)
		require.NoError(t, err)

		got, err := index.Query(ctx, []float32{1, 0, 0}, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []int{0, 1, 2}, []int{got[0].Seq, got[1].Seq, got[2].Seq})
	})

	t.Run("ties spanning the k cut still pick the first-inserted chunks", func(t *testing.T) {
		same := chromem.EmbeddingFunc(func(_ context.Context, _ string) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		})
		chunks := make([]types.DocumentChunk, 8)
		for i := range chunks {
			chunks[i] = types.DocumentChunk{Content: "chunk " + string(rune('a'+i)), Page: i, Source: "doc.pdf"}
		}
		index, err := BuildChromemIndex(ctx, "doc.pdf", chunks, same)
		require.NoError(t, err)

		for trial := 0; trial < 50; trial++ {
			got, err := index.Query(ctx, []float32{1, 0, 0}, 2)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, []int{0, 1}, []int{got[0].Seq, got[1].Seq})
		}
	})
}

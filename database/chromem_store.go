package database

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/knowra/knowra-be/types"
)

// ChromemIndex is an in-memory vector index over the chunks of a single
// document, backed by a private chromem-go collection. The collection is
// never mutated after the build, so the index is safe for concurrent
// queries once published to a registry.
type ChromemIndex struct {
	name       string
	collection *chromem.Collection
}

// BuildChromemIndex embeds every chunk through embeddingFunc and stores
// the results in a fresh collection. The caller publishes the returned
// index to a registry only after the build succeeded.
func BuildChromemIndex(ctx context.Context, name string, chunks []types.DocumentChunk, embeddingFunc chromem.EmbeddingFunc) (*ChromemIndex, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("cannot build index for %q: no chunks", name)
	}

	db := chromem.NewDB()
	collection, err := db.CreateCollection(name, nil, embeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:      fmt.Sprintf("%s-%d-%d", name, chunk.Page, i),
			Content: chunk.Content,
			Metadata: map[string]string{
				"page":   strconv.Itoa(chunk.Page),
				"chunk":  strconv.Itoa(i),
				"source": chunk.Source,
			},
		}
	}

	// AddDocuments embeds the documents concurrently via embeddingFunc.
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("failed to add documents: %w", err)
	}

	return &ChromemIndex{
		name:       name,
		collection: collection,
	}, nil
}

func (idx *ChromemIndex) Count() int {
	return idx.collection.Count()
}

func (idx *ChromemIndex) Query(ctx context.Context, queryEmbedding []float32, k int) ([]types.RetrievedChunk, error) {
	total := idx.collection.Count()
	if total == 0 {
		return nil, nil
	}

	// Fetch every chunk, not just k: chromem's own top-k cut is arbitrary
	// among equal similarities, so the deterministic tie-break below must
	// run before truncation. Collections are small and in process.
	results, err := idx.collection.QueryEmbedding(ctx, queryEmbedding, total, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %q: %w", idx.name, err)
	}

	chunks := make([]types.RetrievedChunk, 0, len(results))
	for _, result := range results {
		page, err := strconv.Atoi(result.Metadata["page"])
		if err != nil {
			return nil, fmt.Errorf("corrupt page metadata on %q: %w", result.ID, err)
		}
		seq, err := strconv.Atoi(result.Metadata["chunk"])
		if err != nil {
			return nil, fmt.Errorf("corrupt chunk metadata on %q: %w", result.ID, err)
		}
		chunks = append(chunks, types.RetrievedChunk{
			Content:    result.Content,
			Page:       page,
			Seq:        seq,
			Similarity: result.Similarity,
		})
	}

	// Nearest first, equal similarities resolved by insertion order so
	// query results are deterministic.
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].Similarity != chunks[j].Similarity {
			return chunks[i].Similarity > chunks[j].Similarity
		}
		return chunks[i].Seq < chunks[j].Seq
	})

	if k < len(chunks) {
		chunks = chunks[:k]
	}
	return chunks, nil
}

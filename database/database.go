package database

import (
	"context"

	"github.com/knowra/knowra-be/types"
)

// VectorIndex is the retrieval surface of one indexed document.
type VectorIndex interface {
	// Query returns the k chunks nearest to the query embedding, nearest
	// first. If fewer than k chunks exist, all of them are returned.
	Query(ctx context.Context, queryEmbedding []float32, k int) ([]types.RetrievedChunk, error)

	// Count reports the number of indexed chunks.
	Count() int
}

// DocumentRegistry maps a document identifier (the uploaded filename) to
// its index. Writes are atomic from the perspective of readers: an index
// is fully built before it is put, so a reader observes either no index
// or a complete one, never a partial build. Re-uploading the same
// filename replaces the previous index, last write wins.
type DocumentRegistry interface {
	Get(name string) (VectorIndex, bool)
	Put(name string, index VectorIndex)
	Remove(name string)
}

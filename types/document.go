package types

// PageText holds the raw extracted text of a single PDF page.
// Page indices are 0-based throughout the pipeline; they are only
// converted to 1-based when reported as answer sources.
type PageText struct {
	Page int    // 0-based page index
	Text string // extracted plain text, may be empty
}

// DocumentChunk is the unit of retrieval: a bounded span of page text
// tagged with the page it was extracted from.
type DocumentChunk struct {
	Content string // chunk text, at most MaxChunkSize characters
	Page    int    // 0-based page index the text came from
	Source  string // filename of the owning document
}

// RetrievedChunk is a chunk returned from a similarity search.
type RetrievedChunk struct {
	Content    string
	Page       int     // 0-based page index
	Seq        int     // insertion order within the index, used for tie-breaks
	Similarity float32 // cosine similarity to the query
}

// DocumentServiceConfig contains configuration options for PDF processing.
type DocumentServiceConfig struct {
	MaxChunkSize int // Maximum size for text chunks, in characters
	OverlapSize  int // Size of overlap between consecutive chunks of a page
}

package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/knowra/knowra-be/database"
	"github.com/knowra/knowra-be/types"
)

const (
	greetingAnswer   = "Hello! I'm ready to answer questions about your document. What would you like to know?"
	outOfScopeAnswer = "I can only answer questions based on the content of the document you provided. Please ask something related to the PDF."
)

var greetings = []string{
	"hi", "hello", "hey", "greetings", "good morning", "good afternoon", "good evening",
}

// notFoundPhrases flag answers where the generator signaled that the
// context lacks the answer. Substring matching is a heuristic: a
// legitimate answer can contain one of these phrases, in which case it
// is wrongly replaced by the out-of-scope message.
var notFoundPhrases = []string{
	"not found",
	"cannot answer",
	"do not contain the answer",
	"not in the provided context",
	"i cannot answer",
}

// RAGService runs the chat pipeline: retrieve, filter by page range,
// generate a grounded answer, extract sources.
type RAGService struct {
	registry        database.DocumentRegistry
	ai              AIService
	topK            int
	upstreamTimeout time.Duration
}

func NewRAGService(registry database.DocumentRegistry, ai AIService, topK int, upstreamTimeout time.Duration) *RAGService {
	return &RAGService{
		registry:        registry,
		ai:              ai,
		topK:            topK,
		upstreamTimeout: upstreamTimeout,
	}
}

// Answer handles one chat request. Each call is independent: no
// conversation state is held here, history rendering belongs to the UI.
func (s *RAGService) Answer(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("%w: empty question", types.ErrInvalidInput)
	}
	if req.StartPage < 0 || req.EndPage < req.StartPage {
		return nil, fmt.Errorf("%w: invalid page range %d-%d", types.ErrInvalidInput, req.StartPage, req.EndPage)
	}

	if isGreeting(req.Question) {
		return &types.ChatResponse{
			Answer:  greetingAnswer,
			Sources: []int{},
		}, nil
	}

	index, ok := s.registry.Get(req.Filename)
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrDocumentNotFound, req.Filename)
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.upstreamTimeout)
	defer cancel()
	queryEmbedding, err := s.ai.EmbedQuery(embedCtx, req.Question)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", types.ErrUpstream, err)
	}

	retrieved, err := index.Query(ctx, queryEmbedding, s.topK)
	if err != nil {
		return nil, fmt.Errorf("querying index for %q: %w", req.Filename, err)
	}

	// The k-NN search is range-agnostic; the filter runs on its results.
	// A narrow range can therefore starve retrieval down to zero chunks
	// even when relevant in-range content exists. Known limitation of
	// post-filtering, kept instead of widening k or pre-filtering.
	contextChunks := FilterByPageRange(retrieved, req.StartPage, req.EndPage)
	if len(contextChunks) == 0 {
		return &types.ChatResponse{
			Answer:  outOfScopeAnswer,
			Sources: []int{},
		}, nil
	}

	contexts := make([]string, len(contextChunks))
	for i, chunk := range contextChunks {
		contexts[i] = chunk.Content
	}

	genCtx, cancel := context.WithTimeout(ctx, s.upstreamTimeout)
	defer cancel()
	answer, err := s.ai.GenerateAnswer(genCtx, req.Question, contexts)
	if err != nil {
		return nil, fmt.Errorf("%w: generating answer: %v", types.ErrUpstream, err)
	}

	if containsNotFoundPhrase(answer) {
		log.Debug().Str("filename", req.Filename).Msg("generator signaled answer not in context")
		return &types.ChatResponse{
			Answer:  outOfScopeAnswer,
			Sources: []int{},
		}, nil
	}

	return &types.ChatResponse{
		Answer:  answer,
		Sources: extractSources(contextChunks),
	}, nil
}

// FilterByPageRange keeps the chunks whose page lies in the inclusive
// 0-based interval [start, end]. It is a pure function over retrieval
// results and idempotent.
func FilterByPageRange(chunks []types.RetrievedChunk, start, end int) []types.RetrievedChunk {
	filtered := make([]types.RetrievedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if start <= chunk.Page && chunk.Page <= end {
			filtered = append(filtered, chunk)
		}
	}
	return filtered
}

// isGreeting reports whether the question, after lowercasing, trimming
// whitespace and stripping trailing punctuation, is exactly one of the
// known greeting phrases.
func isGreeting(question string) bool {
	normalized := strings.ToLower(strings.TrimSpace(question))
	normalized = strings.TrimRight(normalized, "!?.")
	for _, greeting := range greetings {
		if normalized == greeting {
			return true
		}
	}
	return false
}

func containsNotFoundPhrase(answer string) bool {
	lowered := strings.ToLower(answer)
	for _, phrase := range notFoundPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// extractSources converts the pages of the surviving context chunks to
// distinct, ascending, 1-based page numbers.
func extractSources(chunks []types.RetrievedChunk) []int {
	seen := make(map[int]struct{}, len(chunks))
	sources := make([]int, 0, len(chunks))
	for _, chunk := range chunks {
		page := chunk.Page + 1
		if _, ok := seen[page]; ok {
			continue
		}
		seen[page] = struct{}{}
		sources = append(sources, page)
	}
	sort.Ints(sources)
	return sources
}

package service

import (
	"context"
	"fmt"
	"strings"
)

// Embedder maps text to a fixed-length vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Generator produces a natural-language answer from a question and the
// retrieved context chunks. Implementations must instruct the model to
// answer only from the supplied context.
type Generator interface {
	GenerateAnswer(ctx context.Context, question string, contexts []string) (string, error)
}

// AIService bundles the two upstream model calls behind one provider.
type AIService interface {
	Embedder
	Generator
}

const groundedPromptTemplate = `You are a helpful assistant. Answer the user's question based ONLY on the following context.
If the context does not contain the answer, state clearly that the answer is not found in the provided pages.
Do not use any external knowledge. Be concise.

Context:
%s

Question: %s

Answer:`

// buildGroundedPrompt joins the context chunks and renders the grounding
// prompt shared by all providers.
func buildGroundedPrompt(question string, contexts []string) string {
	return fmt.Sprintf(groundedPromptTemplate, strings.Join(contexts, "\n\n"), question)
}

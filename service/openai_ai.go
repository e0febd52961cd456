package service

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
)

var systemMessageGroundedAssistant = openai.ChatCompletionMessage{
	Role: openai.ChatMessageRoleSystem,
	Content: "You are a helpful assistant. Answer the user's question based ONLY on the provided context. " +
		"If the context does not contain the answer, state clearly that the answer is not found in the provided pages. " +
		"Do not use any external knowledge. Be concise.",
}

// OpenAIService answers and embeds through an OpenAI-compatible API,
// including local LLM servers via a custom base URL.
type OpenAIService struct {
	client         *openai.Client
	model          string
	embeddingModel string
}

func NewOpenAIService(baseURL, apiKey, model, embeddingModel string) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAIService{
		client:         client,
		model:          model,
		embeddingModel: embeddingModel,
	}
}

func (s *OpenAIService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(s.embeddingModel),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return resp.Data[0].Embedding, nil
}

func (s *OpenAIService) GenerateAnswer(ctx context.Context, question string, contexts []string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		systemMessageGroundedAssistant,
		{
			Role:    openai.ChatMessageRoleUser,
			Content: buildGroundedPrompt(question, contexts),
		},
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Messages: messages,
			Model:    s.model,
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response generated")
	}

	return resp.Choices[0].Message.Content, nil
}

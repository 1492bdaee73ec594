package groq

import (
	"context"
	"fmt"

	"baknusai-be/pkg/llm"

	openai "github.com/sashabaranov/go-openai"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider drives the Groq cloud through its OpenAI-compatible API.
type GroqProvider struct {
	ModelName string
	client    *openai.Client
}

var _ llm.Provider = &GroqProvider{}

func NewGroqProvider(apiKey, modelName string) *GroqProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = defaultBaseURL
	return &GroqProvider{
		ModelName: modelName,
		client:    openai.NewClientWithConfig(cfg),
	}
}

func (g *GroqProvider) Name() string {
	return "groq"
}

func (g *GroqProvider) buildRequest(system string, history []llm.Message, options *llm.Options) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, msg := range history {
		role := msg.Role
		if role == "model" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	model := g.ModelName
	if options.Model != "" {
		model = options.Model
	}
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}
	if options.Temperature > 0 {
		req.Temperature = float32(options.Temperature)
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}
	return req
}

func (g *GroqProvider) Generate(ctx context.Context, system string, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(llm.Options{}, opts...)

	resp, err := g.client.CreateChatCompletion(ctx, g.buildRequest(system, history, options))
	if err != nil {
		return "", fmt.Errorf("groq request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *GroqProvider) OpenStream(ctx context.Context, system string, history []llm.Message, opts ...llm.Option) (llm.Stream, error) {
	options := llm.ApplyOptions(llm.Options{}, opts...)

	req := g.buildRequest(system, history, options)
	req.Stream = true

	stream, err := g.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("groq stream failed: %w", err)
	}
	return &groqStream{inner: stream}, nil
}

type groqStream struct {
	inner *openai.ChatCompletionStream
}

func (s *groqStream) Recv() (string, error) {
	for {
		resp, err := s.inner.Recv()
		if err != nil {
			// io.EOF passes through as end-of-stream
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		return delta, nil
	}
}

func (s *groqStream) Close() error {
	return s.inner.Close()
}

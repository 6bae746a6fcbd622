package openai

import (
	"context"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

// IChatCompletion is the narrow completion surface the extraction engine
// consumes: one prompt in, the raw model text out. Parsing and retries live
// with the caller.
type IChatCompletion interface {
	CompleteJSON(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

type chatService struct {
	client *openai.Client
	model  string
}

// New reads OPENAI_API_KEY, OPENAI_CHAT_MODEL and OPENAI_BASE_URL. The base
// URL override lets any OpenAI-compatible provider (e.g. DeepSeek) serve the
// chat endpoint without code changes.
func New() IChatCompletion {
	apiKey := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("OPENAI_CHAT_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &chatService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *chatService) CompleteJSON(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userMessage,
				},
			},
			Temperature: 0.2,
			MaxTokens:   300,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}

	return resp.Choices[0].Message.Content, nil
}

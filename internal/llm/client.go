package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client is a single-shot chat-completions adapter for any OpenAI-compatible
// endpoint (OpenRouter, OpenAI, a local gateway). No streaming.
type Client struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

// NewClient creates a generation client. baseURL may be empty to use the
// SDK default endpoint; apiKey may be empty for unauthenticated gateways.
func NewClient(baseURL, apiKey, model string, logger *slog.Logger) *Client {
	var opts []option.RequestOption
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	return &Client{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger,
	}
}

// Complete sends one system instruction plus user content and returns the
// generated text. Honors ctx cancellation, so callers can bound the call
// with a deadline.
func (c *Client) Complete(ctx context.Context, instructions, input string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instructions),
			openai.UserMessage(input),
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

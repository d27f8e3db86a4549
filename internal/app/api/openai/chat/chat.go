package chat

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/aken1023/care-sch/internal/app/api"
	apperrors "github.com/aken1023/care-sch/internal/app/errors"
)

// Client sends a system + user message pair to the chat completions endpoint.
type Client struct {
	client *openai.Client
	model  string
}

func NewClient(client *openai.Client, model string) *Client {
	if model == "" {
		model = openai.GPT4TurboPreview
	}
	return &Client{client: client, model: model}
}

var _ api.Completer = (*Client)(nil)

func (c *Client) Complete(ctx context.Context, req api.CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.ErrEmptyCompletion
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", apperrors.ErrEmptyCompletion
	}
	return text, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

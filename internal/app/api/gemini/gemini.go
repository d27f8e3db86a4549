// Package gemini adapts the Gemini API to api.Completer.
package gemini

import (
	"context"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/aken1023/care-sch/internal/app/api"
	apperrors "github.com/aken1023/care-sch/internal/app/errors"
)

const DefaultModel = "gemini-2.0-flash"

type Client struct {
	client *genai.Client
	model  string
}

// NewClient connects to the Gemini API backend. baseURL is only set in tests and proxies.
func NewClient(ctx context.Context, apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, apperrors.Wrap(apperrors.ErrMissingAPIKey, "gemini")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	if timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, apperrors.Wrap(err, "create gemini client")
	}
	return &Client{client: client, model: model}, nil
}

var _ api.Completer = (*Client)(nil)

func (c *Client) Complete(ctx context.Context, req api.CompletionRequest) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", apperrors.ErrEmptyCompletion
	}
	return text, nil
}

func (c *Client) Model() string {
	return c.model
}

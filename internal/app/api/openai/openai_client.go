package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// NewClient builds an OpenAI client. An empty baseURL keeps the public endpoint.
// The HTTP timeout is a ceiling; callers also bound each call with a context deadline.
func NewClient(apiKey, baseURL string, timeout time.Duration) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if timeout > 0 {
		config.HTTPClient = &http.Client{Timeout: timeout + 30*time.Second}
	}
	return openai.NewClientWithConfig(config)
}

// ModelsPinger verifies the API key by listing the models it can use.
type ModelsPinger struct {
	client *openai.Client
}

func NewModelsPinger(client *openai.Client) *ModelsPinger {
	return &ModelsPinger{client: client}
}

func (p *ModelsPinger) Ping(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}
	return nil
}

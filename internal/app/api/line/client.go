// Package line talks to the LINE Messaging API: webhook signature checks,
// message content download and replies.
package line

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

const (
	DefaultAPIBase     = "https://api.line.me"
	DefaultDataAPIBase = "https://api-data.line.me"

	// MaxReplyMessages is the platform limit of messages per reply token.
	MaxReplyMessages = 5
	// MaxTextRunes is the platform limit of characters per text message.
	MaxTextRunes = 5000

	SignatureHeader = "X-Line-Signature"
)

// ValidateSignature checks the base64 HMAC-SHA256 of body keyed with the channel secret.
func ValidateSignature(channelSecret string, body []byte, signature string) bool {
	if channelSecret == "" || signature == "" {
		return false
	}
	return webhook.ValidateSignature(channelSecret, signature, body)
}

// Config holds the channel credentials and endpoints.
type Config struct {
	AccessToken string
	APIBase     string
	DataAPIBase string
	Timeout     time.Duration
}

// Client wraps the SDK's messaging and blob APIs behind the calls the bot needs.
type Client struct {
	api  *messaging_api.MessagingApiAPI
	blob *messaging_api.MessagingApiBlobAPI
}

func NewClient(config Config) (*Client, error) {
	if config.APIBase == "" {
		config.APIBase = DefaultAPIBase
	}
	if config.DataAPIBase == "" {
		config.DataAPIBase = DefaultDataAPIBase
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	httpClient := &http.Client{Timeout: config.Timeout}

	api, err := messaging_api.NewMessagingApiAPI(config.AccessToken,
		messaging_api.WithHTTPClient(httpClient),
		messaging_api.WithEndpoint(config.APIBase),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}
	blob, err := messaging_api.NewMessagingApiBlobAPI(config.AccessToken,
		messaging_api.WithBlobHTTPClient(httpClient),
		messaging_api.WithBlobEndpoint(config.DataAPIBase),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}
	return &Client{api: api, blob: blob}, nil
}

// The SDK clients keep the request context as a field, so every call works on
// its own copy.
func (c *Client) messaging(ctx context.Context) *messaging_api.MessagingApiAPI {
	api := *c.api
	return api.WithContext(ctx)
}

func (c *Client) blobs(ctx context.Context) *messaging_api.MessagingApiBlobAPI {
	blob := *c.blob
	return blob.WithContext(ctx)
}

// Content downloads the binary content of a message. The caller closes the body.
func (c *Client) Content(ctx context.Context, messageID string) (io.ReadCloser, error) {
	resp, err := c.blobs(ctx).GetMessageContent(messageID)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("failed to download message content: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download message content: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Reply sends up to MaxReplyMessages text messages; extra texts are dropped and
// each text is cut to MaxTextRunes.
func (c *Client) Reply(ctx context.Context, replyToken string, texts ...string) error {
	if replyToken == "" {
		return fmt.Errorf("reply token is empty")
	}
	if len(texts) == 0 {
		return nil
	}
	if len(texts) > MaxReplyMessages {
		texts = texts[:MaxReplyMessages]
	}

	messages := make([]messaging_api.MessageInterface, 0, len(texts))
	for _, text := range texts {
		messages = append(messages, &messaging_api.TextMessage{Text: Truncate(text, MaxTextRunes)})
	}
	if _, err := c.messaging(ctx).ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	}); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// BotInfo fetches the bot profile.
func (c *Client) BotInfo(ctx context.Context) (*messaging_api.BotInfoResponse, error) {
	info, err := c.messaging(ctx).GetBotInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get bot info: %w", err)
	}
	return info, nil
}

// Ping checks the access token against the bot info endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.BotInfo(ctx)
	return err
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

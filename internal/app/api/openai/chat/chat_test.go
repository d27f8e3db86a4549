package chat

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aken1023/care-sch/internal/app/api"
	apperrors "github.com/aken1023/care-sch/internal/app/errors"
)

func completionBody(contents ...string) string {
	choices := make([]map[string]any, 0, len(contents))
	for i, c := range contents {
		choices = append(choices, map[string]any{
			"index":         i,
			"message":       map[string]string{"role": "assistant", "content": c},
			"finish_reason": "stop",
		})
	}
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"model":   "gpt-4-turbo-preview",
		"choices": choices,
	})
	return string(b)
}

func TestClient_Complete(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		want         string
		wantErr      bool
		wantEmptyErr bool
	}{
		{
			name:   "report returned",
			status: http.StatusOK,
			body:   completionBody("## 1. 病人基本狀況\n意識清楚"),
			want:   "## 1. 病人基本狀況\n意識清楚",
		},
		{
			name:         "no choices",
			status:       http.StatusOK,
			body:         completionBody(),
			wantErr:      true,
			wantEmptyErr: true,
		},
		{
			name:         "blank content",
			status:       http.StatusOK,
			body:         completionBody("  \n"),
			wantErr:      true,
			wantEmptyErr: true,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"error": {"message": "boom", "type": "server_error"}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got openai.ChatCompletionRequest
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			config := openai.DefaultConfig("test-key")
			config.BaseURL = server.URL + "/v1"
			c := NewClient(openai.NewClientWithConfig(config), "")

			text, err := c.Complete(context.Background(), api.CompletionRequest{
				System:      "你是專業護理師",
				Prompt:      "請整理以下內容",
				Temperature: 0.7,
			})

			require.Len(t, got.Messages, 2)
			assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
			assert.Equal(t, "你是專業護理師", got.Messages[0].Content)
			assert.Equal(t, openai.ChatMessageRoleUser, got.Messages[1].Role)
			assert.Equal(t, openai.GPT4TurboPreview, got.Model)
			assert.InDelta(t, 0.7, got.Temperature, 0.0001)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantEmptyErr, stderrors.Is(err, apperrors.ErrEmptyCompletion))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestClient_NoSystemMessage(t *testing.T) {
	var got openai.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody("ok")))
	}))
	defer server.Close()

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	c := NewClient(openai.NewClientWithConfig(config), "gpt-4o")

	_, err := c.Complete(context.Background(), api.CompletionRequest{Prompt: "hi"})
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "gpt-4o", c.Model())
}

package gemini

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aken1023/care-sch/internal/app/api"
	apperrors "github.com/aken1023/care-sch/internal/app/errors"
)

func geminiServer(t *testing.T, status int, text string, seen *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.0-flash:generateContent"), r.URL.Path)
		if seen != nil {
			json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error": {"code": 500, "message": "backend unavailable", "status": "INTERNAL"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
				"finishReason": "STOP",
			}},
		})
	}))
}

func TestClient_Complete(t *testing.T) {
	var body map[string]any
	server := geminiServer(t, http.StatusOK, "## 1. 病人基本狀況\n穩定", &body)
	defer server.Close()

	c, err := NewClient(context.Background(), "test-key", server.URL+"/", "", 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.Model())

	text, err := c.Complete(context.Background(), api.CompletionRequest{
		System:      "你是專業護理師",
		Prompt:      "請整理",
		Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "## 1. 病人基本狀況\n穩定", text)
	assert.Contains(t, body, "systemInstruction")
	assert.Contains(t, body, "contents")
}

func TestClient_Complete_Blank(t *testing.T) {
	server := geminiServer(t, http.StatusOK, "   ", nil)
	defer server.Close()

	c, err := NewClient(context.Background(), "test-key", server.URL+"/", "", 0)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), api.CompletionRequest{Prompt: "x"})
	assert.True(t, stderrors.Is(err, apperrors.ErrEmptyCompletion))
}

func TestClient_Complete_ServerError(t *testing.T) {
	server := geminiServer(t, http.StatusInternalServerError, "", nil)
	defer server.Close()

	c, err := NewClient(context.Background(), "test-key", server.URL+"/", "", 0)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), api.CompletionRequest{Prompt: "x"})
	assert.Error(t, err)
}

func TestNewClient_MissingKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "", "", 0)
	assert.True(t, stderrors.Is(err, apperrors.ErrMissingAPIKey))
}

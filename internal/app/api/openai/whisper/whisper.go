package whisper

import (
	"context"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	apperrors "github.com/aken1023/care-sch/internal/app/errors"
)

// RemoteTranscriber implements remote transcription using the OpenAI API.
// It calls the backend exactly once per Transcript; there is no retry.
type RemoteTranscriber struct {
	client   *openai.Client
	model    string
	language string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, model, language string, timeout time.Duration, logger *zap.Logger) *RemoteTranscriber {
	if model == "" {
		model = openai.Whisper1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteTranscriber{client: client, model: model, language: language, timeout: timeout, logger: logger}
}

// Transcript uses the OpenAI API for remote transcription.
func (rt *RemoteTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	if rt.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.timeout)
		defer cancel()
	}

	req := openai.AudioRequest{
		Model:    rt.model,
		FilePath: inputFilePath,
		Language: rt.language,
	}

	started := time.Now()
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", apperrors.WrapKind(apperrors.KindTranscription, err, "createTranscription failed")
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", apperrors.WrapKind(apperrors.KindTranscription, apperrors.ErrEmptyTranscript, "createTranscription failed")
	}

	rt.logger.Info("transcription completed",
		zap.String("file", inputFilePath),
		zap.Int("chars", len([]rune(text))),
		zap.Duration("elapsed", time.Since(started)),
	)
	return text, nil
}

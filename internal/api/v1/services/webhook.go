package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/aken1023/care-sch/internal/app/acquisition"
	"github.com/aken1023/care-sch/internal/app/api/line"
	"github.com/aken1023/care-sch/internal/app/dedupe"
	"github.com/aken1023/care-sch/internal/app/metrics"
	"github.com/aken1023/care-sch/internal/app/pipeline"
)

// TextEchoPrefix starts the acknowledgement sent for text messages.
const TextEchoPrefix = "收到訊息："

type WebhookServiceImpl struct {
	runner    Runner
	messenger Messenger
	guard     dedupe.Guard
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewWebhookService(runner Runner, messenger Messenger, guard dedupe.Guard, m *metrics.Metrics, logger *zap.Logger) WebhookService {
	if guard == nil {
		guard = dedupe.NopGuard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookServiceImpl{runner: runner, messenger: messenger, guard: guard, metrics: m, logger: logger}
}

// HandleEvents processes events in order; each audio event runs the pipeline to
// completion before the next one starts.
func (s *WebhookServiceImpl) HandleEvents(ctx context.Context, events []line.Event) {
	for _, event := range events {
		s.handleEvent(ctx, event)
	}
}

func (s *WebhookServiceImpl) handleEvent(ctx context.Context, event line.Event) {
	kind := event.Kind()
	s.metrics.IncWebhookEvent(kind)

	logger := s.logger.With(
		zap.String("event_id", event.WebhookEventID),
		zap.String("user_id", event.Source.UserID),
		zap.String("kind", kind),
	)

	if !s.guard.FirstSeen(ctx, event.WebhookEventID) {
		logger.Info("skipping redelivered event", zap.Bool("is_redelivery", event.DeliveryContext.IsRedelivery))
		return
	}

	switch kind {
	case line.MessageTypeAudio:
		logger.Info("received voice message", zap.String("message_id", event.Message.ID))
		res, err := s.runner.Run(ctx, pipeline.Input{
			Source:  acquisition.NewLineSource(s.messenger, event.Message.ID),
			UserID:  event.Source.UserID,
			Channel: pipeline.ChannelLine,
		})
		s.reply(ctx, logger, event, pipeline.ReplyMessages(res, err)...)
	case line.MessageTypeText:
		s.reply(ctx, logger, event, TextEchoPrefix+event.Message.Text)
	default:
		logger.Debug("ignoring unsupported event")
	}
}

func (s *WebhookServiceImpl) reply(ctx context.Context, logger *zap.Logger, event line.Event, texts ...string) {
	if err := s.messenger.Reply(ctx, event.ReplyToken, texts...); err != nil {
		logger.Error("failed to send reply", zap.Error(err))
	}
}

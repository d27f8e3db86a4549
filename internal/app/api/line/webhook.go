package line

import (
	"encoding/json"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

const (
	EventTypeMessage = "message"

	MessageTypeText  = "text"
	MessageTypeAudio = "audio"
)

// WebhookRequest is the body POSTed to the callback endpoint, reduced to the
// fields the bot acts on.
type WebhookRequest struct {
	Destination string
	Events      []Event
}

type Event struct {
	Type            string
	WebhookEventID  string
	ReplyToken      string
	Timestamp       int64
	Source          Source
	Message         *Message
	DeliveryContext DeliveryContext
}

type Source struct {
	Type    string
	UserID  string
	GroupID string
	RoomID  string
}

type Message struct {
	ID       string
	Type     string
	Text     string
	Duration int64
}

type DeliveryContext struct {
	IsRedelivery bool
}

// ParseWebhook decodes a callback body whose signature was already checked.
func ParseWebhook(body []byte) (*WebhookRequest, error) {
	var cb webhook.CallbackRequest
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, fmt.Errorf("invalid webhook body: %w", err)
	}

	req := &WebhookRequest{Destination: cb.Destination, Events: make([]Event, 0, len(cb.Events))}
	for _, e := range cb.Events {
		req.Events = append(req.Events, fromSDKEvent(e))
	}
	return req, nil
}

func fromSDKEvent(e webhook.EventInterface) Event {
	me, ok := e.(webhook.MessageEvent)
	if !ok {
		return Event{Type: e.GetType()}
	}

	event := Event{
		Type:           EventTypeMessage,
		WebhookEventID: me.WebhookEventId,
		ReplyToken:     me.ReplyToken,
		Timestamp:      me.Timestamp,
		Source:         fromSDKSource(me.Source),
	}
	if me.DeliveryContext != nil {
		event.DeliveryContext.IsRedelivery = me.DeliveryContext.IsRedelivery
	}

	switch m := me.Message.(type) {
	case webhook.AudioMessageContent:
		event.Message = &Message{ID: m.Id, Type: MessageTypeAudio, Duration: m.Duration}
	case webhook.TextMessageContent:
		event.Message = &Message{ID: m.Id, Type: MessageTypeText, Text: m.Text}
	case nil:
	default:
		event.Message = &Message{Type: m.GetType()}
	}
	return event
}

func fromSDKSource(s webhook.SourceInterface) Source {
	switch src := s.(type) {
	case webhook.UserSource:
		return Source{Type: "user", UserID: src.UserId}
	case webhook.GroupSource:
		return Source{Type: "group", UserID: src.UserId, GroupID: src.GroupId}
	case webhook.RoomSource:
		return Source{Type: "room", UserID: src.UserId, RoomID: src.RoomId}
	case nil:
		return Source{}
	default:
		return Source{Type: src.GetType()}
	}
}

// Kind is "audio", "text" or the raw event/message type for anything else.
func (e Event) Kind() string {
	if e.Type != EventTypeMessage || e.Message == nil {
		return e.Type
	}
	return e.Message.Type
}

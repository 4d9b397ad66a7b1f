package httpserver

import (
	"context"
	"io"
	"net/http"

	"university_line_bot/internal/infra/line"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// EventHandler processes the inbound platform events after signature
// validation. Implemented by app.RegistrationService.
type EventHandler interface {
	HandleFollow(ctx context.Context, lineUserID, replyToken string) error
	HandleUnfollow(ctx context.Context, lineUserID string) error
	HandlePostback(ctx context.Context, lineUserID, replyToken, data string) error
	HandleTextMessage(ctx context.Context, lineUserID, replyToken, text string) error
}

// WebhookHandler receives signed LINE event batches and dispatches each
// event to the registration state machine.
type WebhookHandler struct {
	channelSecret string
	events        EventHandler
	logger        *logrus.Entry
}

func NewWebhookHandler(channelSecret string, events EventHandler, logger *logrus.Entry) *WebhookHandler {
	return &WebhookHandler{
		channelSecret: channelSecret,
		events:        events,
		logger:        logger,
	}
}

// Handle is the gin handler for POST /callback.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to read webhook body")
		c.String(http.StatusBadRequest, "bad request")
		return
	}

	// Reject forged requests before any event reaches the core.
	if !line.ValidateSignature(h.channelSecret, body, c.GetHeader(line.SignatureHeader)) {
		h.logger.Warn("Rejected webhook with invalid signature")
		c.String(http.StatusBadRequest, "invalid signature")
		return
	}

	events, err := line.ParseWebhook(body)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to parse webhook body")
		c.String(http.StatusBadRequest, "invalid body")
		return
	}

	for _, ev := range events {
		h.dispatch(c.Request.Context(), ev)
	}
	c.String(http.StatusOK, "OK")
}

// dispatch routes one event. A failing event is logged and must not abort
// the rest of the batch; the platform gets its 200 either way.
func (h *WebhookHandler) dispatch(ctx context.Context, ev line.Event) {
	logCtx := h.logger.WithFields(logrus.Fields{
		"event_type":   ev.Type,
		"line_user_id": ev.Source.UserID,
	})

	var err error
	switch ev.Type {
	case line.EventTypeFollow:
		err = h.events.HandleFollow(ctx, ev.Source.UserID, ev.ReplyToken)
	case line.EventTypeUnfollow:
		err = h.events.HandleUnfollow(ctx, ev.Source.UserID)
	case line.EventTypePostback:
		if ev.Postback == nil {
			logCtx.Warn("Postback event without payload")
			return
		}
		err = h.events.HandlePostback(ctx, ev.Source.UserID, ev.ReplyToken, ev.Postback.Data)
	case line.EventTypeMessage:
		if ev.Message == nil || ev.Message.Type != line.MessageTypeText {
			logCtx.Debug("Ignoring non-text message event")
			return
		}
		err = h.events.HandleTextMessage(ctx, ev.Source.UserID, ev.ReplyToken, ev.Message.Text)
	default:
		logCtx.Debug("Ignoring unsupported event type")
		return
	}

	if err != nil {
		logCtx.WithError(err).Error("Event handling failed")
	}
}

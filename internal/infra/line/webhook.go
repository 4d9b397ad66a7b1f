package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// SignatureHeader is the webhook header carrying the request signature.
const SignatureHeader = "X-Line-Signature"

// Event types delivered by the LINE webhook.
const (
	EventTypeFollow   = "follow"
	EventTypeUnfollow = "unfollow"
	EventTypeMessage  = "message"
	EventTypePostback = "postback"
)

// MessageTypeText is the only message type this bot reacts to.
const MessageTypeText = "text"

// Event is one inbound webhook event.
type Event struct {
	Type       string        `json:"type"`
	ReplyToken string        `json:"replyToken,omitempty"`
	Timestamp  int64         `json:"timestamp"`
	Source     EventSource   `json:"source"`
	Message    *EventMessage `json:"message,omitempty"`
	Postback   *Postback     `json:"postback,omitempty"`
}

// EventSource identifies who triggered the event.
type EventSource struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// EventMessage is the message payload of a message event.
type EventMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Postback is the payload of a postback event.
type Postback struct {
	Data string `json:"data"`
}

// ParseWebhook decodes a webhook event batch. Callers must validate the
// request signature before parsing.
func ParseWebhook(body []byte) ([]Event, error) {
	var payload struct {
		Destination string  `json:"destination"`
		Events      []Event `json:"events"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("error decoding webhook body: %w", err)
	}
	return payload.Events, nil
}

// ValidateSignature reports whether signature is the base64-encoded
// HMAC-SHA256 of body keyed with the channel secret, as LINE sends it in the
// X-Line-Signature header. Comparison is constant-time.
func ValidateSignature(channelSecret string, body []byte, signature string) bool {
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}

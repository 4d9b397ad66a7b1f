// Package line implements the subset of the LINE Messaging API this bot
// needs: replies, audience tag management, narrowcast sends, and webhook
// signature validation / event parsing. No official Go SDK is used; requests
// are plain JSON over HTTP with channel-token bearer auth.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"university_line_bot/internal/domain/messaging"
)

// DefaultBaseURL is the production LINE Messaging API endpoint.
const DefaultBaseURL = "https://api.line.me"

const defaultHTTPTimeout = 10 * time.Second

// Client is a LINE Messaging API client. All calls are single-attempt and
// blocking; retry policy is deliberately left to callers (there is none).
type Client struct {
	// BaseURL may be overridden for tests.
	BaseURL string
	// HTTPClient may be replaced; the default applies a request timeout.
	HTTPClient *http.Client

	accessToken string
}

// NewClient returns a client authenticated with the given channel access token.
func NewClient(accessToken string) *Client {
	return &Client{
		BaseURL:     DefaultBaseURL,
		HTTPClient:  &http.Client{Timeout: defaultHTTPTimeout},
		accessToken: accessToken,
	}
}

// Reply answers the conversation turn identified by replyToken. LINE accepts
// at most five messages per reply; this bot never sends more than two.
func (c *Client) Reply(ctx context.Context, replyToken string, messages ...any) error {
	if len(messages) == 0 {
		return fmt.Errorf("reply requires at least one message")
	}
	body := struct {
		ReplyToken string `json:"replyToken"`
		Messages   []any  `json:"messages"`
	}{
		ReplyToken: replyToken,
		Messages:   messages,
	}
	return c.do(ctx, http.MethodPost, "/v2/bot/message/reply", body, nil, nil)
}

// ReplyText implements messaging.Client.
func (c *Client) ReplyText(ctx context.Context, replyToken string, texts ...string) error {
	messages := make([]any, 0, len(texts))
	for _, t := range texts {
		messages = append(messages, NewTextMessage(t))
	}
	return c.Reply(ctx, replyToken, messages...)
}

// ReplyMenu implements messaging.Client. Menus within the buttons-template
// action limit are sent as a template message; larger menus (such as the
// faculty selection) go out as a flex bubble with one footer button per entry.
func (c *Client) ReplyMenu(ctx context.Context, replyToken string, intro string, menu messaging.Menu) error {
	messages := make([]any, 0, 2)
	if intro != "" {
		messages = append(messages, NewTextMessage(intro))
	}
	if len(menu.Buttons) <= maxTemplateActions {
		messages = append(messages, newButtonsMessage(menu))
	} else {
		messages = append(messages, newFlexMenuMessage(menu))
	}
	return c.Reply(ctx, replyToken, messages...)
}

// do issues one API request. A non-2xx response is returned as an error
// carrying the status and a truncated response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any, headers map[string]string) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request for %s: %w", path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("error building request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("LINE API %s returned status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("error decoding response from %s: %w", path, err)
		}
	}
	return nil
}

package line

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// Tag is an audience tag registered on the platform.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ListTags fetches the full remote tag list.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var out struct {
		Tags []Tag `json:"tags"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/bot/audienceGroup/tag/list", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Tags, nil
}

// CreateTag registers a new audience tag and returns its identifier.
func (c *Client) CreateTag(ctx context.Context, name string) (int64, error) {
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	var out struct {
		TagID int64 `json:"tagId"`
	}
	if err := c.do(ctx, http.MethodPost, "/v2/bot/audienceGroup/tag/create", body, &out, nil); err != nil {
		return 0, err
	}
	return out.TagID, nil
}

// ResolveOrCreateTag implements messaging.TagDirectory. It re-fetches the
// full tag list on every call and scans for an exact name match, creating
// the tag on a miss. Two concurrent first uses of the same name can both
// miss and create; wrap the client in a CachedTagDirectory to avoid that.
func (c *Client) ResolveOrCreateTag(ctx context.Context, name string) (int64, error) {
	tags, err := c.ListTags(ctx)
	if err != nil {
		return 0, fmt.Errorf("error listing tags: %w", err)
	}
	for _, t := range tags {
		if t.Name == name {
			return t.ID, nil
		}
	}
	return c.CreateTag(ctx, name)
}

// AttachTag implements messaging.TagDirectory.
func (c *Client) AttachTag(ctx context.Context, lineUserID string, tagID int64) error {
	path := fmt.Sprintf("/v2/bot/user/%s/tag/%d", url.PathEscape(lineUserID), tagID)
	return c.do(ctx, http.MethodPost, path, nil, nil, nil)
}

// NarrowcastText implements messaging.Broadcaster: a one-shot text send to
// every user carrying the given audience tag. Each call gets a fresh
// X-Line-Retry-Key, so the platform treats it as a distinct send.
func (c *Client) NarrowcastText(ctx context.Context, tagID int64, text string) error {
	body := struct {
		Messages  []any               `json:"messages"`
		Recipient narrowcastRecipient `json:"recipient"`
	}{
		Messages: []any{NewTextMessage(text)},
		Recipient: narrowcastRecipient{
			Type: "operator_id",
			And: []audienceGroupTag{
				{Type: "audience_group_tag", ID: tagID},
			},
		},
	}
	headers := map[string]string{"X-Line-Retry-Key": uuid.NewString()}
	return c.do(ctx, http.MethodPost, "/v2/bot/message/narrowcast", body, nil, headers)
}

type narrowcastRecipient struct {
	Type string             `json:"type"`
	And  []audienceGroupTag `json:"and"`
}

type audienceGroupTag struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}

package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestValidateSignature(t *testing.T) {
	secret := "channel-secret"
	body := []byte(`{"events":[]}`)

	t.Run("valid signature", func(t *testing.T) {
		assert.True(t, ValidateSignature(secret, body, signBody(secret, body)))
	})

	t.Run("tampered body", func(t *testing.T) {
		sig := signBody(secret, body)
		assert.False(t, ValidateSignature(secret, []byte(`{"events":[{}]}`), sig))
	})

	t.Run("wrong secret", func(t *testing.T) {
		assert.False(t, ValidateSignature("other-secret", body, signBody(secret, body)))
	})

	t.Run("missing signature", func(t *testing.T) {
		assert.False(t, ValidateSignature(secret, body, ""))
	})

	t.Run("signature is not base64", func(t *testing.T) {
		assert.False(t, ValidateSignature(secret, body, "%%%not-base64%%%"))
	})
}

func TestParseWebhook(t *testing.T) {
	body := []byte(`{
		"destination": "Uxxx",
		"events": [
			{
				"type": "follow",
				"replyToken": "rt-1",
				"timestamp": 1700000000000,
				"source": {"type": "user", "userId": "U1"}
			},
			{
				"type": "message",
				"replyToken": "rt-2",
				"source": {"type": "user", "userId": "U2"},
				"message": {"id": "m1", "type": "text", "text": "1234567890123"}
			},
			{
				"type": "postback",
				"replyToken": "rt-3",
				"source": {"type": "user", "userId": "U3"},
				"postback": {"data": "action=register"}
			},
			{
				"type": "unfollow",
				"source": {"type": "user", "userId": "U4"}
			}
		]
	}`)

	events, err := ParseWebhook(body)
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, EventTypeFollow, events[0].Type)
	assert.Equal(t, "rt-1", events[0].ReplyToken)
	assert.Equal(t, "U1", events[0].Source.UserID)

	require.NotNil(t, events[1].Message)
	assert.Equal(t, MessageTypeText, events[1].Message.Type)
	assert.Equal(t, "1234567890123", events[1].Message.Text)

	require.NotNil(t, events[2].Postback)
	assert.Equal(t, "action=register", events[2].Postback.Data)

	assert.Equal(t, EventTypeUnfollow, events[3].Type)
	assert.Empty(t, events[3].ReplyToken)
}

func TestParseWebhook_InvalidJSON(t *testing.T) {
	_, err := ParseWebhook([]byte(`not json`))
	assert.Error(t, err)
}

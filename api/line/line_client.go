package line

import (
	"context"
	"fmt"

	"kiatsu-notification/api"
)

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type pushMessageRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

// LineClient embeds the common HTTPClient and calls the LINE Messaging API
// push endpoint.
type LineClient struct {
	*api.HTTPClient
	channelAccessToken string
}

// NewLineClient creates a new instance of LineClient.
func NewLineClient(httpClient *api.HTTPClient, channelAccessToken string) *LineClient {
	return &LineClient{
		HTTPClient:         httpClient,
		channelAccessToken: channelAccessToken,
	}
}

// Push sends one text message to a user. A non-2xx response surfaces as an
// error: a failed notification is the one failure callers must observe.
func (c *LineClient) Push(ctx context.Context, userID, text string) error {
	payload := pushMessageRequest{
		To:       userID,
		Messages: []textMessage{{Type: "text", Text: text}},
	}
	headers := map[string]string{
		"Authorization": "Bearer " + c.channelAccessToken,
	}

	if err := c.Request("POST", "/message/push", nil, headers, payload, nil); err != nil {
		return fmt.Errorf("line push to %s failed: %w", userID, err)
	}
	return nil
}

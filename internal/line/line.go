// Package line holds the consumed slice of the LINE Messaging API surface:
// the webhook payload fields the relay reads, and the reply endpoint client.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"chatrelay/internal/config"
)

// Webhook is the inbound payload. Only the fields the relay consults are
// declared; everything else in the platform's schema is ignored.
type Webhook struct {
	Events []Event `json:"events"`
}

type Event struct {
	Type       string  `json:"type"`
	ReplyToken string  `json:"replyToken"`
	Message    Message `json:"message"`
	Source     Source  `json:"source"`
}

type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Source struct {
	UserID string `json:"userId"`
}

// replyRequest is the body posted to the reply endpoint.
type replyRequest struct {
	ReplyToken string         `json:"replyToken"`
	Messages   []replyMessage `json:"messages"`
}

type replyMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Client posts replies back to the platform, matched to the inbound event
// by its one-time reply token.
type Client struct {
	replyURL     string
	channelToken string
	httpClient   *http.Client
}

func NewClient(cfg config.LineConfig) *Client {
	return &Client{
		replyURL:     cfg.ReplyURL,
		channelToken: cfg.ChannelToken,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Reply sends one text message for the given reply token. Failure is
// surfaced to the caller; no retry is attempted, the token is single-use
// and short-lived anyway.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	body, err := json.Marshal(replyRequest{
		ReplyToken: replyToken,
		Messages:   []replyMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return fmt.Errorf("marshal reply: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.replyURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("reply API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return nil
}

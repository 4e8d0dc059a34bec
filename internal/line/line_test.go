package line

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chatrelay/internal/config"
)

func newTestClient(url string) *Client {
	return NewClient(config.LineConfig{
		ReplyURL:     url,
		ChannelToken: "channel-token",
		Timeout:      2 * time.Second,
	})
}

func TestReply_SendsTokenAndText(t *testing.T) {
	var gotAuth string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if err := c.Reply(context.Background(), "reply-token-1", "hello back"); err != nil {
		t.Fatalf("Reply failed: %v", err)
	}

	if gotAuth != "Bearer channel-token" {
		t.Fatalf("unexpected auth header: %s", gotAuth)
	}

	var req struct {
		ReplyToken string `json:"replyToken"`
		Messages   []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatalf("unmarshal request body: %v", err)
	}
	if req.ReplyToken != "reply-token-1" {
		t.Fatalf("unexpected reply token: %s", req.ReplyToken)
	}
	if len(req.Messages) != 1 || req.Messages[0].Type != "text" || req.Messages[0].Text != "hello back" {
		t.Fatalf("unexpected messages: %#v", req.Messages)
	}
}

func TestReply_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"Invalid reply token"}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.Reply(context.Background(), "expired-token", "hello")
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
	if !strings.Contains(err.Error(), "status 400") {
		t.Fatalf("expected status in error, got: %v", err)
	}
}

func TestWebhook_DecodesConsumedFields(t *testing.T) {
	payload := `{
		"destination": "xxx",
		"events": [{
			"type": "message",
			"replyToken": "rt-1",
			"source": {"type": "user", "userId": "U1"},
			"message": {"id": "m1", "type": "text", "text": "Hello"}
		}]
	}`

	var wh Webhook
	if err := json.Unmarshal([]byte(payload), &wh); err != nil {
		t.Fatalf("unmarshal webhook: %v", err)
	}
	if len(wh.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(wh.Events))
	}
	evt := wh.Events[0]
	if evt.ReplyToken != "rt-1" || evt.Source.UserID != "U1" || evt.Message.Text != "Hello" {
		t.Fatalf("unexpected event: %#v", evt)
	}
}

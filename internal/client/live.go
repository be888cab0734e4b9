package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"linkcook-go/internal/api"
)

const (
	EventSnapshot = "snapshot"
	EventUpdated  = "updated"
	EventDeleted  = "deleted"
)

// Event is one message of the live feed. GroupBuy is nil for deletions.
type Event struct {
	Type     string
	GroupBuy *api.GroupBuy
}

type liveMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Watch subscribes to the live feed of a group buy and calls handle for
// every event until handle returns false, the group buy is deleted or ctx
// is done. The first event is always the current snapshot. Snapshots older
// than one already delivered are skipped; equal versions still pass because
// bookmark changes do not bump the version.
func (g *GroupBuys) Watch(ctx context.Context, id string, handle func(Event) bool) error {
	target := liveURL(g.c.rest.baseURL) + groupBuyPath(id) + "/live"

	header := http.Header{}
	token, err := g.c.session.token(ctx)
	if err != nil {
		return &Error{Kind: KindUnauthenticated, Message: "load token", Err: err}
	}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second, Proxy: http.ProxyFromEnvironment}
	conn, resp, err := dialer.DialContext(ctx, target, header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			var envelope api.Envelope
			if json.NewDecoder(resp.Body).Decode(&envelope) == nil {
				return responseError(resp.StatusCode, envelope)
			}
			return responseError(resp.StatusCode, api.Envelope{})
		}
		return &Error{Kind: KindTransport, Message: "connect live feed", Err: err}
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = conn.Close()
		case <-done:
		}
	}()

	var latest int64
	for {
		var message liveMessage
		if err := conn.ReadJSON(&message); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return &Error{Kind: KindTransport, Message: "live feed", Err: err}
		}

		event := Event{Type: message.Type}
		if message.Type != EventDeleted && len(message.Data) > 0 {
			var snapshot api.GroupBuy
			if err := json.Unmarshal(message.Data, &snapshot); err != nil {
				return &Error{Kind: KindTransport, Message: "decode live message", Err: err}
			}
			if snapshot.Version < latest {
				continue
			}
			latest = snapshot.Version
			event.GroupBuy = &snapshot
		}
		if !handle(event) || message.Type == EventDeleted {
			return nil
		}
	}
}

func liveURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}

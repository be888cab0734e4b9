// Package live pushes entity snapshots to websocket subscribers.
package live

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"linkcook-go/pkg/logger"
)

const (
	sendBuffer   = 8
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	readLimit    = 512
)

const (
	TypeSnapshot = "snapshot"
	TypeUpdated  = "updated"
	TypeDeleted  = "deleted"
)

type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Observer is notified when subscribers come and go.
type Observer interface {
	LiveSubscribed()
	LiveUnsubscribed()
}

type subscriber struct {
	send chan Message
}

// Hub fans out messages per topic. A subscriber that cannot keep up is
// disconnected instead of blocking publishers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
	upgrader    websocket.Upgrader
	log         logger.Logger
	observer    Observer
}

func NewHub(allowedOrigins []string, log logger.Logger, observer Observer) *Hub {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = struct{}{}
		}
	}

	return &Hub{
		subscribers: make(map[string]map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowed) == 0 {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		log:      log,
		observer: observer,
	}
}

// Publish delivers a message to every subscriber of topic without blocking.
func (h *Hub) Publish(topic, messageType string, data any) {
	message := Message{Type: messageType, Data: data}

	var slow []*subscriber
	h.mu.RLock()
	for sub := range h.subscribers[topic] {
		select {
		case sub.send <- message:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		h.log.Warn("live: dropping slow subscriber", "topic", topic)
		h.remove(topic, sub)
	}
}

func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}

// Serve subscribes to topic, then calls load for the initial snapshot and
// upgrades the request. Subscribing first means no message published while
// the snapshot loads is missed; such messages may be older than the snapshot
// and follow it on the wire. A load error is returned before the upgrade so
// the caller can answer with a regular response.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, topic string, load func() (any, error)) error {
	sub := &subscriber{send: make(chan Message, sendBuffer)}
	h.add(topic, sub)
	defer h.remove(topic, sub)

	initial, err := load()
	if err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.BusinessError("live: upgrade failed", err, "topic", topic)
		return nil
	}

	go h.writeLoop(conn, sub, Message{Type: TypeSnapshot, Data: initial})

	conn.SetReadLimit(readLimit)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	_ = conn.Close()
	return nil
}

func (h *Hub) writeLoop(conn *websocket.Conn, sub *subscriber, first Message) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(first); err != nil {
		return
	}

	for {
		select {
		case message, ok := <-sub.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(message); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) add(topic string, sub *subscriber) {
	h.mu.Lock()
	subs, ok := h.subscribers[topic]
	if !ok {
		subs = make(map[*subscriber]struct{})
		h.subscribers[topic] = subs
	}
	subs[sub] = struct{}{}
	h.mu.Unlock()

	if h.observer != nil {
		h.observer.LiveSubscribed()
	}
}

func (h *Hub) remove(topic string, sub *subscriber) {
	h.mu.Lock()
	subs := h.subscribers[topic]
	_, ok := subs[sub]
	if ok {
		delete(subs, sub)
		close(sub.send)
		if len(subs) == 0 {
			delete(h.subscribers, topic)
		}
	}
	h.mu.Unlock()

	if ok && h.observer != nil {
		h.observer.LiveUnsubscribed()
	}
}

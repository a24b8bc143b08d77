package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"users-api/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 10 * time.Second

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type subscriber struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// LikeHub keeps the WebSocket connections watching each user's likes and
// pushes every new like to them
type LikeHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*websocket.Conn]*subscriber
}

// NewLikeHub creates a new like hub
func NewLikeHub() *LikeHub {
	return &LikeHub{
		subscribers: make(map[string]map[*websocket.Conn]*subscriber),
	}
}

// Register subscribes conn to the likes of userID and confirms the
// subscription to the client
func (h *LikeHub) Register(userID string, conn *websocket.Conn) error {
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	subs, ok := h.subscribers[userID]
	if !ok {
		subs = make(map[*websocket.Conn]*subscriber)
		h.subscribers[userID] = subs
	}
	subs[conn] = sub
	h.mu.Unlock()

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")

	data, err := json.Marshal(WSMessage{
		Type: "subscribed",
		Data: map[string]string{"user_id": userID},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := sub.write(data); err != nil {
		h.Unregister(userID, conn)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Unregister removes conn from the subscribers of userID and closes it
func (h *LikeHub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscribers[userID]
	if !ok {
		return
	}
	if _, ok := subs[conn]; !ok {
		return
	}

	conn.Close()
	delete(subs, conn)
	if len(subs) == 0 {
		delete(h.subscribers, userID)
	}
	log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
}

// SendToUser sends a message to every connection watching userID. A
// connection that cannot be written to is dropped.
func (h *LikeHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subscribers[userID]))
	for _, sub := range h.subscribers[userID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	if len(subs) == 0 {
		return nil
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	var failed int
	for _, sub := range subs {
		if err := sub.write(data); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("Failed to send message, dropping connection")
			h.Unregister(userID, sub.conn)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to send message to %d of %d connections", failed, len(subs))
	}
	return nil
}

// Subscribers returns the number of connections watching userID
func (h *LikeHub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

// NotifyLike pushes a like_created message to everyone watching the liked user
func (h *LikeHub) NotifyLike(_ context.Context, like *models.Like) error {
	return h.SendToUser(like.LikedUserID, WSMessage{
		Type: "like_created",
		Data: like,
	})
}

// Close closes every registered connection
func (h *LikeHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, subs := range h.subscribers {
		for conn := range subs {
			conn.Close()
		}
		delete(h.subscribers, userID)
	}
	log.Info().Msg("WebSocket connections closed")
}

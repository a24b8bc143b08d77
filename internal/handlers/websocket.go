package handlers

import (
	"net/http"

	"users-api/internal/errs"
	"users-api/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LikeStreamHandler streams new likes of a user over WebSocket
type LikeStreamHandler struct {
	hub         *services.LikeHub
	userService *services.UserService
}

// NewLikeStreamHandler creates a new like stream handler
func NewLikeStreamHandler(hub *services.LikeHub, userService *services.UserService) *LikeStreamHandler {
	return &LikeStreamHandler{
		hub:         hub,
		userService: userService,
	}
}

// Stream handles GET /users/{userId}/likes/stream
func (h *LikeStreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromPath(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if user == nil {
		handleError(w, r, errs.NotFound("user does not exist"))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	if err := h.hub.Register(userID, conn); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to register WebSocket connection")
		return
	}
	defer h.hub.Unregister(userID, conn)

	log.Info().
		Str("user_id", userID).
		Int("subscribers", h.hub.Subscribers(userID)).
		Msg("Like stream opened")

	// clients only listen; reading keeps control frames flowing and notices the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("WebSocket error")
			}
			return
		}
	}
}

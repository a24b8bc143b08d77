package handlers

import (
	"net/http"

	"users-api/internal/errs"
	"users-api/internal/models"
	"users-api/internal/services"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	IsTest    bool   `json:"is_test"`
}

// LikeUserRequest represents the request body for liking a user
type LikeUserRequest struct {
	LikedByUserID string `json:"liked_by_user_id" validate:"required"`
}

// GetUser handles GET /users/{userId}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
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

	respondJSON(w, user, http.StatusOK)
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user := &models.User{
		ID:        uuid.New().String(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsTest:    req.IsTest,
	}

	if err := h.userService.CreateUser(r.Context(), user); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Bool("is_test", user.IsTest).
		Msg("User created")

	respondJSON(w, user, http.StatusCreated)
}

// CreateLike handles POST /users/{userId}/likes
func (h *UserHandler) CreateLike(w http.ResponseWriter, r *http.Request) {
	var req LikeUserRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	likedUserID, err := userIDFromPath(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	like, err := h.userService.LikeUser(r.Context(), likedUserID, req.LikedByUserID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info().
		Str("liked_user_id", like.LikedUserID).
		Str("liked_by_user_id", like.LikedByUserID).
		Msg("Like created")

	respondJSON(w, like, http.StatusCreated)
}

// GetLikes handles GET /users/{userId}/likes?page=&per_page=
func (h *UserHandler) GetLikes(w http.ResponseWriter, r *http.Request) {
	likedUserID, err := userIDFromPath(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	page, err := queryInt(r, pageQueryParam)
	if err != nil {
		handleError(w, r, err)
		return
	}

	perPage, err := queryInt(r, perPageQueryParam)
	if err != nil {
		handleError(w, r, err)
		return
	}

	users, err := h.userService.GetUserLikes(r.Context(), likedUserID, page, perPage)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, users, http.StatusOK)
}

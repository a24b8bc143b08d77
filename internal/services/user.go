package services

import (
	"context"
	"time"

	"users-api/internal/metrics"
	"users-api/internal/models"

	"github.com/rs/zerolog/log"
)

const (
	defaultPage    = 0
	defaultPerPage = 20
)

// UserStore is the storage the service needs for users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// LikeStore is the storage the service needs for likes
type LikeStore interface {
	Create(ctx context.Context, like *models.Like) error
	ListLikedBy(ctx context.Context, likedUserID string, page, perPage int) ([]*models.User, error)
}

// UserService handles user and like business logic
type UserService struct {
	userRepo  UserStore
	likeRepo  LikeStore
	notifiers []LikeNotifier
	now       func() time.Time
}

// NewUserService creates a new user service. Every notifier is told about
// each like after it has been stored.
func NewUserService(userRepo UserStore, likeRepo LikeStore, notifiers ...LikeNotifier) *UserService {
	return &UserService{
		userRepo:  userRepo,
		likeRepo:  likeRepo,
		notifiers: notifiers,
		now:       time.Now,
	}
}

// GetUser returns the user with the given ID, or nil if there is none
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	log.Debug().Str("user_id", id).Msg("Getting user")

	return s.userRepo.GetByID(ctx, id)
}

// CreateUser stores a user. The caller assigns the ID.
func (s *UserService) CreateUser(ctx context.Context, user *models.User) error {
	log.Debug().Str("user_id", user.ID).Msg("Creating user")

	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	metrics.UsersCreated.Inc()
	return nil
}

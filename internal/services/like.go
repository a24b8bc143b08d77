package services

import (
	"context"
	"time"

	"users-api/internal/errs"
	"users-api/internal/metrics"
	"users-api/internal/models"

	"github.com/rs/zerolog/log"
)

// LikeUser records that likedByUserID likes likedUserID.
//
// The checks run in a fixed order, which decides the error reported when
// several of them fail: self-like first, then the liked user, then the
// liking user.
func (s *UserService) LikeUser(ctx context.Context, likedUserID, likedByUserID string) (*models.Like, error) {
	log.Debug().
		Str("liked_user_id", likedUserID).
		Str("liked_by_user_id", likedByUserID).
		Msg("Creating like between users")

	if likedUserID == likedByUserID {
		return nil, errs.InvalidRequest("users cannot like themselves")
	}

	if err := s.requireUser(ctx, likedUserID, "liked user was not found"); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, likedByUserID, "liked by user was not found"); err != nil {
		return nil, err
	}

	like := &models.Like{
		LikedUserID:   likedUserID,
		LikedByUserID: likedByUserID,
		LikedAt:       s.now().UTC().Truncate(time.Microsecond),
	}

	if err := s.likeRepo.Create(ctx, like); err != nil {
		return nil, err
	}

	metrics.LikesCreated.Inc()
	s.notify(ctx, like)

	return like, nil
}

// GetUserLikes returns the users who liked likedUserID, oldest like first.
// A nil page defaults to 0 and a nil perPage to 20.
func (s *UserService) GetUserLikes(ctx context.Context, likedUserID string, page, perPage *int) ([]*models.User, error) {
	log.Debug().Str("liked_user_id", likedUserID).Msg("Getting user likes")

	if page != nil && *page < 0 {
		return nil, errs.InvalidRequest("page must not be negative")
	}
	if perPage != nil && *perPage <= 0 {
		return nil, errs.InvalidRequest("per_page must be positive")
	}

	if err := s.requireUser(ctx, likedUserID, "liked user was not found"); err != nil {
		return nil, err
	}

	p, pp := defaultPage, defaultPerPage
	if page != nil {
		p = *page
	}
	if perPage != nil {
		pp = *perPage
	}

	return s.likeRepo.ListLikedBy(ctx, likedUserID, p, pp)
}

// requireUser fails with a not-found error carrying message when id is unknown
func (s *UserService) requireUser(ctx context.Context, id, message string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return errs.NotFound(message)
	}
	return nil
}

func (s *UserService) notify(ctx context.Context, like *models.Like) {
	for _, n := range s.notifiers {
		if err := n.NotifyLike(ctx, like); err != nil {
			// the like is already stored
			log.Error().
				Err(err).
				Str("liked_user_id", like.LikedUserID).
				Str("liked_by_user_id", like.LikedByUserID).
				Msg("Failed to notify about like")
		}
	}
}

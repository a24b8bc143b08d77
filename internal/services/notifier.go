package services

import (
	"context"

	"users-api/internal/models"
)

// LikeNotifier is told about every like once it is stored
type LikeNotifier interface {
	NotifyLike(ctx context.Context, like *models.Like) error
}

package repository

import (
	"context"

	"users-api/internal/models"

	"github.com/jackc/pgx/v5"
)

// LikeRepository handles database operations for likes
type LikeRepository struct {
	db DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts a like. Repeated likes between the same pair of users are
// stored as separate rows.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	query := `
		INSERT INTO likes (liked_user_id, liked_by_user_id, liked_at)
		VALUES ($1, $2, $3)
	`
	return inTx(ctx, r.db, "insert like", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query, like.LikedUserID, like.LikedByUserID, like.LikedAt)
		return err
	})
}

// ListLikedBy returns the users who liked likedUserID, oldest like first,
// windowed to one page. A page past the end yields an empty slice.
func (r *LikeRepository) ListLikedBy(ctx context.Context, likedUserID string, page, perPage int) ([]*models.User, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.is_test
		FROM likes l
		JOIN users u ON u.id = l.liked_by_user_id
		WHERE l.liked_user_id = $1
		ORDER BY l.liked_at ASC, l.id ASC
		LIMIT $2 OFFSET $3
	`
	offset := int64(page) * int64(perPage)

	users := make([]*models.User, 0)
	err := inTx(ctx, r.db, "select liked by users", func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, likedUserID, perPage, offset)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u models.User
			if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.IsTest); err != nil {
				return err
			}
			users = append(users, &u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

package repository

import (
	"context"
	"errors"

	"users-api/internal/models"

	"github.com/jackc/pgx/v5"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, is_test)
		VALUES ($1, $2, $3, $4)
	`
	return inTx(ctx, r.db, "insert user", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query, user.ID, user.FirstName, user.LastName, user.IsTest)
		return err
	})
}

// GetByID retrieves a user by ID. It returns nil without an error when no
// user has that ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, first_name, last_name, is_test
		FROM users
		WHERE id = $1
	`
	var user *models.User
	err := inTx(ctx, r.db, "get user by id", func(tx pgx.Tx) error {
		var u models.User
		err := tx.QueryRow(ctx, query, id).Scan(&u.ID, &u.FirstName, &u.LastName, &u.IsTest)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		user = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Truncate removes every user and, through the cascade, every like. It exists
// for test suites and is not reachable over HTTP.
func (r *UserRepository) Truncate(ctx context.Context) error {
	return inTx(ctx, r.db, "truncate users", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `TRUNCATE users CASCADE`)
		return err
	})
}

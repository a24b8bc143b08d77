package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"users-api/internal/database"
	"users-api/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestPool connects to the database named by USERS_API_TEST_DATABASE_URL,
// migrates it and empties it. Tests using it are skipped when the variable is
// not set.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("USERS_API_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("USERS_API_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.Migrate(pool))
	require.NoError(t, NewUserRepository(pool).Truncate(ctx))
	return pool
}

func TestIntegrationUserRoundTrip(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)

	user := &models.User{ID: uuid.NewString(), FirstName: "Michael", LastName: "Black", IsTest: true}
	require.NoError(t, users.Create(ctx, user))

	got, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	missing, err := users.GetByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIntegrationLikesPartitionIntoPages(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	likes := NewLikeRepository(pool)

	liked := &models.User{ID: uuid.NewString(), FirstName: "Liked", LastName: "User"}
	require.NoError(t, users.Create(ctx, liked))

	const total = 23
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var want []string
	for i := 0; i < total; i++ {
		liker := &models.User{ID: uuid.NewString(), FirstName: fmt.Sprintf("Liker%d", i), LastName: "User"}
		require.NoError(t, users.Create(ctx, liker))
		// every third like shares its timestamp with the previous one
		likedAt := base.Add(time.Duration(i-i/3) * time.Millisecond)
		require.NoError(t, likes.Create(ctx, &models.Like{LikedUserID: liked.ID, LikedByUserID: liker.ID, LikedAt: likedAt}))
		want = append(want, liker.ID)
	}

	for _, perPage := range []int{1, 5, 7, 20, 50} {
		var got []string
		for page := 0; ; page++ {
			batch, err := likes.ListLikedBy(ctx, liked.ID, page, perPage)
			require.NoError(t, err)
			if len(batch) == 0 {
				break
			}
			for _, u := range batch {
				got = append(got, u.ID)
			}
		}
		assert.Equal(t, want, got, "per_page=%d", perPage)
	}
}

func TestIntegrationDuplicateLikesAreKept(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	likes := NewLikeRepository(pool)

	a := &models.User{ID: uuid.NewString(), FirstName: "A", LastName: "A"}
	b := &models.User{ID: uuid.NewString(), FirstName: "B", LastName: "B"}
	require.NoError(t, users.Create(ctx, a))
	require.NoError(t, users.Create(ctx, b))

	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, likes.Create(ctx, &models.Like{LikedUserID: a.ID, LikedByUserID: b.ID, LikedAt: now}))
	require.NoError(t, likes.Create(ctx, &models.Like{LikedUserID: a.ID, LikedByUserID: b.ID, LikedAt: now.Add(time.Second)}))

	got, err := likes.ListLikedBy(ctx, a.ID, 0, 20)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

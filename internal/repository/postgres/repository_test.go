package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	mocket "github.com/Selvatico/go-mocket"
	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupMockDB registers the fake driver and opens an sqlx handle bound with postgres placeholders.
func setupMockDB(t *testing.T) *sqlx.DB {
	t.Helper()
	mocket.Catcher.Register()
	mocket.Catcher.Logging = false
	mocket.Catcher.Reset()

	conn, err := sql.Open(mocket.DRIVER_NAME, "any_string")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return sqlx.NewDb(conn, "postgres")
}

func TestProfileRepository_GetByUserID(t *testing.T) {
	db := setupMockDB(t)
	repo := NewProfileRepository(db)
	userID := uuid.New()

	mocket.Catcher.NewMock().WithQuery("FROM profiles WHERE user_id").WithReply([]map[string]interface{}{{
		"id":              uuid.New().String(),
		"user_id":         userID.String(),
		"full_name":       "Deniz",
		"profile_visible": true,
		"status":          "approved",
	}})

	profile, err := repo.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, profile.UserID)
	assert.Equal(t, "Deniz", profile.DisplayName)
	assert.True(t, profile.IsApproved())
}

func TestProfileRepository_GetByUserIDNotFound(t *testing.T) {
	db := setupMockDB(t)
	repo := NewProfileRepository(db)

	_, err := repo.GetByUserID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfileRepository_QueryFailureIsTransient(t *testing.T) {
	db := setupMockDB(t)
	repo := NewProfileRepository(db)

	mocket.Catcher.NewMock().WithQuery("FROM profiles WHERE user_id").WithQueryException()

	_, err := repo.GetByUserID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransientStore)
	assert.False(t, errors.Is(err, domain.ErrProfileNotFound))
}

func TestLikeRepository_Window(t *testing.T) {
	db := setupMockDB(t)
	repo := NewLikeRepository(db)
	oldest := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mocket.Catcher.NewMock().WithQuery("FROM user_likes").WithReply([]map[string]interface{}{{
		"count":  "3",
		"oldest": oldest,
	}})

	w, err := repo.Window(context.Background(), uuid.New(), oldest.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, w.Count)
	require.NotNil(t, w.Oldest)
	assert.True(t, oldest.Equal(*w.Oldest))
}

func TestLikeRepository_WindowFailure(t *testing.T) {
	db := setupMockDB(t)
	repo := NewLikeRepository(db)

	mocket.Catcher.NewMock().WithQuery("FROM user_likes").WithQueryException()

	_, err := repo.Window(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, domain.ErrTransientStore)
}

func TestFriendshipRepository_CreateReportsInsert(t *testing.T) {
	db := setupMockDB(t)
	repo := NewFriendshipRepository(db)

	mocket.Catcher.NewMock().WithQuery("INSERT INTO friendships").WithRowsNum(2)

	created, err := repo.Create(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, created)
}

func TestFriendshipRepository_CreateFailure(t *testing.T) {
	db := setupMockDB(t)
	repo := NewFriendshipRepository(db)

	mocket.Catcher.NewMock().WithQuery("INSERT INTO friendships").WithExecException()

	_, err := repo.Create(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrTransientStore)
}

func TestUUIDStringsNeverNil(t *testing.T) {
	assert.NotNil(t, uuidStrings(nil))
	id := uuid.New()
	assert.Equal(t, []string{id.String()}, uuidStrings([]uuid.UUID{id}))
}

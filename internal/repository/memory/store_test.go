package memory

import (
	"context"
	"testing"
	"time"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/gdugdh24/kindred-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepository_DuplicateInsertKeepsFirstEvent(t *testing.T) {
	ctx := context.Background()
	store := New().Store()
	a, b := uuid.New(), uuid.New()
	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Likes.Create(ctx, &domain.LikeEvent{UserID: a, LikedUserID: b, CreatedAt: first}))
	again := &domain.LikeEvent{UserID: a, LikedUserID: b, CreatedAt: first.Add(time.Hour)}
	require.NoError(t, store.Likes.Create(ctx, again))

	assert.Equal(t, first, again.CreatedAt, "duplicate like resolves to the stored event")

	w, err := store.Likes.Window(ctx, a, first.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, w.Count)
	require.NotNil(t, w.Oldest)
	assert.Equal(t, first, *w.Oldest)
}

func TestLikeRepository_Window(t *testing.T) {
	ctx := context.Background()
	store := New().Store()
	a := uuid.New()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Likes.Create(ctx, &domain.LikeEvent{
			UserID: a, LikedUserID: uuid.New(), CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	w, err := store.Likes.Window(ctx, a, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, w.Count, "a like exactly at the boundary has aged out")
	assert.Equal(t, base.Add(3*time.Hour), *w.Oldest)

	w, err = store.Likes.Window(ctx, a, base.Add(10*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, w.Count)
	assert.Nil(t, w.Oldest)
}

func TestFriendshipRepository_CreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := New()
	store := db.Store()
	a, b := uuid.New(), uuid.New()

	created, err := store.Friendships.Create(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.Friendships.Create(ctx, b, a)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 2, db.FriendshipRows())

	ids, err := store.Friendships.FriendIDs(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a}, ids)
}

func TestBlockRepository_RelatedIDs(t *testing.T) {
	ctx := context.Background()
	store := New().Store()
	me, blocked, blocker := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, store.Blocks.Create(ctx, &domain.Block{BlockerID: me, BlockedID: blocked}))
	require.NoError(t, store.Blocks.Create(ctx, &domain.Block{BlockerID: blocker, BlockedID: me}))
	require.NoError(t, store.Blocks.Create(ctx, &domain.Block{BlockerID: me, BlockedID: blocked}))

	related, err := store.Blocks.RelatedIDs(ctx, me)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{blocked, blocker}, related)

	mine, err := store.Blocks.BlockedIDs(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{blocked}, mine)

	require.NoError(t, store.Blocks.Delete(ctx, me, blocked))
	either, err := store.Blocks.IsBlockedEitherWay(ctx, blocked, me)
	require.NoError(t, err)
	assert.False(t, either)
}

func TestProfileRepository_ListApprovedOrderAndPaging(t *testing.T) {
	ctx := context.Background()
	store := New().Store()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		id := uuid.New()
		ids = append(ids, id)
		require.NoError(t, store.Profiles.Create(ctx, &domain.Profile{
			UserID: id, DisplayName: "user", Status: domain.ProfileStatusApproved,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, store.Profiles.Create(ctx, &domain.Profile{UserID: uuid.New(), Status: domain.ProfileStatusPending}))

	page, err := store.Profiles.ListApproved(ctx, repository.ProfileFilter{ExcludeUserIDs: []uuid.UUID{ids[1]}, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[0], page[0].UserID)
	assert.Equal(t, ids[2], page[1].UserID)

	page, err = store.Profiles.ListApproved(ctx, repository.ProfileFilter{ExcludeUserIDs: []uuid.UUID{ids[1]}, Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[3], page[0].UserID)
}

func TestCanceledContextIsTransient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Store().Profiles.GetByUserID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrTransientStore)
	assert.ErrorIs(t, err, context.Canceled)
}

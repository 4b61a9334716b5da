package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/gdugdh24/kindred-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/kindred-backend/internal/repository"
	"github.com/gdugdh24/kindred-backend/internal/repository/memory"
	"github.com/gdugdh24/kindred-backend/pkg/geo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	t     *testing.T
	store repository.Store
	pool  *CandidatePool
	seq   int
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	store := memory.New().Store()
	pool := NewCandidatePool(store, opts, logger.Discard())
	pool.now = func() time.Time { return baseTime }
	return &fixture{t: t, store: store, pool: pool}
}

// addProfile creates an approved profile at (lat, lon); creation times increase per call.
func (f *fixture) addProfile(lat, lon float64) uuid.UUID {
	f.t.Helper()
	f.seq++
	p := &domain.Profile{
		UserID:      uuid.New(),
		DisplayName: "user",
		Latitude:    &lat,
		Longitude:   &lon,
		Status:      domain.ProfileStatusApproved,
		CreatedAt:   baseTime.Add(time.Duration(f.seq) * time.Minute),
	}
	require.NoError(f.t, f.store.Profiles.Create(context.Background(), p))
	return p.UserID
}

func candidateIDs(cs []*Candidate) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.Profile.UserID)
	}
	return ids
}

func TestGetCandidates_RadiusFilter(t *testing.T) {
	f := newFixture(t, Options{})
	viewer := f.addProfile(41.0082, 28.9784)
	near := f.addProfile(41.05, 28.99)
	ankara := f.addProfile(39.92, 32.85)

	got, err := f.pool.GetCandidates(context.Background(), viewer, 30, 10)
	require.NoError(t, err)

	ids := candidateIDs(got)
	assert.Contains(t, ids, near)
	assert.NotContains(t, ids, ankara)
	assert.NotContains(t, ids, viewer)

	for _, c := range got {
		assert.LessOrEqual(t, c.DistanceKm, 30.0)
	}
	assert.InDelta(t, 4.8, got[0].DistanceKm, 0.5)
}

func TestGetCandidates_ExclusionClosure(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	viewer := f.addProfile(41.0082, 28.9784)

	liked := f.addProfile(41.01, 28.98)
	passed := f.addProfile(41.01, 28.98)
	friend := f.addProfile(41.01, 28.98)
	blockedByViewer := f.addProfile(41.01, 28.98)
	blockedViewer := f.addProfile(41.01, 28.98)
	likedViewer := f.addProfile(41.01, 28.98)
	fresh := f.addProfile(41.01, 28.98)

	require.NoError(t, f.store.Likes.Create(ctx, &domain.LikeEvent{UserID: viewer, LikedUserID: liked, CreatedAt: baseTime}))
	require.NoError(t, f.store.Passes.Create(ctx, &domain.PassEvent{UserID: viewer, PassedUserID: passed, CreatedAt: baseTime}))
	_, err := f.store.Friendships.Create(ctx, friend, viewer)
	require.NoError(t, err)
	require.NoError(t, f.store.Blocks.Create(ctx, &domain.Block{BlockerID: viewer, BlockedID: blockedByViewer}))
	require.NoError(t, f.store.Blocks.Create(ctx, &domain.Block{BlockerID: blockedViewer, BlockedID: viewer}))
	require.NoError(t, f.store.Likes.Create(ctx, &domain.LikeEvent{UserID: likedViewer, LikedUserID: viewer, CreatedAt: baseTime}))

	got, err := f.pool.GetCandidates(ctx, viewer, 30, 50)
	require.NoError(t, err)

	// A one-way incoming like does not hide the liker.
	assert.ElementsMatch(t, []uuid.UUID{likedViewer, fresh}, candidateIDs(got))
}

func TestGetCandidates_OnlyApproved(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	viewer := f.addProfile(41.0082, 28.9784)
	approved := f.addProfile(41.01, 28.98)

	lat, lon := 41.01, 28.98
	pending := &domain.Profile{UserID: uuid.New(), Latitude: &lat, Longitude: &lon, Status: domain.ProfileStatusPending}
	require.NoError(t, f.store.Profiles.Create(ctx, pending))

	got, err := f.pool.GetCandidates(ctx, viewer, 30, 10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{approved}, candidateIDs(got))
}

func TestGetCandidates_DeterministicOrderAndPaging(t *testing.T) {
	// A small page size forces several store round trips; far profiles interleave the near ones.
	f := newFixture(t, Options{PageSize: 2})
	viewer := f.addProfile(41.0082, 28.9784)

	var want []uuid.UUID
	for i := 0; i < 5; i++ {
		want = append(want, f.addProfile(41.01, 28.98))
		f.addProfile(39.92, 32.85)
	}

	got, err := f.pool.GetCandidates(context.Background(), viewer, 30, 4)
	require.NoError(t, err)
	assert.Equal(t, want[:4], candidateIDs(got))

	again, err := f.pool.GetCandidates(context.Background(), viewer, 30, 4)
	require.NoError(t, err)
	assert.Equal(t, candidateIDs(got), candidateIDs(again))
}

func TestGetCandidates_ViewerWithoutCoordinatesUsesDefaultPoint(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	viewer := &domain.Profile{UserID: uuid.New(), Status: domain.ProfileStatusApproved, CreatedAt: baseTime}
	require.NoError(t, f.store.Profiles.Create(ctx, viewer))
	near := f.addProfile(geo.DefaultPoint.Lat+0.01, geo.DefaultPoint.Lon)
	f.addProfile(39.92, 32.85)

	got, err := f.pool.GetCandidates(ctx, viewer.UserID, 30, 10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{near}, candidateIDs(got))
}

func TestGetCandidates_ComputedFields(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	viewer := f.addProfile(41.0082, 28.9784)

	lat, lon := 41.01, 28.98
	birth := time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)
	city, district, interests := "Istanbul", "Kadikoy", "coffee, chess"
	p := &domain.Profile{
		UserID: uuid.New(), Latitude: &lat, Longitude: &lon, BirthDate: &birth,
		City: &city, District: &district, Interests: &interests,
		Status: domain.ProfileStatusApproved, CreatedAt: baseTime.Add(time.Hour),
	}
	require.NoError(t, f.store.Profiles.Create(ctx, p))

	got, err := f.pool.GetCandidates(ctx, viewer, 30, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Age)
	assert.Equal(t, 25, *got[0].Age)
	assert.Equal(t, "Kadikoy, Istanbul", got[0].LocationDisplay)
	assert.Equal(t, []string{"coffee", "chess"}, got[0].Interests)
}

func TestGetCandidates_Errors(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	_, err := f.pool.GetCandidates(ctx, uuid.New(), 30, 10)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	pending := &domain.Profile{UserID: uuid.New(), Status: domain.ProfileStatusPending}
	require.NoError(t, f.store.Profiles.Create(ctx, pending))
	_, err = f.pool.GetCandidates(ctx, pending.UserID, 30, 10)
	assert.ErrorIs(t, err, domain.ErrProfileNotApproved)
}

func TestGetCandidates_EmptyPoolIsNotAnError(t *testing.T) {
	f := newFixture(t, Options{})
	viewer := f.addProfile(41.0082, 28.9784)

	got, err := f.pool.GetCandidates(context.Background(), viewer, 30, 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetCandidates_CanceledContextIsTransient(t *testing.T) {
	f := newFixture(t, Options{})
	viewer := f.addProfile(41.0082, 28.9784)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.pool.GetCandidates(ctx, viewer, 30, 10)
	assert.ErrorIs(t, err, domain.ErrTransientStore)
}

func TestResolveRadius(t *testing.T) {
	pool := NewCandidatePool(memory.New().Store(), Options{DefaultRadiusKm: 30, MaxRadiusKm: 500}, logger.Discard())

	assert.Equal(t, 30.0, pool.ResolveRadius(0))
	assert.Equal(t, 30.0, pool.ResolveRadius(-5))
	assert.Equal(t, 12.5, pool.ResolveRadius(12.5))
	assert.Equal(t, 500.0, pool.ResolveRadius(10000))
}

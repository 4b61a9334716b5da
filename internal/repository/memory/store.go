package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/gdugdh24/kindred-backend/internal/repository"
	"github.com/google/uuid"
)

type pair struct {
	from uuid.UUID
	to   uuid.UUID
}

// DB is a process-local store implementing every repository contract.
// It backs STORAGE_TYPE=memory and serves as the fake store in tests.
type DB struct {
	mu sync.RWMutex

	profiles      map[uuid.UUID]*domain.Profile
	likes         map[pair]domain.LikeEvent
	passes        map[pair]domain.PassEvent
	friendships   map[pair]time.Time
	blocks        map[pair]time.Time
	requests      map[uuid.UUID]*domain.FriendRequest
	notifications []*domain.Notification

	now func() time.Time
}

func New() *DB {
	return &DB{
		profiles:    make(map[uuid.UUID]*domain.Profile),
		likes:       make(map[pair]domain.LikeEvent),
		passes:      make(map[pair]domain.PassEvent),
		friendships: make(map[pair]time.Time),
		blocks:      make(map[pair]time.Time),
		requests:    make(map[uuid.UUID]*domain.FriendRequest),
		now:         time.Now,
	}
}

// WithClock replaces the clock used to stamp rows that arrive without a timestamp.
func (db *DB) WithClock(now func() time.Time) *DB {
	db.now = now
	return db
}

// Store exposes the DB through the repository interfaces.
func (db *DB) Store() repository.Store {
	return repository.Store{
		Profiles:       &profileRepository{db},
		Likes:          &likeRepository{db},
		Passes:         &passRepository{db},
		Friendships:    &friendshipRepository{db},
		Blocks:         &blockRepository{db},
		FriendRequests: &friendRequestRepository{db},
		Notifications:  &notificationRepository{db},
	}
}

// FriendshipRows returns the number of directed friendship rows; used by tests.
func (db *DB) FriendshipRows() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.friendships)
}

// Notifications returns a snapshot of stored notifications; used by tests.
func (db *DB) Notifications() []domain.Notification {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]domain.Notification, 0, len(db.notifications))
	for _, n := range db.notifications {
		out = append(out, *n)
	}
	return out
}

func stamp(t time.Time, now func() time.Time) time.Time {
	if t.IsZero() {
		return now()
	}
	return t
}

func sortedIDs(set map[uuid.UUID]struct{}) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func checkCtx(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStoreError(op, err)
	}
	return nil
}

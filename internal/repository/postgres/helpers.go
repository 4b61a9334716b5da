package postgres

import (
	"github.com/gdugdh24/kindred-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// uuidStrings renders ids for a uuid[] parameter. It never returns nil so an
// empty exclusion list binds as '{}' rather than NULL.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

// NewStore wires every postgres repository onto one connection pool.
func NewStore(db *sqlx.DB) repository.Store {
	return repository.Store{
		Profiles:       NewProfileRepository(db),
		Likes:          NewLikeRepository(db),
		Passes:         NewPassRepository(db),
		Friendships:    NewFriendshipRepository(db),
		Blocks:         NewBlockRepository(db),
		FriendRequests: NewFriendRequestRepository(db),
		Notifications:  NewNotificationRepository(db),
	}
}

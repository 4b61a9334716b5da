package domain

import (
	"time"

	"github.com/google/uuid"
)

// Friendship is one directed row; a confirmed relationship is stored as A→B and B→A.
type Friendship struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	FriendID  uuid.UUID `json:"friend_id" db:"friend_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

type FriendRequest struct {
	ID         uuid.UUID           `json:"id" db:"id"`
	FromUserID uuid.UUID           `json:"from_user_id" db:"from_user_id"`
	ToUserID   uuid.UUID           `json:"to_user_id" db:"to_user_id"`
	Status     FriendRequestStatus `json:"status" db:"status"`
	CreatedAt  time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at" db:"updated_at"`
}

type Block struct {
	BlockerID uuid.UUID `json:"blocker_id" db:"blocker_id"`
	BlockedID uuid.UUID `json:"blocked_id" db:"blocked_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// OrderedPair returns a and b with the lexicographically smaller id first.
// Writes touching both directions of a pair go in this order so concurrent writers
// lock rows in the same sequence.
func OrderedPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}

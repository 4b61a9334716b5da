package domain

import (
	"time"

	"github.com/google/uuid"
)

// LikeEvent is an immutable record of UserID liking LikedUserID.
type LikeEvent struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	LikedUserID uuid.UUID `json:"liked_user_id" db:"liked_user_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PassEvent is an immutable record of UserID passing on PassedUserID.
type PassEvent struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	PassedUserID uuid.UUID `json:"passed_user_id" db:"passed_user_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SwipeState is the decision state of a (viewer, target) pair.
type SwipeState string

const (
	SwipeStateUnseen  SwipeState = "unseen"
	SwipeStateLiked   SwipeState = "liked"
	SwipeStatePassed  SwipeState = "passed"
	SwipeStateMatched SwipeState = "matched"
)

// LikeWindow summarises a user's likes inside the quota window.
type LikeWindow struct {
	Count  int
	Oldest *time.Time
}

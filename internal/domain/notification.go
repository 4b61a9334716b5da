package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationMatch         NotificationType = "match"
	NotificationFriendRequest NotificationType = "friend_request"
)

type Notification struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	UserID     uuid.UUID        `json:"user_id" db:"user_id"`
	FromUserID *uuid.UUID       `json:"from_user_id" db:"from_user_id"`
	Type       NotificationType `json:"type" db:"type"`
	Title      string           `json:"title" db:"title"`
	Body       string           `json:"body" db:"body"`
	Data       json.RawMessage  `json:"data" db:"data"`
	ReadAt     *time.Time       `json:"read_at" db:"read_at"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
}

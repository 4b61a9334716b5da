package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/google/uuid"
)

// ProfileFilter narrows ListApproved. Results are ordered by created_at, then user_id.
type ProfileFilter struct {
	ExcludeUserIDs []uuid.UUID
	Limit          int
	Offset         int
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	ListApproved(ctx context.Context, filter ProfileFilter) ([]*domain.Profile, error)
}

type LikeRepository interface {
	// Create inserts a like; an existing like for the same pair is left untouched.
	Create(ctx context.Context, like *domain.LikeEvent) error
	Exists(ctx context.Context, userID, likedUserID uuid.UUID) (bool, error)
	// Window counts likes by userID created strictly after since, and returns the oldest of them.
	Window(ctx context.Context, userID uuid.UUID, since time.Time) (domain.LikeWindow, error)
	LikedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	LikerIDs(ctx context.Context, likedUserID uuid.UUID) ([]uuid.UUID, error)
}

type PassRepository interface {
	// Create inserts a pass; an existing pass for the same pair is left untouched.
	Create(ctx context.Context, pass *domain.PassEvent) error
	Exists(ctx context.Context, userID, passedUserID uuid.UUID) (bool, error)
	PassedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type FriendshipRepository interface {
	// Create materialises both directed rows. It reports whether any row was newly inserted;
	// an existing friendship is not an error.
	Create(ctx context.Context, userID, friendID uuid.UUID) (bool, error)
	Exists(ctx context.Context, userID, friendID uuid.UUID) (bool, error)
	FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type BlockRepository interface {
	Create(ctx context.Context, block *domain.Block) error
	Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error
	// BlockedIDs lists users blocked by blockerID.
	BlockedIDs(ctx context.Context, blockerID uuid.UUID) ([]uuid.UUID, error)
	// RelatedIDs lists users that blocked userID or were blocked by userID.
	RelatedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	IsBlockedEitherWay(ctx context.Context, a, b uuid.UUID) (bool, error)
}

type FriendRequestRepository interface {
	Create(ctx context.Context, req *domain.FriendRequest) error
	GetPending(ctx context.Context, fromUserID, toUserID uuid.UUID) (*domain.FriendRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FriendRequestStatus) error
	ListIncomingPending(ctx context.Context, toUserID uuid.UUID) ([]*domain.FriendRequest, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) error
}

// Store groups the repositories a deployment is wired with.
type Store struct {
	Profiles       ProfileRepository
	Likes          LikeRepository
	Passes         PassRepository
	Friendships    FriendshipRepository
	Blocks         BlockRepository
	FriendRequests FriendRequestRepository
	Notifications  NotificationRepository
}

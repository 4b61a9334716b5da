package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/gdugdh24/kindred-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is the postgres SQLSTATE for a unique constraint conflict.
const uniqueViolation = "23505"

type blockRepository struct {
	db *sqlx.DB
}

func NewBlockRepository(db *sqlx.DB) repository.BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) Create(ctx context.Context, block *domain.Block) error {
	query := `
		INSERT INTO blocks (blocker_id, blocked_id)
		VALUES ($1, $2)
		ON CONFLICT (blocker_id, blocked_id) DO UPDATE SET blocker_id = EXCLUDED.blocker_id
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, block.BlockerID, block.BlockedID).Scan(&block.CreatedAt)
	return domain.NewStoreError("insert block", err)
}

func (r *blockRepository) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	query := `DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2`
	_, err := r.db.ExecContext(ctx, query, blockerID, blockedID)
	return domain.NewStoreError("delete block", err)
}

func (r *blockRepository) BlockedIDs(ctx context.Context, blockerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT blocked_id FROM blocks WHERE blocker_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &ids, query, blockerID)
	return ids, domain.NewStoreError("list blocks", err)
}

func (r *blockRepository) RelatedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `
		SELECT blocked_id FROM blocks WHERE blocker_id = $1
		UNION
		SELECT blocker_id FROM blocks WHERE blocked_id = $1
	`
	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, domain.NewStoreError("list blocks", err)
}

func (r *blockRepository) IsBlockedEitherWay(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var blocked bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM blocks
			WHERE (blocker_id = $1 AND blocked_id = $2) OR (blocker_id = $2 AND blocked_id = $1)
		)
	`
	err := r.db.GetContext(ctx, &blocked, query, a, b)
	return blocked, domain.NewStoreError("check block", err)
}

type friendRequestRepository struct {
	db *sqlx.DB
}

func NewFriendRequestRepository(db *sqlx.DB) repository.FriendRequestRepository {
	return &friendRequestRepository{db: db}
}

func (r *friendRequestRepository) Create(ctx context.Context, req *domain.FriendRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = domain.FriendRequestPending
	}

	// friend_requests has a partial unique index on (from_user_id, to_user_id) WHERE status = 'pending'
	query := `
		INSERT INTO friend_requests (id, from_user_id, to_user_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, req.ID, req.FromUserID, req.ToUserID, req.Status).
		Scan(&req.CreatedAt, &req.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrFriendRequestExists
	}
	return domain.NewStoreError("insert friend request", err)
}

func (r *friendRequestRepository) GetPending(ctx context.Context, fromUserID, toUserID uuid.UUID) (*domain.FriendRequest, error) {
	var req domain.FriendRequest
	query := `
		SELECT id, from_user_id, to_user_id, status, created_at, updated_at
		FROM friend_requests
		WHERE from_user_id = $1 AND to_user_id = $2 AND status = $3
	`
	err := r.db.GetContext(ctx, &req, query, fromUserID, toUserID, domain.FriendRequestPending)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFriendRequestNotFound
		}
		return nil, domain.NewStoreError("get friend request", err)
	}
	return &req, nil
}

func (r *friendRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FriendRequestStatus) error {
	query := `UPDATE friend_requests SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return domain.NewStoreError("update friend request", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.NewStoreError("update friend request", err)
	}
	if rows == 0 {
		return domain.ErrFriendRequestNotFound
	}
	return nil
}

func (r *friendRequestRepository) ListIncomingPending(ctx context.Context, toUserID uuid.UUID) ([]*domain.FriendRequest, error) {
	var reqs []*domain.FriendRequest
	query := `
		SELECT id, from_user_id, to_user_id, status, created_at, updated_at
		FROM friend_requests
		WHERE to_user_id = $1 AND status = $2
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &reqs, query, toUserID, domain.FriendRequestPending)
	return reqs, domain.NewStoreError("list friend requests", err)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if len(n.Data) == 0 {
		n.Data = json.RawMessage(`{}`)
	}

	query := `
		INSERT INTO notifications (id, user_id, from_user_id, type, title, body, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, n.ID, n.UserID, n.FromUserID, n.Type, n.Title, n.Body, []byte(n.Data)).
		Scan(&n.CreatedAt)
	return domain.NewStoreError("insert notification", err)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	var ns []*domain.Notification
	query := `
		SELECT id, user_id, from_user_id, type, title, body, data, read_at, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	err := r.db.SelectContext(ctx, &ns, query, userID, limit, offset)
	return ns, domain.NewStoreError("list notifications", err)
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) error {
	query := `UPDATE notifications SET read_at = $1 WHERE id = $2 AND user_id = $3`
	result, err := r.db.ExecContext(ctx, query, at, id, userID)
	if err != nil {
		return domain.NewStoreError("mark notification read", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.NewStoreError("mark notification read", err)
	}
	if rows == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

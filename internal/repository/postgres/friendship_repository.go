package postgres

import (
	"context"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/gdugdh24/kindred-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type friendshipRepository struct {
	db *sqlx.DB
}

func NewFriendshipRepository(db *sqlx.DB) repository.FriendshipRepository {
	return &friendshipRepository{db: db}
}

// Create inserts both directed rows in one statement. Rows are written in a fixed
// pair order so two sessions matching the same users cannot deadlock.
func (r *friendshipRepository) Create(ctx context.Context, userID, friendID uuid.UUID) (bool, error) {
	first, second := domain.OrderedPair(userID, friendID)

	query := `
		INSERT INTO friendships (user_id, friend_id)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT (user_id, friend_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, first, second)
	if err != nil {
		return false, domain.NewStoreError("create friendship", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, domain.NewStoreError("create friendship", err)
	}
	return rows > 0, nil
}

func (r *friendshipRepository) Exists(ctx context.Context, userID, friendID uuid.UUID) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM friendships
			WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
		)
	`
	err := r.db.GetContext(ctx, &exists, query, userID, friendID)
	return exists, domain.NewStoreError("check friendship", err)
}

func (r *friendshipRepository) FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `
		SELECT friend_id FROM friendships WHERE user_id = $1
		UNION
		SELECT user_id FROM friendships WHERE friend_id = $1
	`
	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, domain.NewStoreError("list friends", err)
}

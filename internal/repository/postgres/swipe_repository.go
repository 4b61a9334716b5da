package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/gdugdh24/kindred-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) repository.LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *domain.LikeEvent) error {
	if like.ID == uuid.Nil {
		like.ID = uuid.New()
	}

	// DO UPDATE with a no-op assignment so RETURNING yields the stored row on conflict.
	query := `
		INSERT INTO user_likes (id, user_id, liked_user_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, liked_user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, like.ID, like.UserID, like.LikedUserID, like.CreatedAt).
		Scan(&like.ID, &like.CreatedAt)
	return domain.NewStoreError("insert like", err)
}

func (r *likeRepository) Exists(ctx context.Context, userID, likedUserID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM user_likes WHERE user_id = $1 AND liked_user_id = $2)`
	err := r.db.GetContext(ctx, &exists, query, userID, likedUserID)
	return exists, domain.NewStoreError("check like", err)
}

func (r *likeRepository) Window(ctx context.Context, userID uuid.UUID, since time.Time) (domain.LikeWindow, error) {
	var row struct {
		Count  int          `db:"count"`
		Oldest sql.NullTime `db:"oldest"`
	}
	query := `
		SELECT COUNT(*) AS count, MIN(created_at) AS oldest
		FROM user_likes
		WHERE user_id = $1 AND created_at > $2
	`
	if err := r.db.GetContext(ctx, &row, query, userID, since); err != nil {
		return domain.LikeWindow{}, domain.NewStoreError("count likes", err)
	}

	w := domain.LikeWindow{Count: row.Count}
	if row.Oldest.Valid {
		oldest := row.Oldest.Time
		w.Oldest = &oldest
	}
	return w, nil
}

func (r *likeRepository) LikedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT DISTINCT liked_user_id FROM user_likes WHERE user_id = $1`
	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, domain.NewStoreError("list likes", err)
}

func (r *likeRepository) LikerIDs(ctx context.Context, likedUserID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `
		SELECT user_id FROM user_likes
		WHERE liked_user_id = $1
		GROUP BY user_id
		ORDER BY MAX(created_at) DESC
	`
	err := r.db.SelectContext(ctx, &ids, query, likedUserID)
	return ids, domain.NewStoreError("list likers", err)
}

type passRepository struct {
	db *sqlx.DB
}

func NewPassRepository(db *sqlx.DB) repository.PassRepository {
	return &passRepository{db: db}
}

func (r *passRepository) Create(ctx context.Context, pass *domain.PassEvent) error {
	if pass.ID == uuid.Nil {
		pass.ID = uuid.New()
	}

	query := `
		INSERT INTO user_passes (id, user_id, passed_user_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, passed_user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, pass.ID, pass.UserID, pass.PassedUserID, pass.CreatedAt)
	return domain.NewStoreError("insert pass", err)
}

func (r *passRepository) Exists(ctx context.Context, userID, passedUserID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM user_passes WHERE user_id = $1 AND passed_user_id = $2)`
	err := r.db.GetContext(ctx, &exists, query, userID, passedUserID)
	return exists, domain.NewStoreError("check pass", err)
}

func (r *passRepository) PassedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT DISTINCT passed_user_id FROM user_passes WHERE user_id = $1`
	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, domain.NewStoreError("list passes", err)
}

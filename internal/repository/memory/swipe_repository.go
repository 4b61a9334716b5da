package memory

import (
	"context"
	"time"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/google/uuid"
)

type likeRepository struct {
	db *DB
}

func (r *likeRepository) Create(ctx context.Context, like *domain.LikeEvent) error {
	if err := checkCtx(ctx, "insert like"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := pair{like.UserID, like.LikedUserID}
	if existing, ok := r.db.likes[key]; ok {
		*like = existing
		return nil
	}
	if like.ID == uuid.Nil {
		like.ID = uuid.New()
	}
	like.CreatedAt = stamp(like.CreatedAt, r.db.now)
	r.db.likes[key] = *like
	return nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, likedUserID uuid.UUID) (bool, error) {
	if err := checkCtx(ctx, "check like"); err != nil {
		return false, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	_, ok := r.db.likes[pair{userID, likedUserID}]
	return ok, nil
}

func (r *likeRepository) Window(ctx context.Context, userID uuid.UUID, since time.Time) (domain.LikeWindow, error) {
	if err := checkCtx(ctx, "count likes"); err != nil {
		return domain.LikeWindow{}, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var w domain.LikeWindow
	for key, like := range r.db.likes {
		if key.from != userID || !like.CreatedAt.After(since) {
			continue
		}
		w.Count++
		if w.Oldest == nil || like.CreatedAt.Before(*w.Oldest) {
			oldest := like.CreatedAt
			w.Oldest = &oldest
		}
	}
	return w, nil
}

func (r *likeRepository) LikedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if err := checkCtx(ctx, "list likes"); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	set := make(map[uuid.UUID]struct{})
	for key := range r.db.likes {
		if key.from == userID {
			set[key.to] = struct{}{}
		}
	}
	return sortedIDs(set), nil
}

func (r *likeRepository) LikerIDs(ctx context.Context, likedUserID uuid.UUID) ([]uuid.UUID, error) {
	if err := checkCtx(ctx, "list likers"); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	set := make(map[uuid.UUID]struct{})
	for key := range r.db.likes {
		if key.to == likedUserID {
			set[key.from] = struct{}{}
		}
	}
	return sortedIDs(set), nil
}

type passRepository struct {
	db *DB
}

func (r *passRepository) Create(ctx context.Context, pass *domain.PassEvent) error {
	if err := checkCtx(ctx, "insert pass"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := pair{pass.UserID, pass.PassedUserID}
	if existing, ok := r.db.passes[key]; ok {
		*pass = existing
		return nil
	}
	if pass.ID == uuid.Nil {
		pass.ID = uuid.New()
	}
	pass.CreatedAt = stamp(pass.CreatedAt, r.db.now)
	r.db.passes[key] = *pass
	return nil
}

func (r *passRepository) Exists(ctx context.Context, userID, passedUserID uuid.UUID) (bool, error) {
	if err := checkCtx(ctx, "check pass"); err != nil {
		return false, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	_, ok := r.db.passes[pair{userID, passedUserID}]
	return ok, nil
}

func (r *passRepository) PassedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if err := checkCtx(ctx, "list passes"); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	set := make(map[uuid.UUID]struct{})
	for key := range r.db.passes {
		if key.from == userID {
			set[key.to] = struct{}{}
		}
	}
	return sortedIDs(set), nil
}

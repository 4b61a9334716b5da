package memory

import (
	"context"
	"sort"
	"time"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/google/uuid"
)

type friendshipRepository struct {
	db *DB
}

func (r *friendshipRepository) Create(ctx context.Context, userID, friendID uuid.UUID) (bool, error) {
	if err := checkCtx(ctx, "insert friendship"); err != nil {
		return false, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	created := false
	now := r.db.now()
	for _, key := range []pair{{userID, friendID}, {friendID, userID}} {
		if _, ok := r.db.friendships[key]; !ok {
			r.db.friendships[key] = now
			created = true
		}
	}
	return created, nil
}

func (r *friendshipRepository) Exists(ctx context.Context, userID, friendID uuid.UUID) (bool, error) {
	if err := checkCtx(ctx, "check friendship"); err != nil {
		return false, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	_, ab := r.db.friendships[pair{userID, friendID}]
	_, ba := r.db.friendships[pair{friendID, userID}]
	return ab || ba, nil
}

func (r *friendshipRepository) FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if err := checkCtx(ctx, "list friends"); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	set := make(map[uuid.UUID]struct{})
	for key := range r.db.friendships {
		switch userID {
		case key.from:
			set[key.to] = struct{}{}
		case key.to:
			set[key.from] = struct{}{}
		}
	}
	return sortedIDs(set), nil
}

type blockRepository struct {
	db *DB
}

func (r *blockRepository) Create(ctx context.Context, block *domain.Block) error {
	if err := checkCtx(ctx, "insert block"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := pair{block.BlockerID, block.BlockedID}
	if at, ok := r.db.blocks[key]; ok {
		block.CreatedAt = at
		return nil
	}
	block.CreatedAt = stamp(block.CreatedAt, r.db.now)
	r.db.blocks[key] = block.CreatedAt
	return nil
}

func (r *blockRepository) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if err := checkCtx(ctx, "delete block"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	delete(r.db.blocks, pair{blockerID, blockedID})
	return nil
}

func (r *blockRepository) BlockedIDs(ctx context.Context, blockerID uuid.UUID) ([]uuid.UUID, error) {
	if err := checkCtx(ctx, "list blocks"); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	set := make(map[uuid.UUID]struct{})
	for key := range r.db.blocks {
		if key.from == blockerID {
			set[key.to] = struct{}{}
		}
	}
	return sortedIDs(set), nil
}

func (r *blockRepository) RelatedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if err := checkCtx(ctx, "list blocks"); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	set := make(map[uuid.UUID]struct{})
	for key := range r.db.blocks {
		switch userID {
		case key.from:
			set[key.to] = struct{}{}
		case key.to:
			set[key.from] = struct{}{}
		}
	}
	return sortedIDs(set), nil
}

func (r *blockRepository) IsBlockedEitherWay(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if err := checkCtx(ctx, "check block"); err != nil {
		return false, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	_, ab := r.db.blocks[pair{a, b}]
	_, ba := r.db.blocks[pair{b, a}]
	return ab || ba, nil
}

type friendRequestRepository struct {
	db *DB
}

func (r *friendRequestRepository) Create(ctx context.Context, req *domain.FriendRequest) error {
	if err := checkCtx(ctx, "insert friend request"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.requests {
		if existing.FromUserID == req.FromUserID && existing.ToUserID == req.ToUserID &&
			existing.Status == domain.FriendRequestPending {
			return domain.ErrFriendRequestExists
		}
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = domain.FriendRequestPending
	}
	req.CreatedAt = stamp(req.CreatedAt, r.db.now)
	req.UpdatedAt = req.CreatedAt
	cp := *req
	r.db.requests[req.ID] = &cp
	return nil
}

func (r *friendRequestRepository) GetPending(ctx context.Context, fromUserID, toUserID uuid.UUID) (*domain.FriendRequest, error) {
	if err := checkCtx(ctx, "get friend request"); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, req := range r.db.requests {
		if req.FromUserID == fromUserID && req.ToUserID == toUserID && req.Status == domain.FriendRequestPending {
			cp := *req
			return &cp, nil
		}
	}
	return nil, domain.ErrFriendRequestNotFound
}

func (r *friendRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FriendRequestStatus) error {
	if err := checkCtx(ctx, "update friend request"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	req, ok := r.db.requests[id]
	if !ok {
		return domain.ErrFriendRequestNotFound
	}
	req.Status = status
	req.UpdatedAt = r.db.now()
	return nil
}

func (r *friendRequestRepository) ListIncomingPending(ctx context.Context, toUserID uuid.UUID) ([]*domain.FriendRequest, error) {
	if err := checkCtx(ctx, "list friend requests"); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []*domain.FriendRequest
	for _, req := range r.db.requests {
		if req.ToUserID == toUserID && req.Status == domain.FriendRequestPending {
			cp := *req
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type notificationRepository struct {
	db *DB
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if err := checkCtx(ctx, "insert notification"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = stamp(n.CreatedAt, r.db.now)
	cp := *n
	r.db.notifications = append(r.db.notifications, &cp)
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	if err := checkCtx(ctx, "list notifications"); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []*domain.Notification
	for i := len(r.db.notifications) - 1; i >= 0; i-- {
		if n := r.db.notifications[i]; n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) error {
	if err := checkCtx(ctx, "mark notification read"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, n := range r.db.notifications {
		if n.ID == id && n.UserID == userID {
			n.ReadAt = &at
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

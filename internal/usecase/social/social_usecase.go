package social

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/gdugdh24/kindred-backend/internal/repository"
	"github.com/google/uuid"
)

// RequestNotifier is told about every new friend request.
type RequestNotifier interface {
	NotifyFriendRequest(ctx context.Context, fromUserID, toUserID uuid.UUID) error
}

type SocialUseCase struct {
	profileRepo    repository.ProfileRepository
	friendshipRepo repository.FriendshipRepository
	blockRepo      repository.BlockRepository
	requestRepo    repository.FriendRequestRepository
	notifier       RequestNotifier
	timeout        time.Duration
	logger         *slog.Logger
	now            func() time.Time
}

func NewSocialUseCase(
	store repository.Store,
	notifier RequestNotifier,
	timeout time.Duration,
	logger *slog.Logger,
) *SocialUseCase {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SocialUseCase{
		profileRepo:    store.Profiles,
		friendshipRepo: store.Friendships,
		blockRepo:      store.Blocks,
		requestRepo:    store.FriendRequests,
		notifier:       notifier,
		timeout:        timeout,
		logger:         logger,
		now:            time.Now,
	}
}

// FriendRequestInput is the body of a new friend request.
type FriendRequestInput struct {
	ToUserID uuid.UUID `json:"to_user_id" binding:"required"`
}

// BlockInput is the body of a block request.
type BlockInput struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// IncomingRequest pairs a pending request with its sender.
type IncomingRequest struct {
	Request *domain.FriendRequest `json:"request"`
	From    *domain.ProfileCard   `json:"from"`
}

// SendRequest asks toUserID to become friends with fromUserID. When toUserID has
// already asked fromUserID, that request is accepted instead.
func (uc *SocialUseCase) SendRequest(ctx context.Context, fromUserID, toUserID uuid.UUID) (*domain.FriendRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if fromUserID == toUserID {
		return nil, domain.ErrCannotBefriendSelf
	}
	if _, err := uc.profileRepo.GetByUserID(ctx, toUserID); err != nil {
		return nil, err
	}
	if err := uc.ensureNotBlocked(ctx, fromUserID, toUserID); err != nil {
		return nil, err
	}

	friends, err := uc.friendshipRepo.Exists(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, domain.ErrAlreadyFriends
	}

	reverse, err := uc.requestRepo.GetPending(ctx, toUserID, fromUserID)
	switch {
	case err == nil:
		return uc.accept(ctx, reverse)
	case !errors.Is(err, domain.ErrFriendRequestNotFound):
		return nil, err
	}

	req := &domain.FriendRequest{
		ID:         uuid.New(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     domain.FriendRequestPending,
		CreatedAt:  uc.now().UTC(),
	}
	if err := uc.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		if err := uc.notifier.NotifyFriendRequest(context.WithoutCancel(ctx), fromUserID, toUserID); err != nil {
			uc.logger.Error("friend request notification failed",
				"from_user_id", fromUserID, "to_user_id", toUserID, "error", err)
		}
	}
	return req, nil
}

// AcceptRequest accepts the pending request fromUserID sent to userID.
func (uc *SocialUseCase) AcceptRequest(ctx context.Context, userID, fromUserID uuid.UUID) (*domain.FriendRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	req, err := uc.requestRepo.GetPending(ctx, fromUserID, userID)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureNotBlocked(ctx, userID, fromUserID); err != nil {
		return nil, err
	}
	return uc.accept(ctx, req)
}

// RejectRequest declines the pending request fromUserID sent to userID.
func (uc *SocialUseCase) RejectRequest(ctx context.Context, userID, fromUserID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	req, err := uc.requestRepo.GetPending(ctx, fromUserID, userID)
	if err != nil {
		return err
	}
	return uc.requestRepo.UpdateStatus(ctx, req.ID, domain.FriendRequestRejected)
}

// ListIncoming returns pending requests sent to userID, newest first.
func (uc *SocialUseCase) ListIncoming(ctx context.Context, userID uuid.UUID) ([]*IncomingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	viewer, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	reqs, err := uc.requestRepo.ListIncomingPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*IncomingRequest, 0, len(reqs))
	if len(reqs) == 0 {
		return out, nil
	}

	senderIDs := make([]uuid.UUID, 0, len(reqs))
	for _, r := range reqs {
		senderIDs = append(senderIDs, r.FromUserID)
	}
	cards, err := uc.cardsByID(ctx, viewer, senderIDs)
	if err != nil {
		return nil, err
	}

	for _, r := range reqs {
		card, ok := cards[r.FromUserID]
		if !ok {
			continue
		}
		out = append(out, &IncomingRequest{Request: r, From: card})
	}
	return out, nil
}

// Block hides blockedID from blockerID everywhere. Blocking twice is a no-op.
// A pending request from the blocked user is rejected.
func (uc *SocialUseCase) Block(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if blockerID == blockedID {
		return domain.ErrCannotBlockSelf
	}
	if _, err := uc.profileRepo.GetByUserID(ctx, blockedID); err != nil {
		return err
	}

	err := uc.blockRepo.Create(ctx, &domain.Block{
		BlockerID: blockerID,
		BlockedID: blockedID,
		CreatedAt: uc.now().UTC(),
	})
	if err != nil {
		return err
	}

	req, err := uc.requestRepo.GetPending(ctx, blockedID, blockerID)
	switch {
	case errors.Is(err, domain.ErrFriendRequestNotFound):
		return nil
	case err != nil:
		return err
	}
	return uc.requestRepo.UpdateStatus(ctx, req.ID, domain.FriendRequestRejected)
}

func (uc *SocialUseCase) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	return uc.blockRepo.Delete(ctx, blockerID, blockedID)
}

// ListBlocked returns the profiles blockerID has blocked.
func (uc *SocialUseCase) ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]*domain.ProfileCard, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	viewer, err := uc.profileRepo.GetByUserID(ctx, blockerID)
	if err != nil {
		return nil, err
	}
	ids, err := uc.blockRepo.BlockedIDs(ctx, blockerID)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.ProfileCard, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cards, err := uc.cardsByID(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if card, ok := cards[id]; ok {
			out = append(out, card)
		}
	}
	return out, nil
}

// accept creates the friendship before marking the request so a failed status
// update can be retried without losing the friendship.
func (uc *SocialUseCase) accept(ctx context.Context, req *domain.FriendRequest) (*domain.FriendRequest, error) {
	if _, err := uc.friendshipRepo.Create(ctx, req.FromUserID, req.ToUserID); err != nil {
		return nil, err
	}
	if err := uc.requestRepo.UpdateStatus(ctx, req.ID, domain.FriendRequestAccepted); err != nil {
		return nil, err
	}
	req.Status = domain.FriendRequestAccepted
	req.UpdatedAt = uc.now().UTC()
	return req, nil
}

func (uc *SocialUseCase) ensureNotBlocked(ctx context.Context, a, b uuid.UUID) error {
	blocked, err := uc.blockRepo.IsBlockedEitherWay(ctx, a, b)
	if err != nil {
		return err
	}
	if blocked {
		return domain.ErrBlocked
	}
	return nil
}

func (uc *SocialUseCase) cardsByID(ctx context.Context, viewer *domain.Profile, ids []uuid.UUID) (map[uuid.UUID]*domain.ProfileCard, error) {
	profiles, err := uc.profileRepo.GetByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	origin := viewer.Location()
	now := uc.now()
	cards := make(map[uuid.UUID]*domain.ProfileCard, len(profiles))
	for _, p := range profiles {
		cards[p.UserID] = domain.NewProfileCard(p, origin, now)
	}
	return cards, nil
}

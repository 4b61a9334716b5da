package swipe

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/gdugdh24/kindred-backend/internal/infrastructure/cache"
	"github.com/gdugdh24/kindred-backend/internal/repository"
	"github.com/google/uuid"
)

// MatchNotifier is told about every newly created friendship.
type MatchNotifier interface {
	NotifyMatch(ctx context.Context, userID, matchedUserID uuid.UUID) error
}

// Options configures the like quota. Zero values fall back to package defaults.
type Options struct {
	DailyLikeLimit  int
	QuotaWindow     time.Duration
	QuotaRetryDelay time.Duration
	Timeout         time.Duration
}

func (o Options) withDefaults() Options {
	if o.DailyLikeLimit <= 0 {
		o.DailyLikeLimit = 20
	}
	if o.QuotaWindow <= 0 {
		o.QuotaWindow = 24 * time.Hour
	}
	if o.QuotaRetryDelay <= 0 {
		o.QuotaRetryDelay = time.Minute
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	return o
}

type SwipeUseCase struct {
	profileRepo    repository.ProfileRepository
	likeRepo       repository.LikeRepository
	passRepo       repository.PassRepository
	friendshipRepo repository.FriendshipRepository
	blockRepo      repository.BlockRepository
	quotaCache     cache.QuotaCache
	notifier       MatchNotifier
	opts           Options
	logger         *slog.Logger
	now            func() time.Time
}

func NewSwipeUseCase(
	store repository.Store,
	quotaCache cache.QuotaCache,
	notifier MatchNotifier,
	opts Options,
	logger *slog.Logger,
) *SwipeUseCase {
	if quotaCache == nil {
		quotaCache = cache.NewNopQuotaCache()
	}
	return &SwipeUseCase{
		profileRepo:    store.Profiles,
		likeRepo:       store.Likes,
		passRepo:       store.Passes,
		friendshipRepo: store.Friendships,
		blockRepo:      store.Blocks,
		quotaCache:     quotaCache,
		notifier:       notifier,
		opts:           opts.withDefaults(),
		logger:         logger,
		now:            time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (uc *SwipeUseCase) WithClock(now func() time.Time) *SwipeUseCase {
	uc.now = now
	return uc
}

// SwipeRequest identifies the profile being swiped on.
type SwipeRequest struct {
	TargetUserID uuid.UUID `json:"target_user_id" binding:"required"`
}

// LikeResult reports the outcome of a like.
type LikeResult struct {
	Matched bool              `json:"matched"`
	State   domain.SwipeState `json:"state"`
}

// QuotaStatus describes the viewer's position in the sliding like window.
type QuotaStatus struct {
	Limit     int        `json:"limit"`
	Used      int        `json:"used"`
	Remaining int        `json:"remaining"`
	ResetAt   *time.Time `json:"reset_at"`
}

// RecordPass records that viewerID declined targetID. Repeating it is a no-op.
func (uc *SwipeUseCase) RecordPass(ctx context.Context, viewerID, targetID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	if viewerID == targetID {
		return domain.ErrCannotSwipeSelf
	}
	if err := uc.requireSwipeable(ctx, viewerID, targetID); err != nil {
		return err
	}

	liked, err := uc.likeRepo.Exists(ctx, viewerID, targetID)
	if err != nil {
		return err
	}
	if liked {
		return domain.ErrSwipeAlreadyExists
	}

	return uc.passRepo.Create(ctx, &domain.PassEvent{
		ID:           uuid.New(),
		UserID:       viewerID,
		PassedUserID: targetID,
		CreatedAt:    uc.now().UTC(),
	})
}

// RecordLike records that viewerID liked targetID and creates the friendship
// when targetID already liked viewerID.
//
// A like that already exists skips the quota and the insert but re-runs the
// mutual check, so retrying after a failed friendship write completes the match.
func (uc *SwipeUseCase) RecordLike(ctx context.Context, viewerID, targetID uuid.UUID) (*LikeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	if viewerID == targetID {
		return nil, domain.ErrCannotSwipeSelf
	}
	if err := uc.requireSwipeable(ctx, viewerID, targetID); err != nil {
		return nil, err
	}

	passed, err := uc.passRepo.Exists(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	if passed {
		return nil, domain.ErrSwipeAlreadyExists
	}

	liked, err := uc.likeRepo.Exists(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	if !liked {
		now := uc.now().UTC()
		if err := uc.checkQuota(ctx, viewerID, now); err != nil {
			return nil, err
		}
		err := uc.likeRepo.Create(ctx, &domain.LikeEvent{
			ID:          uuid.New(),
			UserID:      viewerID,
			LikedUserID: targetID,
			CreatedAt:   now,
		})
		if err != nil {
			return nil, err
		}
	}

	mutual, err := uc.likeRepo.Exists(ctx, targetID, viewerID)
	if err != nil {
		return nil, err
	}
	if !mutual {
		return &LikeResult{Matched: false, State: domain.SwipeStateLiked}, nil
	}

	created, err := uc.friendshipRepo.Create(ctx, viewerID, targetID)
	if err != nil {
		uc.logger.Error("friendship creation failed, like kept for retry",
			"viewer_id", viewerID, "target_id", targetID, "error", err)
		return nil, err
	}
	if created {
		uc.logger.Info("match created", "viewer_id", viewerID, "target_id", targetID)
		uc.notifyMatch(ctx, viewerID, targetID)
	}

	return &LikeResult{Matched: true, State: domain.SwipeStateMatched}, nil
}

// SwipeState reports the decision viewerID has made about targetID.
func (uc *SwipeUseCase) SwipeState(ctx context.Context, viewerID, targetID uuid.UUID) (domain.SwipeState, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	if viewerID == targetID {
		return "", domain.ErrCannotSwipeSelf
	}

	friends, err := uc.friendshipRepo.Exists(ctx, viewerID, targetID)
	if err != nil {
		return "", err
	}
	if friends {
		return domain.SwipeStateMatched, nil
	}

	liked, err := uc.likeRepo.Exists(ctx, viewerID, targetID)
	if err != nil {
		return "", err
	}
	if liked {
		return domain.SwipeStateLiked, nil
	}

	passed, err := uc.passRepo.Exists(ctx, viewerID, targetID)
	if err != nil {
		return "", err
	}
	if passed {
		return domain.SwipeStatePassed, nil
	}
	return domain.SwipeStateUnseen, nil
}

// QuotaStatus returns how many likes userID has left in the current window.
func (uc *SwipeUseCase) QuotaStatus(ctx context.Context, userID uuid.UUID) (*QuotaStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	now := uc.now().UTC()
	w, err := uc.likeRepo.Window(ctx, userID, now.Add(-uc.opts.QuotaWindow))
	if err != nil {
		return nil, err
	}

	status := &QuotaStatus{
		Limit:     uc.opts.DailyLikeLimit,
		Used:      w.Count,
		Remaining: max(uc.opts.DailyLikeLimit-w.Count, 0),
	}
	if w.Oldest != nil {
		resetAt := w.Oldest.Add(uc.opts.QuotaWindow).UTC()
		status.ResetAt = &resetAt
	}
	return status, nil
}

// GetLikesReceived lists approved users who liked userID and are not yet matched,
// passed on or blocked.
func (uc *SwipeUseCase) GetLikesReceived(ctx context.Context, userID uuid.UUID) ([]*domain.ProfileCard, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	viewer, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	likerIDs, err := uc.likeRepo.LikerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	hidden := make(map[uuid.UUID]struct{})
	for _, source := range []func(context.Context, uuid.UUID) ([]uuid.UUID, error){
		uc.friendshipRepo.FriendIDs,
		uc.passRepo.PassedUserIDs,
		uc.blockRepo.RelatedIDs,
	} {
		ids, err := source(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			hidden[id] = struct{}{}
		}
	}

	pending := make([]uuid.UUID, 0, len(likerIDs))
	for _, id := range likerIDs {
		if _, skip := hidden[id]; !skip {
			pending = append(pending, id)
		}
	}

	return uc.cards(ctx, viewer, pending)
}

// GetMatches lists approved users userID has a friendship with, excluding blocked ones.
func (uc *SwipeUseCase) GetMatches(ctx context.Context, userID uuid.UUID) ([]*domain.ProfileCard, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.Timeout)
	defer cancel()

	viewer, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	friendIDs, err := uc.friendshipRepo.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	blocked, err := uc.blockRepo.RelatedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	skip := make(map[uuid.UUID]struct{}, len(blocked))
	for _, id := range blocked {
		skip[id] = struct{}{}
	}
	visible := make([]uuid.UUID, 0, len(friendIDs))
	for _, id := range friendIDs {
		if _, ok := skip[id]; !ok {
			visible = append(visible, id)
		}
	}

	return uc.cards(ctx, viewer, visible)
}

func (uc *SwipeUseCase) cards(ctx context.Context, viewer *domain.Profile, userIDs []uuid.UUID) ([]*domain.ProfileCard, error) {
	out := make([]*domain.ProfileCard, 0, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	profiles, err := uc.profileRepo.GetByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	origin := viewer.Location()
	now := uc.now()
	for _, p := range profiles {
		if !p.IsApproved() {
			continue
		}
		out = append(out, domain.NewProfileCard(p, origin, now))
	}
	return out, nil
}

// requireSwipeable checks both profiles exist and are approved, and that
// neither user has blocked the other.
func (uc *SwipeUseCase) requireSwipeable(ctx context.Context, viewerID, targetID uuid.UUID) error {
	for _, id := range []uuid.UUID{viewerID, targetID} {
		p, err := uc.profileRepo.GetByUserID(ctx, id)
		if err != nil {
			return err
		}
		if !p.IsApproved() {
			return domain.ErrProfileNotFound
		}
	}

	blocked, err := uc.blockRepo.IsBlockedEitherWay(ctx, viewerID, targetID)
	if err != nil {
		return err
	}
	if blocked {
		return domain.ErrBlocked
	}
	return nil
}

// checkQuota rejects the like when viewerID already has DailyLikeLimit likes in
// (now - QuotaWindow, now]. The reset time is when the oldest of them leaves the window.
func (uc *SwipeUseCase) checkQuota(ctx context.Context, viewerID uuid.UUID, now time.Time) error {
	limit := uc.opts.DailyLikeLimit

	resetAt, ok, err := uc.quotaCache.ResetAt(ctx, viewerID)
	if err != nil {
		uc.logger.Warn("quota cache read failed", "user_id", viewerID, "error", err)
	} else if ok && resetAt.After(now) {
		return &domain.QuotaExceededError{Limit: limit, ResetAt: resetAt}
	}

	w, err := uc.likeRepo.Window(ctx, viewerID, now.Add(-uc.opts.QuotaWindow))
	if err != nil {
		return err
	}
	if w.Count < limit {
		return nil
	}

	resetAt = now.Add(uc.opts.QuotaRetryDelay)
	if w.Oldest != nil {
		if candidate := w.Oldest.Add(uc.opts.QuotaWindow); candidate.After(now) {
			resetAt = candidate
		}
	}
	resetAt = resetAt.UTC()

	if err := uc.quotaCache.Remember(ctx, viewerID, resetAt, resetAt.Sub(now)); err != nil {
		uc.logger.Warn("quota cache write failed", "user_id", viewerID, "error", err)
	}
	uc.logger.Info("like quota exceeded",
		"user_id", viewerID, "count", w.Count, "limit", limit, "reset_at", resetAt)
	return &domain.QuotaExceededError{Limit: limit, ResetAt: resetAt}
}

func (uc *SwipeUseCase) notifyMatch(ctx context.Context, viewerID, targetID uuid.UUID) {
	if uc.notifier == nil {
		return
	}
	// The friendship is committed; the notification must not inherit the swipe deadline.
	if err := uc.notifier.NotifyMatch(context.WithoutCancel(ctx), viewerID, targetID); err != nil {
		uc.logger.Error("match notification failed",
			"viewer_id", viewerID, "target_id", targetID, "error", err)
	}
}

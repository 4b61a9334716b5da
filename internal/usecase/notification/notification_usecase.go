package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/gdugdh24/kindred-backend/internal/repository"
	"github.com/google/uuid"
)

const (
	defaultListLimit  = 20
	maxListLimit      = 100
	icebreakerTimeout = 2 * time.Second
)

// IcebreakerGenerator produces opening lines for a new match.
type IcebreakerGenerator interface {
	GenerateIcebreakers(ctx context.Context, userInterests, matchInterests []string) ([]string, error)
}

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	profileRepo      repository.ProfileRepository
	icebreakers      IcebreakerGenerator
	logger           *slog.Logger
	timeout          time.Duration
	now              func() time.Time
}

// NewNotificationUseCase builds the use case. icebreakers may be nil, in which
// case match notifications carry a static opener.
func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	profileRepo repository.ProfileRepository,
	icebreakers IcebreakerGenerator,
	logger *slog.Logger,
	timeout time.Duration,
) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		profileRepo:      profileRepo,
		icebreakers:      icebreakers,
		logger:           logger,
		timeout:          timeout,
		now:              time.Now,
	}
}

// NotifyMatch writes a match notification for each side of a new friendship.
func (uc *NotificationUseCase) NotifyMatch(ctx context.Context, userID, matchedUserID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	user, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	matched, err := uc.profileRepo.GetByUserID(ctx, matchedUserID)
	if err != nil {
		return err
	}

	lines := uc.generateIcebreakers(ctx, user, matched)

	for _, side := range []struct{ to, from *domain.Profile }{{user, matched}, {matched, user}} {
		n, err := matchNotification(side.to, side.from, lines)
		if err != nil {
			return err
		}
		if err := uc.notificationRepo.Create(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

// NotifyFriendRequest tells toUserID that fromUserID sent a friend request.
func (uc *NotificationUseCase) NotifyFriendRequest(ctx context.Context, fromUserID, toUserID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	from, err := uc.profileRepo.GetByUserID(ctx, fromUserID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(map[string]string{"from_user_id": fromUserID.String()})
	if err != nil {
		return fmt.Errorf("failed to encode notification data: %w", err)
	}

	return uc.notificationRepo.Create(ctx, &domain.Notification{
		UserID:     toUserID,
		FromUserID: &fromUserID,
		Type:       domain.NotificationFriendRequest,
		Title:      "New friend request",
		Body:       fmt.Sprintf("%s wants to connect with you.", displayName(from)),
		Data:       data,
	})
}

// List returns the newest notifications for userID.
func (uc *NotificationUseCase) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	ns, err := uc.notificationRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if ns == nil {
		ns = []*domain.Notification{}
	}
	return ns, nil
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	return uc.notificationRepo.MarkRead(ctx, userID, notificationID, uc.now().UTC())
}

func (uc *NotificationUseCase) generateIcebreakers(ctx context.Context, user, matched *domain.Profile) []string {
	if uc.icebreakers != nil {
		genCtx, cancel := context.WithTimeout(ctx, icebreakerTimeout)
		defer cancel()

		lines, err := uc.icebreakers.GenerateIcebreakers(genCtx, user.InterestList(), matched.InterestList())
		if err == nil && len(lines) > 0 {
			return lines
		}
		uc.logger.Warn("icebreaker generation failed, using fallback",
			"user_id", user.UserID, "matched_user_id", matched.UserID, "error", err)
	}
	return FallbackIcebreakers(user.InterestList(), matched.InterestList())
}

// FallbackIcebreakers builds openers without the model, preferring a shared interest.
func FallbackIcebreakers(userInterests, matchInterests []string) []string {
	mine := make(map[string]struct{}, len(userInterests))
	for _, s := range userInterests {
		mine[s] = struct{}{}
	}
	for _, s := range matchInterests {
		if _, ok := mine[s]; ok {
			return []string{
				fmt.Sprintf("You both like %s. What got you into it?", s),
				"What does a perfect weekend look like for you?",
			}
		}
	}
	return []string{
		"Hi! What's something you're looking forward to this week?",
		"What does a perfect weekend look like for you?",
	}
}

func matchNotification(to, from *domain.Profile, icebreakers []string) (*domain.Notification, error) {
	data, err := json.Marshal(map[string]any{
		"match_user_id": from.UserID.String(),
		"icebreakers":   icebreakers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification data: %w", err)
	}

	fromID := from.UserID
	return &domain.Notification{
		UserID:     to.UserID,
		FromUserID: &fromID,
		Type:       domain.NotificationMatch,
		Title:      "It's a match!",
		Body:       fmt.Sprintf("You and %s liked each other. %s", displayName(from), icebreakers[0]),
		Data:       data,
	}, nil
}

func displayName(p *domain.Profile) string {
	if p.DisplayName == "" {
		return "Someone"
	}
	return p.DisplayName
}

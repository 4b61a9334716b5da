package memory

import (
	"context"
	"sort"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/gdugdh24/kindred-backend/internal/repository"
	"github.com/google/uuid"
)

type profileRepository struct {
	db *DB
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if err := checkCtx(ctx, "create profile"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.Status == "" {
		profile.Status = domain.ProfileStatusPending
	}
	profile.CreatedAt = stamp(profile.CreatedAt, r.db.now)
	profile.UpdatedAt = profile.CreatedAt

	cp := *profile
	r.db.profiles[profile.UserID] = &cp
	return nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	if err := checkCtx(ctx, "get profile"); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *profileRepository) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*domain.Profile, error) {
	if err := checkCtx(ctx, "get profiles"); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var out []*domain.Profile
	for _, id := range userIDs {
		if p, ok := r.db.profiles[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortProfiles(out)
	return out, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	if err := checkCtx(ctx, "update profile"); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.profiles[profile.UserID]; !ok {
		return domain.ErrProfileNotFound
	}
	profile.UpdatedAt = r.db.now()
	cp := *profile
	r.db.profiles[profile.UserID] = &cp
	return nil
}

func (r *profileRepository) ListApproved(ctx context.Context, filter repository.ProfileFilter) ([]*domain.Profile, error) {
	if err := checkCtx(ctx, "list profiles"); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	excluded := make(map[uuid.UUID]struct{}, len(filter.ExcludeUserIDs))
	for _, id := range filter.ExcludeUserIDs {
		excluded[id] = struct{}{}
	}

	var all []*domain.Profile
	for _, p := range r.db.profiles {
		if !p.IsApproved() {
			continue
		}
		if _, skip := excluded[p.UserID]; skip {
			continue
		}
		cp := *p
		all = append(all, &cp)
	}
	sortProfiles(all)

	if filter.Offset >= len(all) {
		return nil, nil
	}
	all = all[filter.Offset:]
	if filter.Limit > 0 && len(all) > filter.Limit {
		all = all[:filter.Limit]
	}
	return all, nil
}

func sortProfiles(ps []*domain.Profile) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.Before(ps[j].CreatedAt)
		}
		return ps[i].UserID.String() < ps[j].UserID.String()
	})
}

package discovery

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/gdugdh24/kindred-backend/internal/repository"
	"github.com/gdugdh24/kindred-backend/pkg/geo"
	"github.com/google/uuid"
)

const maxLimit = 100

// Options tunes the pool. Zero values fall back to package defaults.
type Options struct {
	DefaultRadiusKm float64
	MaxRadiusKm     float64
	PageSize        int
	DefaultLimit    int
	Timeout         time.Duration
}

func (o Options) withDefaults() Options {
	if o.DefaultRadiusKm <= 0 {
		o.DefaultRadiusKm = 30
	}
	if o.MaxRadiusKm < o.DefaultRadiusKm {
		o.MaxRadiusKm = o.DefaultRadiusKm
	}
	if o.PageSize <= 0 {
		o.PageSize = 50
	}
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = 20
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	return o
}

// Candidate is a profile the viewer may swipe on.
type Candidate struct {
	Profile         *domain.Profile `json:"profile"`
	DistanceKm      float64         `json:"distance_km"`
	Age             *int            `json:"age"`
	LocationDisplay string          `json:"location_display"`
	Interests       []string        `json:"interests"`
}

type CandidatePool struct {
	profileRepo    repository.ProfileRepository
	likeRepo       repository.LikeRepository
	passRepo       repository.PassRepository
	friendshipRepo repository.FriendshipRepository
	blockRepo      repository.BlockRepository
	opts           Options
	logger         *slog.Logger
	now            func() time.Time
}

func NewCandidatePool(store repository.Store, opts Options, logger *slog.Logger) *CandidatePool {
	return &CandidatePool{
		profileRepo:    store.Profiles,
		likeRepo:       store.Likes,
		passRepo:       store.Passes,
		friendshipRepo: store.Friendships,
		blockRepo:      store.Blocks,
		opts:           opts.withDefaults(),
		logger:         logger,
		now:            time.Now,
	}
}

// ResolveRadius applies the default to non-positive values and caps at the maximum.
func (p *CandidatePool) ResolveRadius(radiusKm float64) float64 {
	if radiusKm <= 0 {
		return p.opts.DefaultRadiusKm
	}
	if radiusKm > p.opts.MaxRadiusKm {
		return p.opts.MaxRadiusKm
	}
	return radiusKm
}

func (p *CandidatePool) resolveLimit(limit int) int {
	if limit <= 0 {
		return p.opts.DefaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// GetCandidates returns approved profiles within radiusKm of the viewer that the
// viewer has not liked, passed, befriended or blocked (in either direction).
// Results are ordered by profile creation time, then user id. It never writes.
func (p *CandidatePool) GetCandidates(ctx context.Context, viewerID uuid.UUID, radiusKm float64, limit int) ([]*Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	viewer, err := p.profileRepo.GetByUserID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if !viewer.IsApproved() {
		return nil, domain.ErrProfileNotApproved
	}

	radiusKm = p.ResolveRadius(radiusKm)
	limit = p.resolveLimit(limit)

	excludedSet, err := p.exclusions(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	excluded := make([]uuid.UUID, 0, len(excludedSet))
	for id := range excludedSet {
		excluded = append(excluded, id)
	}

	origin := viewer.Location()
	now := p.now()
	candidates := make([]*Candidate, 0, limit)

	for offset := 0; len(candidates) < limit; {
		page, err := p.profileRepo.ListApproved(ctx, repository.ProfileFilter{
			ExcludeUserIDs: excluded,
			Limit:          p.opts.PageSize,
			Offset:         offset,
		})
		if err != nil {
			return nil, err
		}

		for _, profile := range page {
			// The store applies ExcludeUserIDs as well.
			if _, skip := excludedSet[profile.UserID]; skip || !profile.IsApproved() {
				continue
			}
			loc := profile.Location()
			if !geo.WithinRadius(loc, origin, radiusKm) {
				continue
			}
			candidates = append(candidates, &Candidate{
				Profile:         profile,
				DistanceKm:      geo.Distance(origin, loc),
				Age:             profile.Age(now),
				LocationDisplay: profile.LocationDisplay(),
				Interests:       profile.InterestList(),
			})
			if len(candidates) == limit {
				break
			}
		}

		if len(page) < p.opts.PageSize {
			break
		}
		offset += len(page)
	}

	p.logger.Debug("candidates resolved",
		"viewer_id", viewerID, "radius_km", radiusKm, "count", len(candidates), "excluded", len(excluded))
	return candidates, nil
}

func (p *CandidatePool) exclusions(ctx context.Context, viewerID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	set := map[uuid.UUID]struct{}{viewerID: {}}

	sources := []func(context.Context, uuid.UUID) ([]uuid.UUID, error){
		p.likeRepo.LikedUserIDs,
		p.passRepo.PassedUserIDs,
		p.friendshipRepo.FriendIDs,
		p.blockRepo.RelatedIDs,
	}
	for _, source := range sources {
		ids, err := source(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			set[id] = struct{}{}
		}
	}
	return set, nil
}

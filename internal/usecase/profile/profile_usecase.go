package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/gdugdh24/kindred-backend/internal/repository"
	"github.com/gdugdh24/kindred-backend/pkg/geo"
	"github.com/google/uuid"
)

type ProfileUseCase struct {
	profileRepo    repository.ProfileRepository
	friendshipRepo repository.FriendshipRepository
	blockRepo      repository.BlockRepository
	timeout        time.Duration
	now            func() time.Time
}

func NewProfileUseCase(store repository.Store, timeout time.Duration) *ProfileUseCase {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ProfileUseCase{
		profileRepo:    store.Profiles,
		friendshipRepo: store.Friendships,
		blockRepo:      store.Blocks,
		timeout:        timeout,
		now:            time.Now,
	}
}

// CreateProfileRequest represents profile creation request
type CreateProfileRequest struct {
	DisplayName string     `json:"display_name" binding:"required,min=2,max=100"`
	Bio         *string    `json:"bio" binding:"omitempty,max=500"`
	City        *string    `json:"city" binding:"omitempty,max=100"`
	District    *string    `json:"district" binding:"omitempty,max=100"`
	Country     *string    `json:"country" binding:"omitempty,max=100"`
	Latitude    *float64   `json:"latitude" binding:"omitempty,latitude"`
	Longitude   *float64   `json:"longitude" binding:"omitempty,longitude"`
	BirthDate   *time.Time `json:"birth_date" binding:"omitempty,adult"`
	Interests   []string   `json:"interests" binding:"omitempty,max=10,dive,min=1,max=40"`
}

// UpdateProfileRequest represents profile update request. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	DisplayName    *string   `json:"display_name" binding:"omitempty,min=2,max=100"`
	Bio            *string   `json:"bio" binding:"omitempty,max=500"`
	AvatarURL      *string   `json:"avatar_url" binding:"omitempty,url,max=500"`
	City           *string   `json:"city" binding:"omitempty,max=100"`
	District       *string   `json:"district" binding:"omitempty,max=100"`
	Country        *string   `json:"country" binding:"omitempty,max=100"`
	Latitude       *float64  `json:"latitude" binding:"omitempty,latitude"`
	Longitude      *float64  `json:"longitude" binding:"omitempty,longitude"`
	Interests      *[]string `json:"interests" binding:"omitempty,max=10,dive,min=1,max=40"`
	ProfileVisible *bool     `json:"profile_visible"`
}

// ProfileResponse represents another user's profile as seen by the viewer
type ProfileResponse struct {
	*domain.Profile
	Age             *int     `json:"age,omitempty"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
	LocationDisplay string   `json:"location_display"`
	InterestList    []string `json:"interest_list"`
	IsFriend        bool     `json:"is_friend"`
}

// GetMyProfile returns current user's profile
func (uc *ProfileUseCase) GetMyProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.response(profile, nil, false), nil
}

// CreateProfile creates the caller's profile in pending status.
func (uc *ProfileUseCase) CreateProfile(ctx context.Context, userID uuid.UUID, req *CreateProfileRequest) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, domain.ErrInvalidLocation
	}

	_, err := uc.profileRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		return nil, domain.ErrProfileAlreadyExists
	case !errors.Is(err, domain.ErrProfileNotFound):
		return nil, err
	}

	profile := &domain.Profile{
		ID:             uuid.New(),
		UserID:         userID,
		DisplayName:    strings.TrimSpace(req.DisplayName),
		Bio:            req.Bio,
		City:           req.City,
		District:       req.District,
		Country:        req.Country,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		BirthDate:      req.BirthDate,
		Interests:      joinInterests(req.Interests),
		ProfileVisible: true,
		Status:         domain.ProfileStatusPending,
	}

	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile updates user profile
func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, domain.ErrInvalidLocation
	}

	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Update fields if provided
	if req.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}
	if req.City != nil {
		profile.City = req.City
	}
	if req.District != nil {
		profile.District = req.District
	}
	if req.Country != nil {
		profile.Country = req.Country
	}
	if req.Latitude != nil {
		profile.Latitude = req.Latitude
		profile.Longitude = req.Longitude
	}
	if req.Interests != nil {
		profile.Interests = joinInterests(*req.Interests)
	}
	if req.ProfileVisible != nil {
		profile.ProfileVisible = *req.ProfileVisible
	}

	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfileByUserID returns the target's profile with age and distance from the viewer.
// Hidden profiles are only shown to their owner and friends; blocked or
// unapproved profiles read as not found.
func (uc *ProfileUseCase) GetProfileByUserID(ctx context.Context, targetUserID, viewerID uuid.UUID) (*ProfileResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	profile, err := uc.profileRepo.GetByUserID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if targetUserID == viewerID {
		return uc.response(profile, nil, false), nil
	}
	if !profile.IsApproved() {
		return nil, domain.ErrProfileNotFound
	}

	blocked, err := uc.blockRepo.IsBlockedEitherWay(ctx, viewerID, targetUserID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, domain.ErrProfileNotFound
	}

	friend, err := uc.friendshipRepo.Exists(ctx, viewerID, targetUserID)
	if err != nil {
		return nil, err
	}
	if !profile.ProfileVisible && !friend {
		return nil, domain.ErrProfileHidden
	}

	viewer, err := uc.profileRepo.GetByUserID(ctx, viewerID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}
	return uc.response(profile, viewer, friend), nil
}

func (uc *ProfileUseCase) response(profile, viewer *domain.Profile, friend bool) *ProfileResponse {
	resp := &ProfileResponse{
		Profile:         profile,
		Age:             profile.Age(uc.now()),
		LocationDisplay: profile.LocationDisplay(),
		InterestList:    profile.InterestList(),
		IsFriend:        friend,
	}
	if viewer != nil {
		distance := geo.Distance(viewer.Location(), profile.Location())
		resp.DistanceKm = &distance
	}
	return resp
}

func joinInterests(interests []string) *string {
	cleaned := make([]string, 0, len(interests))
	for _, s := range interests {
		if s = strings.TrimSpace(s); s != "" && !strings.Contains(s, ",") {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	joined := strings.Join(cleaned, ",")
	return &joined
}

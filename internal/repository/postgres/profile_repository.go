package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/kindred-backend/internal/domain"
	"github.com/gdugdh24/kindred-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const profileColumns = `
	id, user_id, full_name, bio, avatar_url, profile_photos,
	city, district, country, latitude, longitude, birth_date, interests,
	profile_visible, status, created_at, updated_at
`

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.Status == "" {
		profile.Status = domain.ProfileStatusPending
	}

	query := `
		INSERT INTO profiles (
			id, user_id, full_name, bio, avatar_url, profile_photos,
			city, district, country, latitude, longitude, birth_date, interests,
			profile_visible, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		profile.ID, profile.UserID, profile.DisplayName, profile.Bio, profile.AvatarURL, profile.Photos,
		profile.City, profile.District, profile.Country, profile.Latitude, profile.Longitude,
		profile.BirthDate, profile.Interests, profile.ProfileVisible, profile.Status,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	return domain.NewStoreError("create profile", err)
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, domain.NewStoreError("get profile", err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*domain.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var profiles []*domain.Profile
	query := `
		SELECT ` + profileColumns + ` FROM profiles
		WHERE user_id = ANY($1::uuid[])
		ORDER BY created_at ASC, user_id ASC
	`
	err := r.db.SelectContext(ctx, &profiles, query, pq.Array(uuidStrings(userIDs)))
	return profiles, domain.NewStoreError("get profiles", err)
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET full_name = $1, bio = $2, avatar_url = $3, profile_photos = $4,
		    city = $5, district = $6, country = $7,
		    latitude = $8, longitude = $9, birth_date = $10, interests = $11,
		    profile_visible = $12,
		    updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $13
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		profile.DisplayName, profile.Bio, profile.AvatarURL, profile.Photos,
		profile.City, profile.District, profile.Country,
		profile.Latitude, profile.Longitude, profile.BirthDate, profile.Interests,
		profile.ProfileVisible,
		profile.UserID,
	).Scan(&profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProfileNotFound
	}
	return domain.NewStoreError("update profile", err)
}

func (r *profileRepository) ListApproved(ctx context.Context, filter repository.ProfileFilter) ([]*domain.Profile, error) {
	var profiles []*domain.Profile

	query := `
		SELECT ` + profileColumns + ` FROM profiles
		WHERE status = $1 AND NOT (user_id = ANY($2::uuid[]))
		ORDER BY created_at ASC, user_id ASC
		LIMIT $3 OFFSET $4
	`
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	err := r.db.SelectContext(ctx, &profiles, query,
		domain.ProfileStatusApproved, pq.Array(uuidStrings(filter.ExcludeUserIDs)), limit, filter.Offset,
	)
	return profiles, domain.NewStoreError("list profiles", err)
}

package domain

import (
	"time"

	"github.com/gdugdh24/kindred-backend/pkg/geo"
	"github.com/google/uuid"
)

// ProfileCard is the public view of another user's profile.
type ProfileCard struct {
	UserID          uuid.UUID `json:"user_id"`
	DisplayName     string    `json:"display_name"`
	Bio             *string   `json:"bio"`
	AvatarURL       *string   `json:"avatar_url"`
	Photos          []string  `json:"profile_photos"`
	Age             *int      `json:"age"`
	DistanceKm      float64   `json:"distance_km"`
	LocationDisplay string    `json:"location_display"`
	Interests       []string  `json:"interests"`
}

// NewProfileCard renders p as seen from origin at time now.
func NewProfileCard(p *Profile, origin geo.Point, now time.Time) *ProfileCard {
	return &ProfileCard{
		UserID:          p.UserID,
		DisplayName:     p.DisplayName,
		Bio:             p.Bio,
		AvatarURL:       p.AvatarURL,
		Photos:          p.Photos,
		Age:             p.Age(now),
		DistanceKm:      geo.Distance(origin, p.Location()),
		LocationDisplay: p.LocationDisplay(),
		Interests:       p.InterestList(),
	}
}

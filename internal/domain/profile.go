package domain

import (
	"strings"
	"time"

	"github.com/gdugdh24/kindred-backend/pkg/geo"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProfileStatus string

const (
	ProfileStatusPending  ProfileStatus = "pending"
	ProfileStatusApproved ProfileStatus = "approved"
	ProfileStatusRejected ProfileStatus = "rejected"
)

type Profile struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	UserID         uuid.UUID      `json:"user_id" db:"user_id"`
	DisplayName    string         `json:"display_name" db:"full_name"`
	Bio            *string        `json:"bio" db:"bio"`
	AvatarURL      *string        `json:"avatar_url" db:"avatar_url"`
	Photos         pq.StringArray `json:"profile_photos" db:"profile_photos"`
	City           *string        `json:"city" db:"city"`
	District       *string        `json:"district" db:"district"`
	Country        *string        `json:"country" db:"country"`
	Latitude       *float64       `json:"latitude" db:"latitude"`
	Longitude      *float64       `json:"longitude" db:"longitude"`
	BirthDate      *time.Time     `json:"birth_date" db:"birth_date"`
	Interests      *string        `json:"interests" db:"interests"`
	ProfileVisible bool           `json:"profile_visible" db:"profile_visible"`
	Status         ProfileStatus  `json:"status" db:"status"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

func (p *Profile) IsApproved() bool {
	return p.Status == ProfileStatusApproved
}

// Location returns the profile coordinates, falling back to geo.DefaultPoint.
func (p *Profile) Location() geo.Point {
	return geo.PointOrDefault(p.Latitude, p.Longitude)
}

// Age returns the age in full years at now, or nil when no birth date is set.
func (p *Profile) Age(now time.Time) *int {
	if p.BirthDate == nil {
		return nil
	}
	b := p.BirthDate.UTC()
	n := now.UTC()
	age := n.Year() - b.Year()
	if n.Month() < b.Month() || (n.Month() == b.Month() && n.Day() < b.Day()) {
		age--
	}
	return &age
}

// InterestList splits the comma-delimited interests column.
func (p *Profile) InterestList() []string {
	if p.Interests == nil {
		return nil
	}
	var out []string
	for _, s := range strings.Split(*p.Interests, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// LocationDisplay formats the location as "District, City" or "City, Country".
func (p *Profile) LocationDisplay() string {
	district, city, country := deref(p.District), deref(p.City), deref(p.Country)
	switch {
	case district != "" && city != "":
		return district + ", " + city
	case district != "":
		return district
	case city != "" && country != "":
		return city + ", " + country
	case city != "":
		return city
	default:
		return country
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

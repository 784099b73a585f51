package domain

import "time"

type PrivacyPreference struct {
	UserID          int       `json:"user_id" db:"user_id"`
	LocationEnabled bool      `json:"location_enabled" db:"location_enabled"`
	Paused          bool      `json:"paused" db:"paused"`
	HideDistance    bool      `json:"hide_distance" db:"hide_distance"`
	VerifiedOnlyMap bool      `json:"verified_only_map" db:"verified_only_map"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// NewPrivacyPreference returns the conservative defaults a user starts with.
func NewPrivacyPreference(userID int, now time.Time) *PrivacyPreference {
	return &PrivacyPreference{
		UserID:          userID,
		LocationEnabled: false,
		UpdatedAt:       now,
	}
}

// SharesLocation reports whether the user's location may be used at all.
func (p *PrivacyPreference) SharesLocation() bool {
	return p.LocationEnabled && !p.Paused
}

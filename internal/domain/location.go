package domain

import "time"

// LocationRecord is a user's current coarse location. One row per user,
// overwritten on every accepted update.
type LocationRecord struct {
	UserID         int       `json:"user_id" db:"user_id"`
	GridToken      string    `json:"grid_token" db:"grid_token"`
	ResolvedAreaID int       `json:"resolved_area_id" db:"resolved_area_id"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
	ExpiresAt      time.Time `json:"expires_at" db:"expires_at"`
}

func (r *LocationRecord) IsExpired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// DeclineReason explains why a request was refused without a fault.
type DeclineReason string

const (
	DeclineLocationDisabled DeclineReason = "location sharing disabled"
	DeclineTooFrequent      DeclineReason = "update too frequent"
	DeclineAreaUnresolved   DeclineReason = "could not determine area"
)

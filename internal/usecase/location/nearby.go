package location

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/gdugdh24/proximity-backend/internal/domain"
	"github.com/gdugdh24/proximity-backend/internal/geo"
)

const DefaultRadiusKm = 5.0

// NearbyRequest holds the optional search filters.
type NearbyRequest struct {
	RadiusKm float64        `form:"radius_km" binding:"omitempty,min=0.5,max=50"`
	AgeMin   *int           `form:"age_min" binding:"omitempty,min=18,max=100"`
	AgeMax   *int           `form:"age_max" binding:"omitempty,min=18,max=100"`
	Gender   *domain.Gender `form:"gender" binding:"omitempty,oneof=male female"`
}

func (r *NearbyRequest) hasProfileFilter() bool {
	return r.AgeMin != nil || r.AgeMax != nil || r.Gender != nil
}

// NearbyUser never carries a real distance, only a coarse label. Distance
// is empty when the other user hides it.
type NearbyUser struct {
	UserID   int    `json:"user_id"`
	Distance string `json:"distance,omitempty"`
}

// FuzzyDistance turns an approximate distance into a coarse label.
func FuzzyDistance(km float64) string {
	switch {
	case km < 0.5:
		return "near you"
	case km < 2:
		return "1 km"
	case km < 5:
		return "3 km"
	case km < 10:
		return "5 km"
	default:
		return fmt.Sprintf("%d km", int(math.Round(km)))
	}
}

// GetNearbyUsers lists users whose stored cell is close to the caller's.
// Distances are measured between cell centers, never between real points.
func (uc *LocationUseCase) GetNearbyUsers(ctx context.Context, userID int, req *NearbyRequest) ([]NearbyUser, error) {
	if req.AgeMin != nil && req.AgeMax != nil && *req.AgeMin > *req.AgeMax {
		return nil, fmt.Errorf("age_min exceeds age_max: %w", domain.ErrInvalidInput)
	}
	radius := req.RadiusKm
	if radius <= 0 {
		radius = DefaultRadiusKm
	}

	pref, err := uc.privacyRepo.GetOrCreate(ctx, userID, uc.now())
	if err != nil {
		return nil, domain.Unavailable("get privacy preference", err)
	}
	if !pref.SharesLocation() {
		return []NearbyUser{}, nil
	}

	token, ok, err := uc.CurrentToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []NearbyUser{}, nil
	}

	prefixes := []string{geo.Prefix(token, uc.cfg.LedgerPrecision)}
	if radius > geo.CellWidthKm(uc.cfg.LedgerPrecision) {
		prefixes = geo.Neighbors(prefixes[0])
	}

	now := uc.now()
	candidates, err := uc.locationRepo.ListByTokenPrefixes(ctx, prefixes, now)
	if err != nil {
		return nil, domain.Unavailable("list locations", err)
	}

	type scored struct {
		NearbyUser
		km float64
	}
	found := make([]scored, 0, len(candidates))
	for _, cand := range candidates {
		if cand.UserID == userID || cand.IsExpired(now) {
			continue
		}
		km := geo.TokenDistanceKm(token, cand.GridToken)
		if km > radius {
			continue
		}

		candPref, err := uc.privacyRepo.GetByUserID(ctx, cand.UserID)
		if err != nil {
			if !errors.Is(err, domain.ErrPrivacyNotFound) {
				uc.log.Debug("skipping candidate", "candidate_id", cand.UserID, "error", err)
			}
			continue
		}
		if !candPref.SharesLocation() {
			continue
		}
		if req.hasProfileFilter() && !uc.matchesProfile(ctx, cand.UserID, req) {
			continue
		}

		nu := NearbyUser{UserID: cand.UserID}
		if !candPref.HideDistance {
			nu.Distance = FuzzyDistance(km)
		}
		found = append(found, scored{NearbyUser: nu, km: km})
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].km != found[j].km {
			return found[i].km < found[j].km
		}
		return found[i].UserID < found[j].UserID
	})

	out := make([]NearbyUser, len(found))
	for i := range found {
		out[i] = found[i].NearbyUser
	}
	return out, nil
}

// matchesProfile applies the age and gender filters. A profile that cannot
// be loaded never matches.
func (uc *LocationUseCase) matchesProfile(ctx context.Context, candidateID int, req *NearbyRequest) bool {
	if uc.userRepo == nil {
		return false
	}
	u, err := uc.userRepo.GetByID(ctx, candidateID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			uc.log.Debug("profile lookup failed", "candidate_id", candidateID, "error", err)
		}
		return false
	}
	if req.Gender != nil && u.Gender != *req.Gender {
		return false
	}
	if req.AgeMin != nil || req.AgeMax != nil {
		if u.BirthDate.IsZero() {
			return false
		}
		age := u.AgeAt(uc.now())
		if req.AgeMin != nil && age < *req.AgeMin {
			return false
		}
		if req.AgeMax != nil && age > *req.AgeMax {
			return false
		}
	}
	return true
}

package domain

import "time"

// CrossedPath records that two users were in the same cell within the
// crossing window. The pair is stored with UserLowID < UserHighID.
type CrossedPath struct {
	ID         int       `json:"id" db:"id"`
	UserLowID  int       `json:"user_low_id" db:"user_low_id"`
	UserHighID int       `json:"user_high_id" db:"user_high_id"`
	GridToken  string    `json:"grid_token" db:"grid_token"`
	AreaID     int       `json:"area_id" db:"area_id"`
	CrossedAt  time.Time `json:"crossed_at" db:"crossed_at"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
}

// CanonicalPair orders two user ids low first.
func CanonicalPair(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

func (c *CrossedPath) HasUser(userID int) bool {
	return c.UserLowID == userID || c.UserHighID == userID
}

func (c *CrossedPath) OtherUserID(userID int) (int, bool) {
	if c.UserLowID == userID {
		return c.UserHighID, true
	}
	if c.UserHighID == userID {
		return c.UserLowID, true
	}
	return 0, false
}

func (c *CrossedPath) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

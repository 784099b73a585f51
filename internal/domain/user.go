package domain

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// User carries the profile facts used for filtering nearby results.
type User struct {
	ID         int       `json:"id" db:"id"`
	Gender     Gender    `json:"gender" db:"gender"`
	BirthDate  time.Time `json:"birth_date" db:"birth_date"`
	IsVerified bool      `json:"is_verified" db:"is_verified"`
}

// AgeAt returns the user's age in whole years at now.
func (u *User) AgeAt(now time.Time) int {
	years := now.Year() - u.BirthDate.Year()
	if now.Month() < u.BirthDate.Month() ||
		(now.Month() == u.BirthDate.Month() && now.Day() < u.BirthDate.Day()) {
		years--
	}
	return years
}

package domain

import "errors"

var (
	ErrLocationNotFound    = errors.New("location not found")
	ErrPrivacyNotFound     = errors.New("privacy preference not found")
	ErrCrossedPathNotFound = errors.New("crossed path not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrAreaNotFound        = errors.New("area not found")
	ErrCacheMiss           = errors.New("cache miss")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidToken        = errors.New("invalid token")

	// ErrUnavailable marks store or cache failures. Callers see it as one
	// generic failure category.
	ErrUnavailable = errors.New("service unavailable")
)

type unavailableError struct {
	op  string
	err error
}

func (e *unavailableError) Error() string {
	return e.op + ": " + ErrUnavailable.Error() + ": " + e.err.Error()
}

func (e *unavailableError) Unwrap() []error {
	return []error{ErrUnavailable, e.err}
}

// Unavailable tags an infrastructure failure during op. The result matches
// both ErrUnavailable and err under errors.Is.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &unavailableError{op: op, err: err}
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateAttempt is returned when an identity answers the same day
	// index twice. The first attempt stands; the gate is not retriable.
	ErrDuplicateAttempt = errors.New("already answered from this address today")
	// ErrInvalidOTP indicates no matching code exists for the email.
	ErrInvalidOTP = errors.New("invalid otp")
	// ErrInvalidToken indicates a missing, malformed or expired auth token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUserNotFound indicates the token's subject no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrPostNotFound indicates a comment referenced an unknown post.
	ErrPostNotFound = errors.New("post not found")
)

// ValidationError marks a request missing or malforming a required field.
// It carries no side effects: the document is untouched when it is returned.
type ValidationError struct {
	Field string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s required", e.Field)
}

// IsClientError reports whether err should surface as a 4xx rather than a
// storage failure.
func IsClientError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrDuplicateAttempt) ||
		errors.Is(err, ErrInvalidOTP) ||
		errors.Is(err, ErrPostNotFound)
}

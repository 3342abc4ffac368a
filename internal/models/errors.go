package models

import "errors"

var (
	// ErrValidation marks input that was rejected before any state changed.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound marks an unknown learner or course id.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists marks a registration for an id that is taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidCredentials marks a failed password check.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRateLimited marks a login attempt refused by the throttle.
	ErrRateLimited = errors.New("too many attempts")

	// ErrRatingsNotSaved marks a rating that reached the learner record but
	// not the course rating record. Rating again would count it twice.
	ErrRatingsNotSaved = errors.New("course ratings not saved")
)

package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrJobNotFound          = errors.New("job not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmployerNotFound     = errors.New("employer not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrBookmarkNotFound     = errors.New("bookmark not found")

	// ErrApplicationNotEditable is returned when a guarded update finds the
	// application no longer pending.
	ErrApplicationNotEditable = errors.New("application is not pending")

	ErrAlreadyBookmarked = errors.New("job already bookmarked")
	// ErrDuplicateActiveApplication is returned when the partial unique index
	// on active applications rejects an insert.
	ErrDuplicateActiveApplication = errors.New("active application already exists")
)

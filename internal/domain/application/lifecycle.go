// Package application holds the lifecycle rules of a job application.
package application

import (
	"errors"
	"fmt"

	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
)

var (
	// ErrAlreadyWithdrawn is returned when withdrawing an application twice.
	ErrAlreadyWithdrawn = errors.New("already withdrawn")
	// ErrFinalized is returned for applicant actions on an accepted or rejected application.
	ErrFinalized = errors.New("application has been finalized")
	// ErrNotEditable is returned when updating an application that is no longer pending.
	ErrNotEditable = errors.New("application can no longer be edited")
	// ErrInvalidTransition is returned for employer moves the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// employerTransitions lists the statuses an employer may move an application to.
var employerTransitions = map[model.ApplicationStatus][]model.ApplicationStatus{
	model.ApplicationStatusPending: {
		model.ApplicationStatusReviewed,
		model.ApplicationStatusShortlisted,
		model.ApplicationStatusRejected,
		model.ApplicationStatusAccepted,
	},
	model.ApplicationStatusReviewed: {
		model.ApplicationStatusShortlisted,
		model.ApplicationStatusRejected,
		model.ApplicationStatusAccepted,
	},
	model.ApplicationStatusShortlisted: {
		model.ApplicationStatusRejected,
		model.ApplicationStatusAccepted,
	},
}

// CanTransition reports whether an employer may move an application from one status to another.
func CanTransition(from, to model.ApplicationStatus) bool {
	for _, s := range employerTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckWithdraw validates an applicant-initiated withdrawal from status.
func CheckWithdraw(status model.ApplicationStatus) error {
	switch {
	case status == model.ApplicationStatusWithdrawn:
		return ErrAlreadyWithdrawn
	case status.IsTerminal():
		return fmt.Errorf("%w: cannot withdraw an application that was %s", ErrFinalized, status)
	case !status.IsActive():
		return fmt.Errorf("%w: cannot withdraw a %s application", ErrInvalidTransition, status)
	default:
		return nil
	}
}

// CheckUpdate validates an applicant edit of an application in status.
func CheckUpdate(status model.ApplicationStatus) error {
	switch {
	case status == model.ApplicationStatusPending:
		return nil
	case status.IsTerminal():
		return fmt.Errorf("%w: cannot update an application that was %s", ErrFinalized, status)
	default:
		return fmt.Errorf("%w: only pending applications can be updated (current status: %s)", ErrNotEditable, status)
	}
}

// CheckEmployerTransition validates an employer status change.
func CheckEmployerTransition(from, to model.ApplicationStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if CanTransition(from, to) {
		return nil
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: application was already %s", ErrFinalized, from)
	}
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
}

package service

import "errors"

var (
	ErrPermissionDenied     = errors.New("permission denied")
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrNoOpTransition       = errors.New("status unchanged")
	ErrTransitionNotAllowed = errors.New("transition not allowed")
	ErrMissingEvidence      = errors.New("resolution note and proof are required")
	ErrVerificationRejected = errors.New("closure verification rejected")
	ErrServiceUnavailable   = errors.New("service unavailable")
)

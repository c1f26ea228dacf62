package service

import "errors"

var (
	// ErrMalformedComplaint is returned when a complaint lacks the fields needed to route it
	ErrMalformedComplaint = errors.New("malformed complaint")
	// ErrInvalidDepartment is returned when department input fails validation
	ErrInvalidDepartment = errors.New("invalid department")
	// ErrInvalidStatus is returned for an unknown application status
	ErrInvalidStatus = errors.New("invalid application status")
	// ErrInvalidTransition is returned when a decided application is moved back to pending
	ErrInvalidTransition = errors.New("invalid status transition")
)

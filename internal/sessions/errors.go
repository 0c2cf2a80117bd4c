package sessions

import "errors"

var (
	ErrNotFound = errors.New("session not found")
	// ErrBusy is returned when an analysis is already in flight for the session.
	ErrBusy = errors.New("analysis already in progress")
	// ErrNotApplicable is returned for events the current stage does not accept.
	ErrNotApplicable = errors.New("event not applicable in current stage")
	// ErrRejected is returned when input validation recorded a LastError.
	ErrRejected = errors.New("input rejected")
)

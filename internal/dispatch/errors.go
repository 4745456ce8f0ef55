package dispatch

import "errors"

// ErrMalformed marks input whose shape is wrong for its command.
var ErrMalformed = errors.New("malformed command")

// ValidationError reports input outside the closed sets or with bad syntax.
// It is recovered at the command boundary and never mutates state.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

// LookupError reports an identifier missing from the encyclopedia.
type LookupError struct {
	Message string
	IDs     []string
}

func (e *LookupError) Error() string { return e.Message }

// PersistError wraps a storage failure. Unlike the other errors it is
// returned from Execute so the caller can decide whether to end the session.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string { return "persisting encyclopedia: " + e.Err.Error() }

func (e *PersistError) Unwrap() error { return e.Err }

package clinic

import (
	"errors"
	"fmt"
)

// The store surfaces exactly three error categories. Callers are
// expected to present them and allow a manual retry; nothing here is
// retried or swallowed internally.

// ValidationError reports a required or malformed input field
// detected during normalization, before any exchange with the
// backing store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation addressed to an identifier that
// does not exist in the backing collection.
type NotFoundError struct {
	Kind Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// CommunicationError reports a remote exchange that could not
// complete, or completed with a non-success status. Body carries the
// raw response text when one was received.
type CommunicationError struct {
	Status int    // HTTP status, 0 when the exchange never completed
	Body   string // raw response body text
	Err    error  // transport error, if any
}

func (e *CommunicationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote exchange failed: %v", e.Err)
	}
	return fmt.Sprintf("remote returned status %d: %s", e.Status, e.Body)
}

func (e *CommunicationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsCommunication reports whether err is (or wraps) a CommunicationError.
func IsCommunication(err error) bool {
	var ce *CommunicationError
	return errors.As(err, &ce)
}

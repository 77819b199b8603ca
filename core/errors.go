package core

import "github.com/pkg/errors"

// FieldError reports a validation failure on one named field of a request
// payload.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a business-rule rejection of a request payload,
// optionally broken down per field. The HTTP layer renders it as a 400.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, fields ...FieldError) error {
	return &ValidationError{Err: err, Fields: fields}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

// shutdown marks an error the service cannot recover from.
type shutdown struct {
	message string
}

// NewShutdownError returns an error that signals the server to stop
// gracefully; the HTTP error handler watches for it.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

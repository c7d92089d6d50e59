package apperror

import "fmt"

type AppError struct {
	Code       string // Error code (e.g., INVALID_INPUT)
	Message    string // User-friendly message
	HTTPStatus int    // HTTP status code
	Details    any    // Extra payload rendered under error.details
	Err        error  // Wrapped original error (optional)

	// root is the sentinel this error was derived from.
	root *AppError
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements errors.Unwrap interface for errors.Is/As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets copies made by WithMessage, WithDetails and WithCause match the
// sentinel they were derived from.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.origin() == t.origin()
}

func (e *AppError) origin() *AppError {
	if e.root != nil {
		return e.root
	}
	return e
}

func (e *AppError) derive() *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		HTTPStatus: e.HTTPStatus,
		Details:    e.Details,
		Err:        e.Err,
		root:       e.origin(),
	}
}

// New creates a new AppError without wrapping
func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        nil,
	}
}

// Wrap creates an AppError that wraps an existing error
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// WithMessage returns a copy carrying a different user-facing message.
func (e *AppError) WithMessage(message string) *AppError {
	c := e.derive()
	c.Message = message
	return c
}

// WithDetails returns a copy with details attached.
func (e *AppError) WithDetails(details any) *AppError {
	c := e.derive()
	c.Details = details
	return c
}

// WithCause returns a copy wrapping err; the message shown to clients is unchanged.
func (e *AppError) WithCause(err error) *AppError {
	c := e.derive()
	c.Err = err
	return c
}

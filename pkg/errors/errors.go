package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Codes attached to ErrInvalidInput when a record is refused at ingestion.
const (
	CodeMissingImage     = "missing_image"
	CodeInvalidTimestamp = "invalid_timestamp"
	CodeMissingPlatform  = "missing_platform"
)

// Error carries a machine-readable code next to the message.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns nil when err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Message: message, Err: err}
}

func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// Invalid builds an ErrInvalidInput with the given code.
func Invalid(code, format string, args ...any) error {
	return WrapWithCode(ErrInvalidInput, code, fmt.Sprintf(format, args...))
}

// GetCode returns the code of the first *Error in the chain, or "".
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

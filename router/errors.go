package router

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches every *ConfigurationError through errors.Is.
var ErrConfiguration = errors.New("invalid router configuration")

// ConfigurationError is returned by New for invalid construction arguments.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := e.Field + ": " + e.Reason
	if e.Err != nil {
		if e.Reason == "" {
			msg = e.Field + ": " + e.Err.Error()
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	return msg
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// UnsupportedPathError is returned by Handle when the method and the number of
// path segments match none of the supported operations.
type UnsupportedPathError struct {
	Method string
	Path   string
}

func (e *UnsupportedPathError) Error() string {
	return fmt.Sprintf("path not supported: %s %s", e.Method, e.Path)
}

// ErrorCode is the machine-readable code of an error response.
type ErrorCode string

const (
	ErrorCodeNotFound         ErrorCode = "ERROR_NOT_FOUND"
	ErrorCodeBadRequest       ErrorCode = "ERROR_BAD_REQUEST"
	ErrorCodeValidationFailed ErrorCode = "ERROR_VALIDATION_FAILED"
	ErrorCodeRateLimited      ErrorCode = "ERROR_RATE_LIMITED"
	ErrorCodeInternal         ErrorCode = "ERROR_INTERNAL"
)

// ErrorDetails defines the structured error information in a response.
type ErrorDetails struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

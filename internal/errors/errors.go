package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable error type mapped to HTTP status classes.
type Code int

const (
	CodeInternal         Code = 1
	CodeUsage            Code = 2
	CodeInvalidAddress   Code = 3
	CodeUnknownPool      Code = 4
	CodeUnknownTask      Code = 5
	CodeMissingParameter Code = 6
	CodeUnavailable      Code = 7
	CodeNotFound         Code = 8
)

// Error is a typed gateway error that carries a stable error code.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// Type returns the stable wire identifier rendered in error response bodies.
func Type(err error) string {
	gwErr, ok := As(err)
	if !ok {
		return "internal"
	}
	switch gwErr.Code {
	case CodeUsage:
		return "usage"
	case CodeInvalidAddress:
		return "invalid_address"
	case CodeUnknownPool:
		return "unknown_pool"
	case CodeUnknownTask:
		return "unknown_task"
	case CodeMissingParameter:
		return "missing_parameter"
	case CodeUnavailable:
		return "unavailable"
	case CodeNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// HTTPStatus maps an error to its response status. Client-input errors are
// 400, absent resources 404, upstream failures 502, everything else 500.
func HTTPStatus(err error) int {
	gwErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch gwErr.Code {
	case CodeUsage, CodeInvalidAddress, CodeUnknownPool, CodeUnknownTask, CodeMissingParameter:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

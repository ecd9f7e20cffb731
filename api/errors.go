// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for the ring buffer library.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library.
var (
	ErrAllocation       = errors.New("ring buffer allocation failed")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrBufferReleased   = errors.New("ring buffer released")
	ErrPoolClosed       = errors.New("ring pool is closed")
	ErrCapacityMismatch = errors.New("capacity does not match pool")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeAllocation
	ErrCodeReleased
	ErrCodeInternal
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeAllocation:
		return "allocation"
	case ErrCodeReleased:
		return "released"
	default:
		return "internal"
	}
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap exposes the sentinel or cause so errors.Is works on structured errors.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
		Err:     sentinelFor(code),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithCause replaces the wrapped error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// CodeOf extracts the ErrorCode carried by err, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrCodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

func sentinelFor(code ErrorCode) error {
	switch code {
	case ErrCodeInvalidArgument:
		return ErrInvalidArgument
	case ErrCodeAllocation:
		return ErrAllocation
	case ErrCodeReleased:
		return ErrBufferReleased
	default:
		return nil
	}
}

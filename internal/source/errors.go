package source

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes request failures.
type ErrorCode string

const (
	// CodeConnectivity covers DNS, dial and transport errors.
	CodeConnectivity ErrorCode = "CONNECTIVITY"

	// CodeTimeout indicates the request exceeded the client timeout.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeProtocol covers non-2xx status codes and undecodable bodies.
	CodeProtocol ErrorCode = "PROTOCOL"
)

// Error is a failed page request.
type Error struct {
	Code   ErrorCode
	Page   int
	Status int // HTTP status, 0 when no response was received
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: page %d: status %d: %v", e.Code, e.Page, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: page %d: %v", e.Code, e.Page, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of a source error, or "" if err is not one.
func CodeOf(err error) ErrorCode {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool {
	return CodeOf(err) == CodeTimeout
}

// IsProtocol reports whether err is a status or body error.
func IsProtocol(err error) bool {
	return CodeOf(err) == CodeProtocol
}

// Package errors defines the coded errors shared by the glyphgraph
// libraries, the CLI and the HTTP API.
//
// Every failure a caller may want to branch on carries a [Code]. The CLI
// prints [UserMessage]; the API sends the code in the error body and maps
// it to a status with [HTTPStatus].
//
//	if n > MaxGlyphs {
//	    return errors.New(errors.ErrCodeTooManyGlyphs, "%d glyphs, at most %d can be named", n, MaxGlyphs)
//	}
//
//	f, err := os.Open(path)
//	if err != nil {
//	    return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error kind. It is stable across releases and
// appears verbatim in API responses.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"   // request is missing something or mixes exclusive inputs
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"  // unknown output or grid file format
	ErrCodeMalformedInput Code = "MALFORMED_INPUT" // non-rectangular grid, bad cell size, undecodable data
	ErrCodeTooManyGlyphs  Code = "TOO_MANY_GLYPHS" // more glyphs than two-letter names

	ErrCodeNotFound      Code = "RESOURCE_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeGraphNotFound Code = "GRAPH_NOT_FOUND"

	ErrCodeNetwork Code = "NETWORK_ERROR" // retryable backend failure
	ErrCodeStorage Code = "STORAGE_ERROR"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// statuses maps codes to API responses. Unlisted codes are 500.
var statuses = map[Code]int{
	ErrCodeInvalidInput:   http.StatusBadRequest,
	ErrCodeInvalidFormat:  http.StatusBadRequest,
	ErrCodeMalformedInput: http.StatusBadRequest,
	ErrCodeTooManyGlyphs:  http.StatusUnprocessableEntity,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeFileNotFound:   http.StatusNotFound,
	ErrCodeGraphNotFound:  http.StatusNotFound,
	ErrCodeUnsupported:    http.StatusNotImplemented,
	ErrCodeNetwork:        http.StatusBadGateway,
	ErrCodeStorage:        http.StatusBadGateway,
}

// Status returns the HTTP status for c.
func (c Code) Status() int {
	if s, ok := statuses[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with an underlying cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// as returns the outermost *Error in err's chain.
func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// Is reports whether GetCode(err) is code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// IsNotFound reports whether err carries any of the not-found codes.
func IsNotFound(err error) bool {
	return GetCode(err).Status() == http.StatusNotFound
}

// UserMessage returns the message without the code prefix. Errors without
// a code are returned as is.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to the status the API responds with.
func HTTPStatus(err error) int {
	return GetCode(err).Status()
}

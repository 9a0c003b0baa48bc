package apierr

import (
	"fmt"
	"net/http"
)

// Error carries the HTTP status and machine-readable code a handler should
// respond with. Param names the offending request field, if any.
type Error struct {
	Status int
	Code   string
	Param  string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func WithParam(status int, code, param string, err error) *Error {
	return &Error{Status: status, Code: code, Param: param, Err: err}
}

func BadRequest(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

func NotFound(code string, err error) *Error {
	return New(http.StatusNotFound, code, err)
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "internal_error", err)
}

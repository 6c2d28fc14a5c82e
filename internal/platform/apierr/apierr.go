package apierr

import (
	"errors"
	"fmt"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		if e.Code != "" {
			return e.Code + ": " + e.Err.Error()
		}
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

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae.Code
	}
	return ""
}

// StatusOf returns the status of the first *Error in err's chain, or 0.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae.Status
	}
	return 0
}

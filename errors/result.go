package errors

import (
	"errors"
	"fmt"
	"reflect"
)

const (
	// SuccessCode is returned in a result to signal that the processing was
	// successful and no error is returned.
	SuccessCode = 0

	// All errors that do not carry a code are reported under the internal
	// code, with a generic message instead of the detailed error string.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// ResultInfo returns the code and log message that a host should put in a
// call result. Any error that does not provide code information is reported
// with code 1 and, unless debug is set, the generic "internal error" message.
func ResultInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessCode, ""
	}

	if code := errCode(err); code != internalCode {
		if debug {
			return code, fmt.Sprintf("%+v", err)
		}
		return code, err.Error()
	}

	if debug {
		return internalCode, fmt.Sprintf("%+v", err)
	}
	return internalCode, internalLog
}

type coder interface {
	ABCICode() uint32
}

// errCode returns the code of the first error in the wrap chain that
// provides one.
func errCode(err error) uint32 {
	if errIsNil(err) {
		return SuccessCode
	}

	code := internalCode
	walk(err, func(e error) bool {
		if c, ok := e.(coder); ok {
			code = c.ABCICode()
			return false
		}
		return true
	})
	return code
}

// errIsNil returns true if value represented by the given error is nil.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}

// Redact replaces all errors that do not carry a code, and all recovered
// panics, with a generic internal error. No-op in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) {
		return errors.New(internalLog)
	}
	if errCode(err) == internalCode {
		return errors.New(internalLog)
	}
	return err
}

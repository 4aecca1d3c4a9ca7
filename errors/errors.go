package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root kinds shared by all extensions. Codes must never change once a
// ledger is running, since hosts persist them in call results.
var (
	// ErrUnauthorized rejects a caller lacking the required condition.
	ErrUnauthorized = Register(2, "unauthorized")

	ErrNotFound = Register(3, "not found")

	// ErrMsg rejects a message that fails validation.
	ErrMsg = Register(4, "invalid message")

	// ErrModel rejects a model that fails validation before a write.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when a unique key or index is taken.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman marks a code path that correct wiring never reaches.
	ErrHuman = Register(7, "coding error")

	ErrImmutable = Register(8, "cannot be modified")
	ErrEmpty     = Register(9, "value is empty")
	ErrState     = Register(10, "invalid state")
	ErrType      = Register(11, "invalid type")
	ErrAmount    = Register(13, "invalid amount")
	ErrInput     = Register(14, "invalid input")

	// ErrOverflow means a value outgrew its numeric type.
	ErrOverflow = Register(16, "arithmetic overflow")

	// ErrDivisionByZero means a caller divided without checking the
	// divisor first.
	ErrDivisionByZero = Register(17, "division by zero")

	// ErrDatabase reports a failure of the underlying store.
	ErrDatabase = Register(18, "database")

	// ErrPanic wraps recovered panics. Results carrying it are redacted.
	ErrPanic = Register(111222, "panic")
)

// registry maps every code in use to its root error. Code 1 is held back
// for errors without a code.
var registry = map[uint32]*Error{
	internalCode: nil,
}

// Register declares a root error under a unique code. It panics when the
// code is taken, so call it only from package level var blocks.
func Register(code uint32, description string) *Error {
	if prev, ok := registry[code]; ok {
		name := "reserved"
		if prev != nil {
			name = prev.desc
		}
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, name))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a registered root error. Errors created at runtime wrap one of
// them, which gives the host a code to report.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string { return e.desc }

// ABCICode is the numeric code reported to the host.
func (e Error) ABCICode() uint32 { return e.code }

// New is shorthand for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrap(e, fmt.Sprintf(format, args...))
}

// Is reports whether err is kind or wraps it. A nil kind matches nil
// errors, including typed nil pointers.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return err == nil || reflect.ValueOf(err).IsNil()
	}
	found := false
	walk(err, func(e error) bool {
		found = e == kind
		return !found
	})
	return found
}

// Wrap adds description in front of err. A stack trace is attached at the
// innermost wrap only. Wrapping nil gives nil, and an error without a code
// stays uncoded, which results report as internal.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrapped{msg: description, cause: err}
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrapped struct {
	msg   string
	cause error
}

func (w *wrapped) Error() string {
	return w.msg + ": " + w.cause.Error()
}

func (w *wrapped) Cause() error { return w.cause }

// Format prints the stack trace of the innermost wrap for %+v and only the
// message chain otherwise.
func (w *wrapped) Format(s fmt.State, verb rune) {
	fmt.Fprint(s, w.Error())
	if verb == 'v' && s.Flag('+') {
		if st := stackTrace(w); st != nil {
			fmt.Fprintf(s, "%+v", st)
		}
	}
}

// Recover turns a panic into an ErrPanic assigned to *err. It must be
// deferred directly.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// IsInvariant reports a broken arithmetic invariant, as opposed to a
// rejected request.
func IsInvariant(err error) bool {
	return ErrOverflow.Is(err) || ErrDivisionByZero.Is(err)
}

type causer interface {
	Cause() error
}

// walk calls visit for err and every error it wraps, outermost first,
// until visit returns false.
func walk(err error, visit func(error) bool) {
	for err != nil && visit(err) {
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the outermost trace found in the chain, if any.
func stackTrace(err error) errors.StackTrace {
	var st errors.StackTrace
	walk(err, func(e error) bool {
		if t, ok := e.(stackTracer); ok {
			st = t.StackTrace()
			return false
		}
		return true
	})
	return st
}

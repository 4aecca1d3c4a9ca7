/*
Package errors implements the error kinds used across tally.

Every failure returned by an extension should wrap one of the registered root
errors, so that a host can turn it into a stable numeric code and a client can
tell the kinds apart. Declare package agnostic kinds here. An extension that
needs a kind of its own registers it with Register(code, description) from a
package level var block, the same way x/receipt does.

Wrap at the point of creation (ErrXyz.New("...") or Wrap(err, "...")) so that a
stack trace is attached to the innermost wrap. Formatting with %+v prints the
full trace, %s only the message chain.

ErrOverflow and ErrDivisionByZero signal that an arithmetic invariant of the
ledger was broken. They are defects rather than user errors; IsInvariant
reports them so that a host can log and count them separately.
*/
package errors

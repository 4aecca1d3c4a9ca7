package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestWrapKeepsRootCause(t *testing.T) {
	plain := stdlib.New("disk on fire")

	cases := map[string]struct {
		err  error
		root error
	}{
		"root kind":          {err: ErrNotFound, root: ErrNotFound},
		"wrapped kind":       {err: Wrap(ErrNotFound, "member"), root: ErrNotFound},
		"twice wrapped kind": {err: Wrap(Wrapf(ErrState, "pool %d", 1), "claim"), root: ErrState},
		"wrapped stdlib":     {err: Wrap(plain, "flush"), root: plain},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatalf("want root %v, got %v", tc.root, got)
			}
		})
	}
}

type nilPointerError struct{}

func (*nilPointerError) Error() string { return "never printed" }

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind *Error
		err  error
		want bool
	}{
		"same kind":               {kind: ErrNotFound, err: ErrNotFound, want: true},
		"other kind":              {kind: ErrNotFound, err: ErrModel},
		"wrapped by pkg/errors":   {kind: ErrNotFound, err: errors.Wrap(ErrNotFound, "gone"), want: true},
		"other kind wrapped":      {kind: ErrNotFound, err: errors.Wrap(ErrOverflow, "too big")},
		"stdlib error":            {kind: ErrNotFound, err: fmt.Errorf("stdlib error")},
		"wrapped stdlib error":    {kind: ErrNotFound, err: Wrap(fmt.Errorf("stdlib error"), "wrapped")},
		"nil kind and nil":        {want: true},
		"nil kind and typed nil":  {err: (*nilPointerError)(nil), want: true},
		"nil kind and real error": {err: ErrNotFound},
		"kind and nil":            {kind: ErrNotFound},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "nothing to see"); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := Wrapf(nil, "nothing %d", 2); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
}

func TestWrapFormatting(t *testing.T) {
	err := Wrap(ErrEmpty.New("name"), "member")
	if got := fmt.Sprintf("%s", err); got != "member: name: value is empty" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := fmt.Sprintf("%+v", err); !strings.Contains(got, "TestWrapFormatting") {
		t.Fatalf("want stack trace, got %q", got)
	}
}

func TestIsInvariant(t *testing.T) {
	cases := map[string]struct {
		err  error
		want bool
	}{
		"overflow":             {err: ErrOverflow, want: true},
		"wrapped overflow":     {err: Wrap(ErrOverflow, "accumulator"), want: true},
		"division by zero":     {err: Wrapf(ErrDivisionByZero, "weight %d", 0), want: true},
		"unauthorized is user": {err: ErrUnauthorized},
		"stdlib error":         {err: stdlib.New("boom")},
		"nil":                  {},
		"not found":            {err: Wrap(ErrNotFound, "member")},
		"duplicate":            {err: ErrDuplicate.New("member already registered")},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := IsInvariant(tc.err); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	fn := func() (err error) {
		defer Recover(&err)
		panic("at the disco")
	}
	if err := fn(); !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
}

func TestRegisterTakenCodePanics(t *testing.T) {
	for _, code := range []uint32{internalCode, ErrNotFound.code} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("registering code %d must panic", code)
				}
			}()
			Register(code, "again")
		}()
	}
}

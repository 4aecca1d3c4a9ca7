package tallytest

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/tallyweave/tally"
)

// Auth is an x.Authenticator that accepts a fixed set of conditions.
// Signer, when set, is reported after Signers.
type Auth struct {
	Signer  tally.Condition
	Signers []tally.Condition
}

func (a *Auth) GetConditions(tally.Context) []tally.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	return append(a.Signers, a.Signer)
}

func (a *Auth) HasAddress(ctx tally.Context, addr tally.Address) bool {
	return anyHashesTo(a.GetConditions(ctx), addr)
}

// CtxAuth is an x.Authenticator reading conditions stored in the context
// under Key.
type CtxAuth struct {
	Key string
}

// SetConditions returns a context authorizing conds for this CtxAuth.
func (a *CtxAuth) SetConditions(ctx tally.Context, conds ...tally.Condition) tally.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx tally.Context) []tally.Condition {
	switch v := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []tally.Condition:
		return v
	default:
		panic(fmt.Sprintf("context key %q holds %T", a.Key, v))
	}
}

func (a *CtxAuth) HasAddress(ctx tally.Context, addr tally.Address) bool {
	return anyHashesTo(a.GetConditions(ctx), addr)
}

func anyHashesTo(conds []tally.Condition, addr tally.Address) bool {
	for _, c := range conds {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}

var lastCondition uint64

// NewCondition returns a condition no other call in this process returns.
func NewCondition() tally.Condition {
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], atomic.AddUint64(&lastCondition, 1))
	return tally.NewCondition("test", "seq", seq[:])
}

// ParseAddress is tally.ParseAddress failing the test on error.
func ParseAddress(t testing.TB, enc string) tally.Address {
	t.Helper()
	addr, err := tally.ParseAddress(enc)
	if err != nil {
		t.Fatalf("cannot parse address %q: %s", enc, err)
	}
	return addr
}

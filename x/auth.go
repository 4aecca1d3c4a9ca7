package x

import (
	"github.com/tallyweave/tally"
)

// Authenticator tells a handler which conditions authorized the current
// call. Handlers receive one in their constructor so the source of
// authorization stays pluggable.
type Authenticator interface {
	// GetConditions lists every condition that authorized the call.
	GetConditions(tally.Context) []tally.Condition
	// HasAddress is true if one of those conditions hashes to the address.
	HasAddress(tally.Context, tally.Address) bool
}

// CallerAuth trusts the caller the host attached with tally.WithCaller.
type CallerAuth struct{}

var _ Authenticator = CallerAuth{}

func (CallerAuth) GetConditions(ctx tally.Context) []tally.Condition {
	if caller, ok := tally.GetCaller(ctx); ok {
		return []tally.Condition{caller}
	}
	return nil
}

func (CallerAuth) HasAddress(ctx tally.Context, addr tally.Address) bool {
	caller, ok := tally.GetCaller(ctx)
	return ok && caller.Address().Equals(addr)
}

// MultiAuth merges several authenticators. Conditions are reported in the
// order the authenticators were given.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

func ChainAuth(auths ...Authenticator) MultiAuth {
	return MultiAuth(auths)
}

func (m MultiAuth) GetConditions(ctx tally.Context) []tally.Condition {
	var all []tally.Condition
	for _, a := range m {
		all = append(all, a.GetConditions(ctx)...)
	}
	return all
}

func (m MultiAuth) HasAddress(ctx tally.Context, addr tally.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner is the first authorizing condition, or nil.
func MainSigner(ctx tally.Context, auth Authenticator) tally.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}

func GetAddresses(ctx tally.Context, auth Authenticator) []tally.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]tally.Address, 0, len(conds))
	for _, c := range conds {
		addrs = append(addrs, c.Address())
	}
	return addrs
}

func HasAllAddresses(ctx tally.Context, auth Authenticator, required []tally.Address) bool {
	return HasNAddresses(ctx, auth, required, len(required))
}

// HasNAddresses is true if at least n of the addresses authorized the
// call. A threshold of zero or less always passes.
func HasNAddresses(ctx tally.Context, auth Authenticator, addrs []tally.Address, n int) bool {
	return atLeast(n, len(addrs), func(i int) bool {
		return auth.HasAddress(ctx, addrs[i])
	})
}

func HasAllConditions(ctx tally.Context, auth Authenticator, required []tally.Condition) bool {
	return HasNConditions(ctx, auth, required, len(required))
}

// HasNConditions is HasNAddresses for conditions.
func HasNConditions(ctx tally.Context, auth Authenticator, conds []tally.Condition, n int) bool {
	present := auth.GetConditions(ctx)
	return atLeast(n, len(conds), func(i int) bool {
		for _, p := range present {
			if p.Equals(conds[i]) {
				return true
			}
		}
		return false
	})
}

// atLeast counts the first size indexes matching ok and stops as soon as
// n are found.
func atLeast(n, size int, ok func(int) bool) bool {
	for i := 0; i < size && n > 0; i++ {
		if ok(i) {
			n--
		}
	}
	return n <= 0
}

package x

import (
	"context"
	"testing"

	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/tallytest"
	"github.com/tallyweave/tally/tallytest/assert"
)

func TestAuthenticators(t *testing.T) {
	alice := tallytest.NewCondition()
	bob := tallytest.NewCondition()
	carol := tallytest.NewCondition()

	foo := &tallytest.CtxAuth{Key: "foo"}
	bar := &tallytest.CtxAuth{Key: "bar"}
	bg := context.Background()

	cases := map[string]struct {
		ctx     tally.Context
		auth    Authenticator
		want    []tally.Condition
		outside tally.Condition
	}{
		"nothing signed": {
			ctx:     bg,
			auth:    &tallytest.Auth{},
			outside: bob,
		},
		"single signer": {
			ctx:     bg,
			auth:    &tallytest.Auth{Signer: alice},
			want:    []tally.Condition{alice},
			outside: bob,
		},
		"chained signers keep order": {
			ctx:     bg,
			auth:    ChainAuth(&tallytest.Auth{Signer: bob}, &tallytest.Auth{Signer: alice}),
			want:    []tally.Condition{bob, alice},
			outside: carol,
		},
		"context auth": {
			ctx:     foo.SetConditions(bg, alice, bob),
			auth:    foo,
			want:    []tally.Condition{alice, bob},
			outside: carol,
		},
		"context auth under another key": {
			ctx:     foo.SetConditions(bg, alice, bob),
			auth:    bar,
			outside: alice,
		},
		"host caller": {
			ctx:     tally.WithCaller(bg, carol),
			auth:    CallerAuth{},
			want:    []tally.Condition{carol},
			outside: alice,
		},
		"host caller first in chain": {
			ctx:     foo.SetConditions(tally.WithCaller(bg, carol), alice),
			auth:    ChainAuth(CallerAuth{}, foo),
			want:    []tally.Condition{carol, alice},
			outside: bob,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := tc.auth.GetConditions(tc.ctx)
			assert.Equal(t, tc.want, got)

			var main tally.Condition
			if len(tc.want) > 0 {
				main = tc.want[0]
			}
			assert.Equal(t, main, MainSigner(tc.ctx, tc.auth))

			for _, c := range tc.want {
				assert.Equal(t, true, tc.auth.HasAddress(tc.ctx, c.Address()))
			}
			assert.Equal(t, false, tc.auth.HasAddress(tc.ctx, tc.outside.Address()))

			assert.Equal(t, true, HasAllConditions(tc.ctx, tc.auth, got))
			assert.Equal(t, false, HasAllConditions(tc.ctx, tc.auth, append(got, tc.outside)))
			if n := len(got); n > 0 {
				assert.Equal(t, true, HasNConditions(tc.ctx, tc.auth, got, n-1))
				assert.Equal(t, false, HasNConditions(tc.ctx, tc.auth, got, n+1))
			}
		})
	}
}

func TestAddressThresholds(t *testing.T) {
	a := tallytest.NewCondition()
	b := tallytest.NewCondition()
	c := tallytest.NewCondition()
	auth := &tallytest.Auth{Signers: []tally.Condition{a, b}}
	ctx := context.Background()

	assert.Equal(t, []tally.Address{a.Address(), b.Address()}, GetAddresses(ctx, auth))

	addrs := []tally.Address{a.Address(), b.Address(), c.Address()}
	cases := map[string]struct {
		check func() bool
		want  bool
	}{
		"all of three":   {func() bool { return HasAllAddresses(ctx, auth, addrs) }, false},
		"all of two":     {func() bool { return HasAllAddresses(ctx, auth, addrs[:2]) }, true},
		"two of three":   {func() bool { return HasNAddresses(ctx, auth, addrs, 2) }, true},
		"three of three": {func() bool { return HasNAddresses(ctx, auth, addrs, 3) }, false},
		"zero threshold": {func() bool { return HasNAddresses(ctx, auth, addrs, 0) }, true},
		"only outsider":  {func() bool { return HasNAddresses(ctx, auth, addrs[2:], 1) }, false},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.check())
		})
	}
}

package tally

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	// try logger with default
	newLogger := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, newLogger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, newLogger, GetLogger(ctx))

	// test height - uninitialized
	val, ok := GetHeight(ctx)
	assert.Equal(t, int64(0), val)
	assert.False(t, ok)
	// set
	ctx = WithHeight(ctx, 7)
	val, ok = GetHeight(ctx)
	assert.Equal(t, int64(7), val)
	assert.True(t, ok)
	// no reset
	assert.Panics(t, func() { WithHeight(ctx, 9) })

	// WithLogInfo keeps the logger usable
	ctx = WithLogInfo(ctx, "foo", "bar")
	assert.NotEqual(t, newLogger, GetLogger(ctx))

	// chain id MUST be set exactly once
	assert.Panics(t, func() { GetChainID(ctx) })
	ctx = WithChainID(ctx, "my-chain")
	assert.Equal(t, "my-chain", GetChainID(ctx))
	assert.Panics(t, func() { WithChainID(ctx, "other-chain") })
	assert.Panics(t, func() { WithChainID(bg, "no") })
}

func TestCaller(t *testing.T) {
	bg := context.Background()

	_, ok := GetCaller(bg)
	assert.False(t, ok)

	cond := NewCondition("test", "caller", []byte{1, 2, 3})
	ctx := WithCaller(bg, cond)
	got, ok := GetCaller(ctx)
	assert.True(t, ok)
	assert.Equal(t, cond, got)

	assert.Panics(t, func() { WithCaller(ctx, cond) })
}

func TestChainID(t *testing.T) {
	cases := map[string]bool{
		"":                              false,
		"foo":                           false,
		"special":                       true,
		"wish-YOU-88":                   true,
		"invalid;;chars":                false,
		"this-chain-id-is-way-too-long": false,
	}

	for chainID, valid := range cases {
		t.Run(chainID, func(t *testing.T) {
			assert.Equal(t, valid, IsValidChainID(chainID))
		})
	}
}

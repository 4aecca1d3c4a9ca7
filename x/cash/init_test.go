package cash

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/num"
	"github.com/tallyweave/tally/store"
)

func TestGenesis(t *testing.T) {
	const genesis = `{
		"cash": [
			{"address": "e28ae9a6eb94fc88b73eb7cbd6b87bf93eb9bef0", "coins": [
				{"denom": "nIOV", "amount": "100"},
				{"denom": "nETH", "amount": 7}
			]},
			{"address": "1234567890123456789012345678901234567890", "coins": []}
		]
	}`

	var opts tally.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	addr, err := tally.ParseAddress("e28ae9a6eb94fc88b73eb7cbd6b87bf93eb9bef0")
	require.NoError(t, err)
	w, err := NewBucket().Get(db, addr)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, []Coin{
		NewCoin("nETH", num.NewUint(7)),
		NewCoin("nIOV", num.NewUint(100)),
	}, w.Coins())
}

func TestGenesisErrors(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
	}{
		"invalid address": {
			genesis: `{"cash": [{"address": "1234", "coins": []}]}`,
			wantErr: errors.ErrInput,
		},
		"invalid denom": {
			genesis: `{"cash": [{"address": "1234567890123456789012345678901234567890", "coins": [{"denom": "x", "amount": "1"}]}]}`,
			wantErr: errors.ErrInput,
		},
		"missing section is fine": {
			genesis: `{}`,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts tally.Options
			require.NoError(t, json.Unmarshal([]byte(tc.genesis), &opts))
			err := Initializer{}.FromGenesis(opts, store.MemStore())
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, tc.wantErr.Is(err), "got %+v", err)
		})
	}
}

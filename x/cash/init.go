package cash

import (
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use tally.Address, so address in hex, not base64
type GenesisAccount struct {
	Address tally.Address `json:"address"`
	Coins   []Coin        `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ tally.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts tally.Options, kv tally.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	control := NewController(NewBucket())
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range acct.Coins {
			if err := control.IssueCoins(kv, acct.Address, c); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}

package receipt

import (
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/gconf"
	"github.com/tallyweave/tally/num"
)

// GenesisMember is a member registered at genesis.
type GenesisMember struct {
	Address tally.Address `json:"address"`
	Weight  num.Uint      `json:"weight"`
}

type genesis struct {
	Members []GenesisMember `json:"members"`
}

// Initializer loads the configuration from conf.receipt and registers the
// members listed under receipt.members.
type Initializer struct{}

var _ tally.Initializer = Initializer{}

func (Initializer) FromGenesis(opts tally.Options, db tally.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, packageName, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	var gen genesis
	if err := opts.ReadOptions(packageName, &gen); err != nil {
		return err
	}
	ledger, err := LoadLedger(db)
	if err != nil {
		return err
	}
	registry := NewRegistry()
	for i, m := range gen.Members {
		if err := m.Address.Validate(); err != nil {
			return errors.Wrapf(err, "member %d", i)
		}
		if err := registry.Register(db, ledger, m.Address, m.Weight); err != nil {
			return errors.Wrapf(err, "member %d", i)
		}
	}
	return SaveLedger(db, ledger)
}

package tally

import (
	"encoding/json"

	"github.com/tallyweave/tally/errors"
)

// Options is the genesis app state, one raw JSON section per key.
type Options map[string]json.RawMessage

// ReadOptions decodes the section under key into obj. A missing section
// leaves obj untouched and is not an error.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "option %q: %s", key, err)
	}
	return nil
}

// Initializer loads an extension's initial state from genesis.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// GenesisInitializers runs several initializers in order, stopping at the
// first failure.
type GenesisInitializers []Initializer

var _ Initializer = GenesisInitializers(nil)

func (inits GenesisInitializers) FromGenesis(opts Options, kv KVStore) error {
	for _, step := range inits {
		if err := step.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis.
type Genesis struct {
	ChainID  string        `json:"chain_id"`
	AppState tally.Options `json:"app_state"`
}

// LoadGenesis reads and parses a genesis file.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return ParseGenesis(raw)
}

// ParseGenesis decodes a genesis document and validates its chain ID.
func ParseGenesis(raw []byte) (*Genesis, error) {
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "genesis: %s", err)
	}
	if !tally.IsValidChainID(gen.ChainID) {
		return nil, errors.Wrapf(errors.ErrInput, "invalid chain id %q", gen.ChainID)
	}
	if len(gen.AppState) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "app_state not set in genesis")
	}
	return &gen, nil
}

const chainIDKey = "_chain_id"

// loadChainID returns the chain id stored if any
func loadChainID(db tally.ReadOnlyKVStore) (string, error) {
	v, err := db.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(db tally.KVStore, chainID string) error {
	if !tally.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "invalid chain id %q", chainID)
	}
	k := []byte(chainIDKey)
	switch has, err := db.Has(k); {
	case err != nil:
		return errors.Wrap(errors.ErrDatabase, err.Error())
	case has:
		return errors.Wrap(errors.ErrImmutable, "chain id already set")
	}
	if err := db.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

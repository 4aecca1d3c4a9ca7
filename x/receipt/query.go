package receipt

import (
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/gconf"
	"github.com/tallyweave/tally/num"
)

func requireKeyMod(mod string) error {
	if mod != tally.KeyQueryMod {
		return errors.Wrapf(errors.ErrInput, "unsupported query mod %q", mod)
	}
	return nil
}

// ledgerQuery returns the ledger totals.
type ledgerQuery struct{}

func (ledgerQuery) Query(db tally.ReadOnlyKVStore, mod string, data []byte) ([]tally.Model, error) {
	if err := requireKeyMod(mod); err != nil {
		return nil, err
	}
	ledger, err := LoadLedger(db)
	if err != nil {
		return nil, err
	}
	raw, err := ledger.Marshal()
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return []tally.Model{tally.Pair(ledgerKey, raw)}, nil
}

// configQuery returns the stored configuration.
type configQuery struct{}

func (configQuery) Query(db tally.ReadOnlyKVStore, mod string, data []byte) ([]tally.Model, error) {
	if err := requireKeyMod(mod); err != nil {
		return nil, err
	}
	key := gconf.Key(packageName)
	raw, err := db.Get(key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return []tally.Model{tally.Pair(key, raw)}, nil
}

// Pending is the result of a pending entitlement query.
type Pending struct {
	Member tally.Address `json:"member"`
	Amount num.Uint      `json:"amount"`
}

func (p *Pending) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

func (p *Pending) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, p)
}

// pendingQuery returns what a member could claim right now, without
// settling it. The query data is the member address.
type pendingQuery struct {
	registry *Registry
}

func (q pendingQuery) Query(db tally.ReadOnlyKVStore, mod string, data []byte) ([]tally.Model, error) {
	if err := requireKeyMod(mod); err != nil {
		return nil, err
	}
	addr := tally.Address(data)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	amount, err := PendingEntitlement(db, q.registry, addr)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, err
	}
	raw, err := (&Pending{Member: addr, Amount: amount}).Marshal()
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return []tally.Model{tally.Pair(addr, raw)}, nil
}

// PendingEntitlement returns what the member could claim right now. Nothing
// is modified.
func PendingEntitlement(db tally.ReadOnlyKVStore, registry *Registry, addr tally.Address) (num.Uint, error) {
	m, err := registry.Get(db, addr)
	if err != nil {
		return num.Zero(), err
	}
	ledger, err := LoadLedger(db)
	if err != nil {
		return num.Zero(), err
	}
	return ledger.Pending(m)
}

package utils

import (
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
)

// Savepoint runs the rest of the stack in its own cache wrap. The wrap is
// written back when the call succeeds and dropped when it fails, so a
// failed call leaves no partial writes behind. It is disabled for both
// phases until OnCheck or OnDeliver enables it.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ tally.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a copy that also isolates Check.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a copy that also isolates Deliver.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx, next tally.Checker) (*tally.CheckResult, error) {
	var res *tally.CheckResult
	err := isolate(s.onCheck, db, func(kv tally.KVStore) (err error) {
		res, err = next.Check(ctx, kv, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx, next tally.Deliverer) (*tally.DeliverResult, error) {
	var res *tally.DeliverResult
	err := isolate(s.onDeliver, db, func(kv tally.KVStore) (err error) {
		res, err = next.Deliver(ctx, kv, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// isolate calls fn on a cache wrap of db when enabled and db supports
// wrapping, and directly on db otherwise.
func isolate(enabled bool, db tally.KVStore, fn func(tally.KVStore) error) error {
	cacheable, ok := db.(tally.CacheableKVStore)
	if !enabled || !ok {
		return fn(db)
	}

	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

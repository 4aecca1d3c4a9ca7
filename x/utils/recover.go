package utils

import (
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
)

// Recovery converts a panic below it into an ErrPanic error. Place it
// under Logging so that the panic gets logged, and above Savepoint so that
// the writes of the panicking call are dropped.
type Recovery struct{}

var _ tally.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx, next tally.Checker) (res *tally.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx, next tally.Deliverer) (res *tally.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

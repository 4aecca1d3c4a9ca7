package tally

import (
	"github.com/tendermint/tendermint/libs/common"
)

// Handler processes the messages of one path, such as registering a
// member or depositing funds.
type Handler interface {
	Checker
	Deliverer
}

// Checker validates a call without keeping its writes. Decorators receive
// it separately from Deliverer so that each phase can only call onwards
// into the same phase.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a call.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around a handler, typically for concerns every handler
// shares such as logging or panic recovery.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to message paths.
type Registry interface {
	Handle(path string, h Handler)
}

// CheckResult is the outcome of a dry run.
type CheckResult struct {
	Data []byte
	Log  string
}

// DeliverResult is the outcome of an executed call. Data is meant for
// programs, such as the amount paid out by a claim, Log for people.
type DeliverResult struct {
	Data []byte
	Log  string
	// Tags index the call by its parameters.
	Tags []common.KVPair
}

func (d *DeliverResult) AddTag(key, value string) {
	d.Tags = append(d.Tags, common.KVPair{Key: []byte(key), Value: []byte(value)})
}

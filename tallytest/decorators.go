package tallytest

import "github.com/tallyweave/tally"

// calls counts how often a mock was invoked.
type calls struct {
	check, deliver int
}

func (c *calls) CheckCallCount() int   { return c.check }
func (c *calls) DeliverCallCount() int { return c.deliver }
func (c *calls) CallCount() int        { return c.check + c.deliver }

// Decorator is a mock tally.Decorator. It forwards to the next handler
// unless the matching error is set, in which case it stops the chain with
// that error. Every invocation is counted, whatever its outcome.
type Decorator struct {
	calls

	CheckErr   error
	DeliverErr error
}

var _ tally.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx, next tally.Checker) (*tally.CheckResult, error) {
	d.check++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx, next tally.Deliverer) (*tally.DeliverResult, error) {
	d.deliver++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Decorate returns h wrapped by d.
func Decorate(h tally.Handler, d tally.Decorator) tally.Handler {
	return decorated{next: h, by: d}
}

type decorated struct {
	next tally.Handler
	by   tally.Decorator
}

func (d decorated) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.CheckResult, error) {
	return d.by.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.DeliverResult, error) {
	return d.by.Deliver(ctx, db, tx, d.next)
}

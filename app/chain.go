package app

import (
	"reflect"

	"github.com/tallyweave/tally"
)

// Decorators is an ordered stack of decorators still waiting for the
// handler at its bottom. The first decorator runs first.
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		utils.NewSavepoint().OnDeliver(),
//	).WithHandler(router)
type Decorators struct {
	stack []tally.Decorator
}

// ChainDecorators starts a stack. Nil decorators, typed or not, are
// dropped, which lets optional decorators be passed unconditionally.
func ChainDecorators(ds ...tally.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain returns a new stack with ds appended below the current ones. The
// receiver is left unchanged.
func (d Decorators) Chain(ds ...tally.Decorator) Decorators {
	stack := make([]tally.Decorator, 0, len(d.stack)+len(ds))
	stack = append(stack, d.stack...)
	for _, dec := range ds {
		if !isNilDecorator(dec) {
			stack = append(stack, dec)
		}
	}
	return Decorators{stack: stack}
}

func isNilDecorator(d tally.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack over h.
func (d Decorators) WithHandler(h tally.Handler) tally.Handler {
	for i := len(d.stack) - 1; i >= 0; i-- {
		h = layer{dec: d.stack[i], next: h}
	}
	return h
}

// layer runs one decorator around the rest of the stack.
type layer struct {
	dec  tally.Decorator
	next tally.Handler
}

func (l layer) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l layer) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}

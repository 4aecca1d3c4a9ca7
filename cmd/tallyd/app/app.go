/*
Package app links together all the various components
to construct the tallyd application.
*/
package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/app"
	"github.com/tallyweave/tally/store"
	"github.com/tallyweave/tally/x"
	"github.com/tallyweave/tally/x/cash"
	"github.com/tallyweave/tally/x/receipt"
	"github.com/tallyweave/tally/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator trusts the caller condition supplied by the host.
func Authenticator() x.Authenticator {
	return x.CallerAuth{}
}

// Chain returns a chain of decorators, to handle logging, recovery and
// rollback of failed checks and deliveries.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to the cash and receipt handlers.
func Router(authFn x.Authenticator, metrics *receipt.Metrics) *app.Router {
	r := app.NewRouter()
	ctrl := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, ctrl)
	receipt.RegisterRoutes(r, authFn, receipt.NewCashBank(ctrl), metrics)
	return r
}

// QueryRouter returns a query router giving access to "/cash/balances",
// "/receipt/members", "/receipt/ledger", "/receipt/config",
// "/receipt/pending" and "/receipt/deposits".
func QueryRouter() tally.QueryRouter {
	r := tally.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		receipt.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis initializers in the order they must run.
// Balances come first so that genesis members can be funded.
func Initializers() tally.Initializer {
	return tally.GenesisInitializers{
		cash.Initializer{},
		receipt.Initializer{},
	}
}

// TxCodec returns the codec knowing every message of the application.
func TxCodec() *app.TxCodec {
	return app.NewTxCodec(
		cash.RegisterAmino,
		receipt.RegisterAmino,
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into a Dispatcher.
func Stack(metrics *receipt.Metrics) tally.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn, metrics))
}

// Application is a ready to use dispatcher over an in-memory store, along
// with the codec for its transactions. Receipt metrics are registered on
// reg unless it is nil.
func Application(logger log.Logger, reg prometheus.Registerer, debug bool) (*app.Dispatcher, *app.TxCodec, error) {
	codec := TxCodec()
	d, err := app.NewDispatcher(
		store.MemStore(),
		Stack(receipt.NewMetrics(reg)),
		QueryRouter(),
		codec.Decode,
	)
	if err != nil {
		return nil, nil, err
	}
	return d.WithLogger(logger).WithDebug(debug), codec, nil
}

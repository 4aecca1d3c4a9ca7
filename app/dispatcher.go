package app

import (
	"context"
	"strings"
	"sync"

	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Dispatcher is the host side of the engine. It owns the committed store
// and runs every call against a fresh cache wrap of it. A call that
// succeeds is written back, any other outcome is discarded. Calls are
// serialized, so a dispatcher may be shared between goroutines.
type Dispatcher struct {
	mu sync.Mutex

	store   tally.CacheableKVStore
	handler tally.Handler
	queries tally.QueryRouter
	decoder tally.TxDecoder
	logger  log.Logger
	debug   bool

	// chainID is loaded from db on creation, saved once by InitChain
	chainID string
	// height counts delivered calls that were written
	height int64
}

// NewDispatcher returns a dispatcher over db. The chain ID is restored
// from db if the chain was initialized before.
func NewDispatcher(
	db tally.CacheableKVStore,
	handler tally.Handler,
	queries tally.QueryRouter,
	decoder tally.TxDecoder,
) (*Dispatcher, error) {
	chainID, err := loadChainID(db)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		store:   db,
		handler: handler,
		queries: queries,
		decoder: decoder,
		logger:  log.NewNopLogger(),
		chainID: chainID,
	}, nil
}

// WithLogger sets the logger passed to every handler through the context.
func (d *Dispatcher) WithLogger(logger log.Logger) *Dispatcher {
	d.logger = logger
	return d
}

// WithDebug controls whether error results carry full details, including
// stack traces and internal errors.
func (d *Dispatcher) WithDebug(debug bool) *Dispatcher {
	d.debug = debug
	return d
}

// ChainID returns the chain ID, empty before InitChain.
func (d *Dispatcher) ChainID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.chainID
}

// Height returns the number of delivered calls that were committed.
func (d *Dispatcher) Height() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.height
}

// InitChain stores the chain ID and runs the initializer over the genesis
// app state. It can succeed only once per store.
func (d *Dispatcher) InitChain(gen *Genesis, initializer tally.Initializer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.chainID != "" {
		return errors.Wrapf(errors.ErrImmutable, "app state previously loaded for chain %s", d.chainID)
	}

	cache := d.store.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if err := initializer.FromGenesis(gen.AppState, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	d.chainID = gen.ChainID
	d.logger.Info("chain initialized", "chain_id", d.chainID)
	return nil
}

// CheckTx decodes raw and runs it as a dry run.
func (d *Dispatcher) CheckTx(caller tally.Condition, raw []byte) Result {
	tx, err := d.loadTx(raw)
	if err != nil {
		return resultFromError(err, d.debug)
	}
	return d.Check(caller, tx)
}

// DeliverTx decodes raw and executes it.
func (d *Dispatcher) DeliverTx(caller tally.Condition, raw []byte) Result {
	tx, err := d.loadTx(raw)
	if err != nil {
		return resultFromError(err, d.debug)
	}
	return d.Deliver(caller, tx)
}

// Check runs tx against a cache wrap that is always discarded.
func (d *Dispatcher) Check(caller tally.Condition, tx tally.Tx) Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx := d.context(caller, d.height)
	ctx = tally.WithLogInfo(ctx, "call", "check", "path", tally.GetPath(tx))

	cache := d.store.CacheWrap()
	defer cache.Discard()

	res, err := d.check(ctx, cache, tx)
	if err != nil {
		return resultFromError(err, d.debug)
	}
	return Result{Data: res.Data, Log: res.Log}
}

// Deliver executes tx. Its writes reach the store only if it succeeds.
func (d *Dispatcher) Deliver(caller tally.Condition, tx tally.Tx) Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx := d.context(caller, d.height+1)
	ctx = tally.WithLogInfo(ctx, "call", "deliver", "path", tally.GetPath(tx))

	cache := d.store.CacheWrap()
	res, err := d.deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return resultFromError(err, d.debug)
	}
	if err := cache.Write(); err != nil {
		return resultFromError(errors.Wrap(errors.ErrDatabase, err.Error()), d.debug)
	}
	d.height++
	return Result{Data: res.Data, Log: res.Log, Tags: res.Tags}
}

func (d *Dispatcher) check(ctx tally.Context, db tally.KVStore, tx tally.Tx) (res *tally.CheckResult, err error) {
	defer errors.Recover(&err)
	res, err = d.handler.Check(ctx, db, tx)
	if err == nil && res == nil {
		res = &tally.CheckResult{}
	}
	return res, err
}

func (d *Dispatcher) deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx) (res *tally.DeliverResult, err error) {
	defer errors.Recover(&err)
	res, err = d.handler.Deliver(ctx, db, tx)
	if err == nil && res == nil {
		res = &tally.DeliverResult{}
	}
	return res, err
}

// Query runs a read only query against the committed state. The path may
// carry a modifier after a question mark, as in /receipt/members?page=10.
func (d *Dispatcher) Query(path string, data []byte) QueryResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	path, mod := splitPath(path)
	qh := d.queries.Handler(path)
	if qh == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "unexpected query path %q", path), d.debug)
	}

	db := d.store.CacheWrap()
	defer db.Discard()

	models, err := qh.Query(db, mod, data)
	if err != nil {
		return queryError(err, d.debug)
	}

	res := QueryResult{Height: d.height}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return queryError(err, d.debug)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return queryError(err, d.debug)
	}
	return res
}

func (d *Dispatcher) context(caller tally.Condition, height int64) tally.Context {
	ctx := tally.WithLogger(context.Background(), d.logger)
	ctx = tally.WithHeight(ctx, height)
	if d.chainID != "" {
		ctx = tally.WithChainID(ctx, d.chainID)
	}
	if caller != nil {
		ctx = tally.WithCaller(ctx, caller)
	}
	return ctx
}

// loadTx calls the decoder, and capture any panics
func (d *Dispatcher) loadTx(raw []byte) (tx tally.Tx, err error) {
	defer errors.Recover(&err)
	return d.decoder(raw)
}

// splitPath splits out the real path along with the query
// modifier (everything after the ?)
func splitPath(path string) (string, string) {
	var mod string
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		path = chunks[0]
		mod = chunks[1]
	}
	return path, mod
}

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/store"
	"github.com/tallyweave/tally/tallytest"
	"github.com/tallyweave/tally/x"
)

// callerHandler writes the caller address under the message note.
type callerHandler struct {
	auth x.Authenticator
}

func (h callerHandler) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.CheckResult, error) {
	if _, err := h.Deliver(ctx, db, tx); err != nil {
		return nil, err
	}
	return &tally.CheckResult{Log: "checked"}, nil
}

func (h callerHandler) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.DeliverResult, error) {
	var msg noteMsg
	if err := tally.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no caller")
	}
	if err := db.Set([]byte(msg.Note), signer.Address()); err != nil {
		return nil, err
	}
	res := &tally.DeliverResult{Data: []byte(msg.Note)}
	res.AddTag("note", msg.Note)
	return res, nil
}

type noteQuery struct{}

func (noteQuery) Query(db tally.ReadOnlyKVStore, mod string, data []byte) ([]tally.Model, error) {
	if mod != tally.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported mod %q", mod)
	}
	v, err := db.Get(data)
	if err != nil || v == nil {
		return nil, err
	}
	return []tally.Model{tally.Pair(data, v)}, nil
}

func newTestDispatcher(t *testing.T, db tally.CacheableKVStore, h tally.Handler) (*Dispatcher, *TxCodec) {
	t.Helper()
	codec := NewTxCodec(registerNote)
	qr := tally.NewQueryRouter()
	qr.Register("/notes", noteQuery{})
	d, err := NewDispatcher(db, h, qr, codec.Decode)
	require.NoError(t, err)
	return d, codec
}

func TestDispatcherDeliver(t *testing.T) {
	db := store.MemStore()
	d, codec := newTestDispatcher(t, db, callerHandler{auth: x.CallerAuth{}})
	alice := tally.NewCondition("sigs", "ed25519", []byte("alice"))

	raw, err := codec.Encode(&noteMsg{Note: "first"})
	require.NoError(t, err)

	res := d.CheckTx(alice, raw)
	require.True(t, res.IsOK(), res.Log)
	assert.Equal(t, "checked", res.Log)
	has, err := db.Has([]byte("first"))
	require.NoError(t, err)
	assert.False(t, has, "check must not persist")
	assert.Equal(t, int64(0), d.Height())

	res = d.DeliverTx(alice, raw)
	require.True(t, res.IsOK(), res.Log)
	assert.Equal(t, []byte("first"), res.Data)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, []byte("note"), res.Tags[0].Key)
	assert.Equal(t, int64(1), d.Height())

	v, err := db.Get([]byte("first"))
	require.NoError(t, err)
	assert.Equal(t, []byte(alice.Address()), v)

	// no caller, no write, no height
	raw, err = codec.Encode(&noteMsg{Note: "second"})
	require.NoError(t, err)
	res = d.DeliverTx(nil, raw)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)
	assert.Equal(t, int64(1), d.Height())

	res = d.DeliverTx(alice, []byte{0xff, 0xff, 0xff})
	assert.Equal(t, errors.ErrInput.ABCICode(), res.Code)

	raw, err = codec.Encode(&noteMsg{})
	require.NoError(t, err)
	res = d.DeliverTx(alice, raw)
	assert.Equal(t, errors.ErrEmpty.ABCICode(), res.Code)
}

func TestDispatcherDiscardsFailedCalls(t *testing.T) {
	db := store.MemStore()
	key := []byte("written")
	h := &tallytest.Handler{
		Write:      &tally.Model{Key: key, Value: []byte("value")},
		DeliverErr: errors.ErrState.New("nope"),
	}
	d, _ := newTestDispatcher(t, db, h)
	tx := &tallytest.Tx{Msg: &tallytest.Msg{RoutePath: "test/write"}}

	res := d.Deliver(nil, tx)
	assert.Equal(t, errors.ErrState.ABCICode(), res.Code)
	has, err := db.Has(key)
	require.NoError(t, err)
	assert.False(t, has)

	h.DeliverErr = nil
	res = d.Deliver(nil, tx)
	require.True(t, res.IsOK(), res.Log)
	has, err = db.Has(key)
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, 2, h.DeliverCallCount())
}

func TestDispatcherRedactsPanics(t *testing.T) {
	tx := &tallytest.Tx{Msg: &tallytest.Msg{RoutePath: "test/panic"}}

	d, _ := newTestDispatcher(t, store.MemStore(), tallytest.PanicHandler{Value: "secret path /etc"})
	res := d.Deliver(nil, tx)
	assert.Equal(t, uint32(1), res.Code)
	assert.Equal(t, "internal error", res.Log)

	d.WithDebug(true)
	res = d.Check(nil, tx)
	assert.Equal(t, errors.ErrPanic.ABCICode(), res.Code)
	assert.Contains(t, res.Log, "secret path")
}

func TestDispatcherInitChain(t *testing.T) {
	db := store.MemStore()
	d, _ := newTestDispatcher(t, db, &tallytest.Handler{})
	assert.Equal(t, "", d.ChainID())

	gen := &Genesis{
		ChainID:  "test-chain",
		AppState: tally.Options{"note": []byte(`"init"`)},
	}

	// a failing initializer leaves nothing behind
	failing := initFunc(func(tally.Options, tally.KVStore) error {
		return errors.ErrModel.New("broken")
	})
	err := d.InitChain(gen, failing)
	assert.True(t, errors.ErrModel.Is(err))
	assert.Equal(t, "", d.ChainID())

	require.NoError(t, d.InitChain(gen, initFunc(writeNote)))
	assert.Equal(t, "test-chain", d.ChainID())
	v, err := db.Get([]byte("note"))
	require.NoError(t, err)
	assert.Equal(t, []byte("init"), v)

	err = d.InitChain(gen, initFunc(writeNote))
	assert.True(t, errors.ErrImmutable.Is(err))

	// restarting over the same store restores the chain id
	restarted, _ := newTestDispatcher(t, db, &tallytest.Handler{})
	assert.Equal(t, "test-chain", restarted.ChainID())
}

func TestDispatcherQuery(t *testing.T) {
	db := store.MemStore()
	require.NoError(t, db.Set([]byte("k"), []byte("v")))
	d, _ := newTestDispatcher(t, db, &tallytest.Handler{})

	res := d.Query("/notes", []byte("k"))
	require.Equal(t, uint32(0), res.Code, res.Log)
	models, err := res.Models()
	require.NoError(t, err)
	assert.Equal(t, []tally.Model{tally.Pair([]byte("k"), []byte("v"))}, models)

	res = d.Query("/notes", []byte("missing"))
	require.Equal(t, uint32(0), res.Code, res.Log)
	models, err = res.Models()
	require.NoError(t, err)
	assert.Empty(t, models)

	res = d.Query("/notes?prefix", []byte("k"))
	assert.Equal(t, errors.ErrInput.ABCICode(), res.Code)

	res = d.Query("/unknown", nil)
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)
}

type initFunc func(tally.Options, tally.KVStore) error

func (fn initFunc) FromGenesis(opts tally.Options, db tally.KVStore) error {
	return fn(opts, db)
}

func writeNote(opts tally.Options, db tally.KVStore) error {
	var note string
	if err := opts.ReadOptions("note", &note); err != nil {
		return err
	}
	return db.Set([]byte("note"), []byte(note))
}

func TestSplitPath(t *testing.T) {
	path, mod := splitPath("/receipt/members?page=10")
	assert.Equal(t, "/receipt/members", path)
	assert.Equal(t, "page=10", mod)

	path, mod = splitPath("/receipt/ledger")
	assert.Equal(t, "/receipt/ledger", path)
	assert.Equal(t, "", mod)
}

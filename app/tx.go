package app

import (
	"encoding/json"
	"reflect"
	"sort"

	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	amino "github.com/tendermint/go-amino"
)

// Tx is the envelope a host submits. It carries exactly one message, the
// caller travels separately in the context.
type Tx struct {
	Msg tally.Msg `json:"msg"`

	codec *TxCodec
}

var _ tally.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (tally.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "empty transaction")
	}
	return tx.Msg, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.codec == nil {
		return nil, errors.Wrap(errors.ErrHuman, "transaction without codec")
	}
	return tx.codec.cdc.MarshalBinaryBare(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if tx.codec == nil {
		return errors.Wrap(errors.ErrHuman, "transaction without codec")
	}
	return tx.codec.cdc.UnmarshalBinaryBare(raw, tx)
}

// TxCodec serializes transactions. Extensions register their messages on it
// through their RegisterAmino function, which also makes the message
// available for JSON decoding by path.
type TxCodec struct {
	cdc   *amino.Codec
	types map[string]reflect.Type
}

var _ tally.MsgRegistry = (*TxCodec)(nil)

// NewTxCodec returns a codec with the message interface registered and all
// given registration functions applied.
func NewTxCodec(registers ...func(tally.MsgRegistry)) *TxCodec {
	c := &TxCodec{
		cdc:   amino.NewCodec(),
		types: make(map[string]reflect.Type),
	}
	c.cdc.RegisterInterface((*tally.Msg)(nil), nil)
	for _, r := range registers {
		r(c)
	}
	return c
}

// RegisterConcrete registers a message under its route path. Registering the
// same path twice panics.
func (c *TxCodec) RegisterConcrete(o interface{}, name string, copts *amino.ConcreteOptions) {
	if _, ok := c.types[name]; ok {
		panic("message already registered: " + name)
	}
	c.cdc.RegisterConcrete(o, name, copts)

	t := reflect.TypeOf(o)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	c.types[name] = t
}

// NewTx wraps a message in an envelope bound to this codec.
func (c *TxCodec) NewTx(msg tally.Msg) *Tx {
	return &Tx{Msg: msg, codec: c}
}

// Encode returns the binary form of a transaction carrying msg.
func (c *TxCodec) Encode(msg tally.Msg) ([]byte, error) {
	return c.NewTx(msg).Marshal()
}

// Decode is a tally.TxDecoder.
func (c *TxCodec) Decode(raw []byte) (tally.Tx, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "empty transaction bytes")
	}
	tx := &Tx{codec: c}
	if err := tx.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return tx, nil
}

// DecodeJSON builds the message registered under path from its JSON form.
func (c *TxCodec) DecodeJSON(path string, raw json.RawMessage) (tally.Msg, error) {
	t, ok := c.types[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "message path %q", path)
	}
	ptr := reflect.New(t)
	msg, ok := ptr.Interface().(tally.Msg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%s is not a message", t)
	}
	if len(raw) != 0 {
		if err := json.Unmarshal(raw, msg); err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "message %q: %s", path, err)
		}
	}
	return msg, nil
}

// Paths lists every registered message path in lexical order.
func (c *TxCodec) Paths() []string {
	paths := make([]string, 0, len(c.types))
	for p := range c.types {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

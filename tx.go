package tally

import (
	"reflect"
	"regexp"

	"github.com/tallyweave/tally/errors"
	amino "github.com/tendermint/go-amino"
)

var isPath = regexp.MustCompile(`^[a-zA-Z0-9_\-]+/[a-zA-Z0-9_\-]+$`).MatchString

// Msg is a request for a state transition. It carries no authentication,
// the host supplies the caller through the context.
type Msg interface {
	Persistent

	// Path routes the message to its handler. It has the form
	// <extension>/<action>, and several message types may share one.
	Path() string

	// Validate checks the fields without looking at state.
	Validate() error
}

// Marshaller is satisfied by values as well as pointers.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent is a Marshaller that can also load itself, which usually
// takes a pointer receiver. Both directions may validate.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx is the envelope a host submits around a single message.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message in tx, or "(missing)".
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

func IsValidPath(path string) bool {
	return isPath(path)
}

// TxDecoder turns raw host bytes into a Tx.
type TxDecoder func(txBytes []byte) (Tx, error)

// MsgRegistry is implemented by codecs that extensions register their
// messages on. *amino.Codec satisfies it.
type MsgRegistry interface {
	RegisterConcrete(o interface{}, name string, copts *amino.ConcreteOptions)
}

// LoadMsg copies the message of tx into destination, which must point to
// the message type, and validates it.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return errors.Wrap(err, "cannot get transaction message")
	case msg == nil:
		return errors.Wrap(errors.ErrMsg, "nil message")
	}

	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrap(errors.ErrHuman, "destination must be a non nil pointer")
	}
	src := reflect.Indirect(reflect.ValueOf(msg))
	if !src.Type().AssignableTo(dst.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "%T cannot be loaded into %T", msg, destination)
	}
	dst.Elem().Set(src)

	return errors.Wrap(msg.Validate(), "invalid message")
}

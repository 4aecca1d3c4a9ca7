package orm

import (
	"reflect"

	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
)

// SimpleObj pairs a key with a model. It serves as the Object of every
// bucket whose values need no extra behavior.
type SimpleObj struct {
	key   []byte
	value Model
}

var _ Object = (*SimpleObj)(nil)

func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Key() []byte { return o.key }

func (o *SimpleObj) SetKey(key []byte) { o.key = key }

func (o SimpleObj) Value() tally.Persistent { return o.value }

// Validate requires both key and value and then defers to the value.
func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Wrap(errors.ErrEmpty, "missing key")
	case o.value == nil:
		return errors.Wrap(errors.ErrEmpty, "missing value")
	}
	return errors.Wrap(o.value.Validate(), "invalid value")
}

// Clone copies the key and allocates a zero value of the same model type.
// The model must be a pointer.
func (o *SimpleObj) Clone() Object {
	zero := reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(Model)
	var key []byte
	if len(o.key) > 0 {
		key = append(key, o.key...)
	}
	return &SimpleObj{key: key, value: zero}
}

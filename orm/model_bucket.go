package orm

import (
	"reflect"

	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
)

// ModelBucket stores models directly, without an Object wrapper. Keys are
// given without the bucket prefix.
type ModelBucket interface {
	// One loads the model stored under key into dest. It fails with
	// ErrNotFound on a miss and with ErrType when dest cannot hold the
	// stored type.
	One(db tally.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns ErrNotFound on a miss and nil otherwise.
	Has(db tally.ReadOnlyKVStore, key []byte) error

	// Page appends one page of models to the slice dest points to, and
	// returns their keys in the same ascending order.
	Page(db tally.ReadOnlyKVStore, req PageRequest, dest interface{}) ([][]byte, error)

	// Put validates m before storing it.
	Put(db tally.KVStore, key []byte, m Model) error

	// Delete fails with ErrNotFound when nothing is stored under key.
	Delete(db tally.KVStore, key []byte) error

	Register(name string, r tally.QueryRouter)
}

// NewModelBucket returns a bucket holding models of the same type as
// proto, which must be a pointer.
func NewModelBucket(name string, proto Model) ModelBucket {
	return &modelBucket{bucket: NewBucket(name, NewSimpleObj(nil, proto))}
}

type modelBucket struct {
	bucket Bucket
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) One(db tally.ReadOnlyKVStore, key []byte, dest Model) error {
	obj, err := mb.bucket.Get(db, key)
	switch {
	case err != nil:
		return err
	case obj == nil || obj.Value() == nil:
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}

	stored := reflect.ValueOf(obj.Value())
	target := reflect.ValueOf(dest)
	if !stored.Type().AssignableTo(target.Type()) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %T", obj.Value(), dest)
	}
	target.Elem().Set(stored.Elem())
	return nil
}

func (mb *modelBucket) Has(db tally.ReadOnlyKVStore, key []byte) error {
	switch ok, err := mb.bucket.Has(db, key); {
	case err != nil:
		return err
	case !ok:
		return errors.ErrNotFound
	}
	return nil
}

func (mb *modelBucket) Page(db tally.ReadOnlyKVStore, req PageRequest, dest interface{}) ([][]byte, error) {
	ptr := reflect.ValueOf(dest)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrap(errors.ErrType, "destination must be a pointer to a slice of models")
	}
	list := ptr.Elem()
	want := list.Type().Elem()

	objs, err := mb.bucket.Page(db, req)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, len(objs))
	for i, obj := range objs {
		v, err := assignable(reflect.ValueOf(obj.Value()), want)
		if err != nil {
			return nil, err
		}
		list = reflect.Append(list, v)
		keys[i] = obj.Key()
	}
	ptr.Elem().Set(list)
	return keys, nil
}

// assignable returns v, or the value it points to, whichever fits t. The
// slice may hold either models or pointers to them.
func assignable(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if v.Kind() == reflect.Ptr && v.Elem().Type().AssignableTo(t) {
		return v.Elem(), nil
	}
	return v, errors.Wrapf(errors.ErrType, "%s cannot be represented as %s", v.Type(), t)
}

func (mb *modelBucket) Put(db tally.KVStore, key []byte, m Model) error {
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	return errors.Wrap(mb.bucket.Save(db, NewSimpleObj(key, m)), "cannot store in the database")
}

func (mb *modelBucket) Delete(db tally.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return mb.bucket.Delete(db, key)
}

func (mb *modelBucket) Register(name string, r tally.QueryRouter) {
	mb.bucket.Register(name, r)
}

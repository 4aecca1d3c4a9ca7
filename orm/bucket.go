/*
Package orm stores typed objects in named sections of a key value store.

Every bucket owns the keys starting with its name and a colon, and holds
objects of a single type. Buckets answer queries for one key, for a key
prefix and for a page in ascending key order.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
)

var validBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is the untyped building block for storing objects under a
// prefix. Extensions embed it in a wrapper whose methods take and return
// their own model type.
type Bucket struct {
	name   string
	prefix []byte
	proto  Cloneable
}

var _ tally.QueryHandler = Bucket{}

// NewBucket panics on an invalid name, since buckets are declared at
// start up.
func NewBucket(name string, proto Cloneable) Bucket {
	if !validBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return Bucket{
		name:   name,
		prefix: []byte(name + ":"),
		proto:  proto,
	}
}

func (b Bucket) Name() string {
	return b.name
}

// Register exposes the bucket at /<path>, or at /<bucket name> when path
// is empty.
func (b Bucket) Register(path string, r tally.QueryRouter) {
	if path == "" {
		path = b.name
	}
	r.Register("/"+path, b)
}

// Query serves the key, prefix and page modifiers.
func (b Bucket) Query(db tally.ReadOnlyKVStore, mod string, data []byte) ([]tally.Model, error) {
	switch {
	case mod == tally.KeyQueryMod:
		return b.queryKey(db, data)
	case mod == tally.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	case IsPageMod(mod):
		req, err := ParsePageMod(mod, data)
		if err != nil {
			return nil, err
		}
		return b.queryPage(db, req)
	}
	return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %q", mod)
}

// queryKey returns no models on a miss.
func (b Bucket) queryKey(db tally.ReadOnlyKVStore, key []byte) ([]tally.Model, error) {
	full := b.DBKey(key)
	raw, err := db.Get(full)
	if err != nil || raw == nil {
		return nil, err
	}
	return []tally.Model{tally.Pair(full, raw)}, nil
}

// DBKey returns a fresh slice holding the prefixed key.
func (b Bucket) DBKey(key []byte) []byte {
	full := make([]byte, 0, len(b.prefix)+len(key))
	full = append(full, b.prefix...)
	return append(full, key...)
}

// Get returns nil without an error when nothing is stored under key.
func (b Bucket) Get(db tally.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil || raw == nil {
		return nil, err
	}
	return b.Parse(key, raw)
}

func (b Bucket) Has(db tally.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Parse loads a stored value into a new object keyed by key, which must
// not carry the bucket prefix.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %s: %s", b.name, err)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates obj before writing it.
func (b Bucket) Save(db tally.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	raw, err := obj.Value().Marshal()
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal %s: %s", b.name, err)
	}
	return db.Set(b.DBKey(obj.Key()), raw)
}

func (b Bucket) Delete(db tally.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}

// Page returns up to the request limit of objects in ascending key order,
// starting right after req.StartAfter.
func (b Bucket) Page(db tally.ReadOnlyKVStore, req PageRequest) ([]Object, error) {
	models, err := b.queryPage(db, req)
	if err != nil {
		return nil, err
	}
	objs := make([]Object, len(models))
	for i, m := range models {
		if objs[i], err = b.Parse(m.Key[len(b.prefix):], m.Value); err != nil {
			return nil, err
		}
	}
	return objs, nil
}

func (b Bucket) queryPage(db tally.ReadOnlyKVStore, req PageRequest) ([]tally.Model, error) {
	from := b.prefix
	if len(req.StartAfter) > 0 {
		// A trailing zero byte gives the first key after StartAfter.
		from = append(b.DBKey(req.StartAfter), 0)
	}
	iter, err := db.Iterator(from, prefixEnd(b.prefix))
	if err != nil {
		return nil, err
	}
	return consumeN(iter, req.limit()), nil
}

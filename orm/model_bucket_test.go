package orm

import (
	"testing"

	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/store"
	"github.com/tallyweave/tally/tallytest/assert"
)

func TestModelBucket(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnt", &counter{})

	var c counter
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("a"), &c))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("a")))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, []byte("a")))

	assert.Nil(t, b.Put(db, []byte("a"), &counter{Count: 3}))
	assert.Nil(t, b.Has(db, []byte("a")))
	assert.Nil(t, b.One(db, []byte("a"), &c))
	assert.Equal(t, uint64(3), c.Count)

	assert.IsErr(t, errors.ErrEmpty, b.Put(db, []byte("b"), &counter{}))

	assert.Nil(t, b.Delete(db, []byte("a")))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("a")))
}

type otherModel struct {
	counter
}

func TestModelBucketWrongType(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnt", &counter{})
	assert.Nil(t, b.Put(db, []byte("a"), &counter{Count: 1}))

	var o otherModel
	assert.IsErr(t, errors.ErrType, b.One(db, []byte("a"), &o))
}

func TestModelBucketPage(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnt", &counter{})
	for i, k := range []string{"c", "a", "b"} {
		assert.Nil(t, b.Put(db, []byte(k), &counter{Count: uint64(i + 1)}))
	}

	var values []counter
	keys, err := b.Page(db, PageRequest{Limit: 2}, &values)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, keys)
	assert.Equal(t, []counter{{Count: 2}, {Count: 3}}, values)

	var ptrs []*counter
	keys, err = b.Page(db, PageRequest{StartAfter: []byte("b")}, &ptrs)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("c")}, keys)
	assert.Equal(t, []*counter{{Count: 1}}, ptrs)

	var wrong counter
	_, err = b.Page(db, PageRequest{}, &wrong)
	assert.IsErr(t, errors.ErrType, err)
}

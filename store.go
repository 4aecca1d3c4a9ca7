package tally

// ReadOnlyKVStore is the read side of every store. Keys must not be nil.
type ReadOnlyKVStore interface {
	// Get returns nil for a missing key.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// Iterator walks [start, end) in ascending key order. A nil bound
	// leaves its side open. The range must not be written to while the
	// iterator is open.
	Iterator(start, end []byte) (Iterator, error)
	// ReverseIterator walks the same range in descending order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write side shared by stores and batches. Callers must
// not modify key or value slices after handing them over.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is the store handlers work on.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch collects writes and applies them to its store on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator is a cursor over a key range, used as
//
//	defer it.Close()
//	for ; it.Valid(); it.Next() {
//		use(it.Key(), it.Value())
//	}
//
// Next, Key and Value panic once Valid returned false, which it then does
// forever. Returned slices must not be modified.
type Iterator interface {
	Valid() bool
	Next()
	Key() []byte
	Value() []byte
	Close()
}

// CacheableKVStore can open a cache wrap over itself.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap buffers writes over its parent store and shows them to its
// own reads. Write applies the buffer to the parent, Discard drops it.
// Cache wraps nest.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

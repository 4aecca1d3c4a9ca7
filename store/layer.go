package store

import (
	"bytes"

	"github.com/google/btree"
)

// treeDegree keeps tree nodes small; a layer rarely holds more than the
// writes of a single call.
const treeDegree = 2

// Layer buffers writes on top of a parent store. Reads fall through to the
// parent for keys the layer has not touched. Write replays the buffered
// operations onto the parent in the order they were made, Discard drops
// them.
type Layer struct {
	pending *btree.BTree
	nodes   *btree.FreeList
	parent  ReadOnlyKVStore
	out     Batch
}

var _ KVCacheWrap = (*Layer)(nil)

// MemStore returns an empty in-memory store. Hosts without persistence of
// their own hand it to the dispatcher, and tests use it everywhere.
func MemStore() CacheableKVStore {
	return newLayer(nullStore{}, NewJournal(nullStore{}), nil)
}

// Recorder returns an in-memory store together with the journal of every
// write made to it since the last Write. Write has no parent to flush to, so
// it drops both the contents and the journal.
func Recorder() (KVCacheWrap, *Journal) {
	j := NewJournal(nullStore{})
	return newLayer(nullStore{}, j, nil), j
}

// newLayer shares nodes with other layers of the same stack when given.
func newLayer(parent ReadOnlyKVStore, out Batch, nodes *btree.FreeList) *Layer {
	if nodes == nil {
		nodes = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return &Layer{
		pending: btree.NewWithFreeList(treeDegree, nodes),
		nodes:   nodes,
		parent:  parent,
		out:     out,
	}
}

// CacheWrap stacks a new layer that writes into this one.
func (l *Layer) CacheWrap() KVCacheWrap {
	return newLayer(l, NewJournal(l), l.nodes)
}

// NewBatch returns a journal that writes into this layer.
func (l *Layer) NewBatch() Batch {
	return NewJournal(l)
}

// Write flushes all buffered operations to the parent and empties the layer.
func (l *Layer) Write() error {
	err := l.out.Write()
	l.Discard()
	return err
}

// Discard empties the layer, returning its nodes to the shared free list.
func (l *Layer) Discard() {
	for l.pending.Len() > 0 {
		l.pending.DeleteMin()
	}
}

func (l *Layer) Set(key, value []byte) error {
	l.pending.ReplaceOrInsert(&entry{key: key, value: value})
	return l.out.Set(key, value)
}

func (l *Layer) Delete(key []byte) error {
	l.pending.ReplaceOrInsert(&entry{key: key, removed: true})
	return l.out.Delete(key)
}

func (l *Layer) Get(key []byte) ([]byte, error) {
	if e := l.lookup(key); e != nil {
		if e.removed {
			return nil, nil
		}
		return e.value, nil
	}
	return l.parent.Get(key)
}

func (l *Layer) Has(key []byte) (bool, error) {
	if e := l.lookup(key); e != nil {
		return !e.removed, nil
	}
	return l.parent.Has(key)
}

// Iterator walks [start, end) in ascending order, merging buffered
// operations with the parent contents.
func (l *Layer) Iterator(start, end []byte) (Iterator, error) {
	below, err := l.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(l.span(start, end, false), below, false), nil
}

// ReverseIterator walks [start, end) in descending order.
func (l *Layer) ReverseIterator(start, end []byte) (Iterator, error) {
	below, err := l.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(l.span(start, end, true), below, true), nil
}

func (l *Layer) lookup(key []byte) *entry {
	if found := l.pending.Get(&entry{key: key}); found != nil {
		return found.(*entry)
	}
	return nil
}

// span collects the buffered entries within [start, end). A nil bound
// leaves that side open.
func (l *Layer) span(start, end []byte, descending bool) []*entry {
	var res []*entry
	add := func(it btree.Item) bool {
		res = append(res, it.(*entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		l.pending.Ascend(add)
	case start == nil:
		l.pending.AscendLessThan(&entry{key: end}, add)
	case end == nil:
		l.pending.AscendGreaterOrEqual(&entry{key: start}, add)
	default:
		l.pending.AscendRange(&entry{key: start}, &entry{key: end}, add)
	}

	if descending {
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}
	return res
}

// entry is a buffered write. A removed entry hides the parent value.
type entry struct {
	key     []byte
	value   []byte
	removed bool
}

var _ btree.Item = (*entry)(nil)

func (e *entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(*entry).key) < 0
}

package store

import "bytes"

// origin tells which side holds the next key of a merge.
type origin int32

const (
	exhausted origin = iota
	fromLayer
	fromParent
	fromBoth
)

// mergeIterator interleaves the buffered entries of a layer with the
// iterator of its parent. A layer entry shadows the parent entry with the
// same key, and removed entries are skipped along with what they hide.
type mergeIterator struct {
	entries    []*entry
	pos        int
	below      Iterator
	descending bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(entries []*entry, below Iterator, descending bool) *mergeIterator {
	it := &mergeIterator{
		entries:    entries,
		below:      below,
		descending: descending,
	}
	it.skipRemoved()
	return it
}

func (it *mergeIterator) Valid() bool {
	return it.next() != exhausted
}

// Next panics when the iterator is exhausted.
func (it *mergeIterator) Next() {
	switch it.next() {
	case fromLayer:
		it.pos++
	case fromParent:
		it.below.Next()
	case fromBoth:
		it.pos++
		it.below.Next()
	default:
		panic("merge iterator exhausted")
	}
	it.skipRemoved()
}

func (it *mergeIterator) Key() []byte {
	switch it.next() {
	case fromLayer, fromBoth:
		return it.entries[it.pos].key
	case fromParent:
		return it.below.Key()
	}
	panic("merge iterator exhausted")
}

func (it *mergeIterator) Value() []byte {
	switch it.next() {
	case fromLayer, fromBoth:
		return it.entries[it.pos].value
	case fromParent:
		return it.below.Value()
	}
	panic("merge iterator exhausted")
}

func (it *mergeIterator) Close() {
	if it.below != nil {
		it.below.Close()
	}
	it.entries = nil
}

func (it *mergeIterator) skipRemoved() {
	for {
		src := it.next()
		if src != fromLayer && src != fromBoth {
			return
		}
		if !it.entries[it.pos].removed {
			return
		}
		it.pos++
		if src == fromBoth {
			it.below.Next()
		}
	}
}

// next compares the heads of both sides in iteration order.
func (it *mergeIterator) next() origin {
	layer := it.pos < len(it.entries)
	parent := it.below != nil && it.below.Valid()
	switch {
	case !layer && !parent:
		return exhausted
	case !parent:
		return fromLayer
	case !layer:
		return fromParent
	}

	cmp := bytes.Compare(it.entries[it.pos].key, it.below.Key())
	if it.descending {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return fromLayer
	case cmp > 0:
		return fromParent
	}
	return fromBoth
}

package store

import (
	"github.com/tallyweave/tally/errors"
)

type opKind int32

const (
	setKind opKind = iota + 1
	delKind
)

// Op is a single recorded write.
type Op struct {
	kind  opKind
	key   []byte
	value []byte
}

// SetOp records a write of value under key.
func SetOp(key, value []byte) Op {
	return Op{kind: setKind, key: key, value: value}
}

// DelOp records a removal of key.
func DelOp(key []byte) Op {
	return Op{kind: delKind, key: key}
}

// Apply replays the operation on out.
func (o Op) Apply(out SetDeleter) error {
	switch o.kind {
	case setKind:
		return out.Set(o.key, o.value)
	case delKind:
		return out.Delete(o.key)
	}
	return errors.Wrapf(errors.ErrDatabase, "unknown op kind: %d", o.kind)
}

// IsSetOp returns true if the operation writes a value.
func (o Op) IsSetOp() bool { return o.kind == setKind }

func (o Op) Key() []byte { return o.key }

func (o Op) Value() []byte { return o.value }

// Journal is a Batch that keeps operations in memory and replays them on
// its target when written. It offers no atomicity, so it only ever targets
// other in-memory stores.
type Journal struct {
	target SetDeleter
	ops    []Op
}

var _ Batch = (*Journal)(nil)

func NewJournal(target SetDeleter) *Journal {
	return &Journal{target: target}
}

func (j *Journal) Set(key, value []byte) error {
	j.ops = append(j.ops, SetOp(key, value))
	return nil
}

func (j *Journal) Delete(key []byte) error {
	j.ops = append(j.ops, DelOp(key))
	return nil
}

// Write replays every operation in order and empties the journal. On
// failure the remaining operations stay pending.
func (j *Journal) Write() error {
	for i, op := range j.ops {
		if err := op.Apply(j.target); err != nil {
			j.ops = j.ops[i:]
			return err
		}
	}
	j.ops = nil
	return nil
}

// Ops returns the pending operations.
func (j *Journal) Ops() []Op {
	return j.ops
}

// nullStore is the bottom of every in-memory stack. It holds nothing and
// accepts every write.
type nullStore struct{}

var _ KVStore = nullStore{}

func (nullStore) Get([]byte) ([]byte, error) { return nil, nil }
func (nullStore) Has([]byte) (bool, error)   { return false, nil }
func (nullStore) Set(_, _ []byte) error      { return nil }
func (nullStore) Delete([]byte) error        { return nil }
func (n nullStore) NewBatch() Batch          { return NewJournal(n) }

func (nullStore) Iterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (nullStore) ReverseIterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

// SliceIterator iterates over models that are already loaded.
type SliceIterator struct {
	data []Model
	pos  int
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

func (s *SliceIterator) Valid() bool { return s.pos < len(s.data) }

// Next panics when the iterator is exhausted.
func (s *SliceIterator) Next() {
	s.mustBeValid()
	s.pos++
}

func (s *SliceIterator) Key() []byte {
	s.mustBeValid()
	return s.data[s.pos].Key
}

func (s *SliceIterator) Value() []byte {
	s.mustBeValid()
	return s.data[s.pos].Value
}

func (s *SliceIterator) Close() { s.data = nil }

func (s *SliceIterator) mustBeValid() {
	if !s.Valid() {
		panic("slice iterator exhausted")
	}
}

package orm

import (
	"github.com/tallyweave/tally"
)

// Object is a keyed value a Bucket can store. The key is stored without
// the bucket prefix.
type Object interface {
	Keyed
	Cloneable
	// Validate is called before every save.
	Validate() error
	Value() tally.Persistent
}

type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable produces an empty object of the same type to load data into.
type Cloneable interface {
	Clone() Object
}

// Model is a persistent value that can check itself, the shape every
// value kept in a Bucket or ModelBucket has.
type Model interface {
	tally.Persistent
	Validate() error
}

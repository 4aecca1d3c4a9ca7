// nolint
package store

import "github.com/tallyweave/tally"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = tally.ReadOnlyKVStore
type SetDeleter = tally.SetDeleter
type KVStore = tally.KVStore
type Batch = tally.Batch
type Iterator = tally.Iterator
type CacheableKVStore = tally.CacheableKVStore
type KVCacheWrap = tally.KVCacheWrap
type Model = tally.Model

package tally

import (
	"fmt"
)

// Query modifiers understood by buckets. A modifier follows the path after
// a question mark, as in "/receipt/members?prefix".
const (
	// KeyQueryMod looks up the exact key given as query data.
	KeyQueryMod = ""
	// PrefixQueryMod returns every model whose key starts with the data.
	PrefixQueryMod = "prefix"
	// PageQueryMod returns at most one page of results, starting after the
	// key carried in the query data.
	PageQueryMod = "page"
)

// Model is a raw key and value pair as kept in the store.
type Model struct {
	Key   []byte
	Value []byte
}

func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers read only queries for one path.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds an extension's query handlers to a router.
type QueryRegister func(QueryRouter)

// QueryRouter dispatches queries by exact path.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

func (r QueryRouter) RegisterAll(registers ...QueryRegister) {
	for _, register := range registers {
		register(r)
	}
}

// Register binds h to path. Binding a path twice panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, taken := r.routes[path]; taken {
		panic(fmt.Sprintf("query path %q already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the handler bound to path, or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

package app

import (
	"fmt"

	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
)

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]tally.Handler
}

var _ tally.Registry = (*Router)(nil)
var _ tally.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]tally.Handler, 10),
	}
}

// Handle adds a new handler for the given message path. It panics if the
// path is malformed or already taken.
func (r *Router) Handle(path string, h tally.Handler) {
	if !tally.IsValidPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path. If no path is
// found, returns a notFound Handler. Never returns nil.
func (r *Router) Handler(path string) tally.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx tally.Context, store tally.KVStore, tx tally.Tx) (*tally.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "nil message")
	}
	return r.Handler(msg.Path()).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx tally.Context, store tally.KVStore, tx tally.Tx) (*tally.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "nil message")
	}
	return r.Handler(msg.Path()).Deliver(ctx, store, tx)
}

type notFoundHandler string

func (path notFoundHandler) Check(tally.Context, tally.KVStore, tally.Tx) (*tally.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(tally.Context, tally.KVStore, tally.Tx) (*tally.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

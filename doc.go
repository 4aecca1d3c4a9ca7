/*
Package tally defines the interfaces shared by every tally extension, as well
as implementations of the simpler building blocks (when interfaces would be
too much overhead).

An extension is a set of message handlers and query handlers operating on a
key value store. The host hands each call a Context, a KVStore scoped to that
call and a Tx carrying the message. The store a handler receives is a cache
wrap: it is written back only when the handler returns without an error, so a
handler may freely mutate state before a later step fails.

We pass context through context.Context between the host and the handlers.
There exist two functions for every value XYZ of type T carried by the context:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set, to avoid lower level code
overwriting values set by the host (eg. height, chain id).
*/
package tally

package tallytest

import "github.com/tallyweave/tally"

// Handler is a mock implementation of the tally.Handler interface. It
// returns the configured results and counts calls.
type Handler struct {
	calls

	CheckResult tally.CheckResult
	CheckErr    error

	DeliverResult tally.DeliverResult
	DeliverErr    error

	// Write if set is stored under its key by every call, before the
	// configured error is returned.
	Write *tally.Model
}

var _ tally.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.CheckResult, error) {
	h.check++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.DeliverResult, error) {
	h.deliver++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) write(db tally.KVStore) error {
	if h.Write == nil {
		return nil
	}
	return db.Set(h.Write.Key, h.Write.Value)
}

// PanicHandler panics with the configured value on every call.
type PanicHandler struct {
	Value interface{}
}

var _ tally.Handler = PanicHandler{}

func (p PanicHandler) Check(tally.Context, tally.KVStore, tally.Tx) (*tally.CheckResult, error) {
	panic(p.Value)
}

func (p PanicHandler) Deliver(tally.Context, tally.KVStore, tally.Tx) (*tally.DeliverResult, error) {
	panic(p.Value)
}

package cash

import (
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/x"
)

// RegisterRoutes binds the cash message handlers.
func RegisterRoutes(r tally.Registry, auth x.Authenticator, control Controller) {
	r.Handle(pathSendMsg, NewSendHandler(auth, control))
}

// RegisterQuery exposes wallets at /cash/balances.
func RegisterQuery(qr tally.QueryRouter) {
	NewBucket().Register("cash/balances", qr)
}

// SendHandler transfers coins between wallets on behalf of the source
// owner. Check only verifies the signature, funds are verified on
// delivery.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ tally.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{auth: auth, control: control}
}

func (h SendHandler) Check(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.CheckResult, error) {
	if _, err := h.load(ctx, tx); err != nil {
		return nil, err
	}
	return &tally.CheckResult{}, nil
}

func (h SendHandler) Deliver(ctx tally.Context, db tally.KVStore, tx tally.Tx) (*tally.DeliverResult, error) {
	msg, err := h.load(ctx, tx)
	if err != nil {
		return nil, err
	}
	coin := NewCoin(msg.Denom, msg.Amount)
	if err := h.control.MoveCoins(db, msg.Source, msg.Destination, coin); err != nil {
		return nil, err
	}

	var res tally.DeliverResult
	res.AddTag("cash.src", msg.Source.String())
	res.AddTag("cash.dst", msg.Destination.String())
	return &res, nil
}

// load returns the validated message once the source owner is known to
// have signed it.
func (h SendHandler) load(ctx tally.Context, tx tally.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := tally.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return &msg, nil
}

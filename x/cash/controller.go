package cash

import (
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/num"
)

// Controller is the functionality needed by cash.Handler and by other
// extensions moving value (eg. the receipt engine).
type Controller interface {
	// Balance returns the amount of denom held by the address.
	Balance(db tally.ReadOnlyKVStore, addr tally.Address, denom string) (num.Uint, error)
	// MoveCoins moves the given amount from src to dest. If src doesn't
	// exist, or doesn't have sufficient coins, it fails.
	MoveCoins(db tally.KVStore, src, dest tally.Address, amount Coin) error
	// IssueCoins adds the given amount of coins to the destination
	// address. Fails if it overflows the wallet.
	IssueCoins(db tally.KVStore, dest tally.Address, amount Coin) error
}

// BaseController is a simple implementation of Controller
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a base controller
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount of denom held by the address.
func (c BaseController) Balance(db tally.ReadOnlyKVStore, addr tally.Address, denom string) (num.Uint, error) {
	wallet, err := c.bucket.Get(db, addr)
	if err != nil {
		return num.Zero(), err
	}
	if wallet == nil {
		return num.Zero(), nil
	}
	return wallet.Balance(denom), nil
}

// MoveCoins moves the given amount from src to dest.
func (c BaseController) MoveCoins(db tally.KVStore, src, dest tally.Address, amount Coin) error {
	if amount.Amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "non-positive transfer")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "invalid recipient")
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrEmpty, "empty account %s", src)
	}
	if err := sender.value.Subtract(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(db, sender); err != nil {
		return err
	}

	// the recipient is loaded after the sender was saved so that a
	// transfer to self is a noop
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.value.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(db tally.KVStore, dest tally.Address, amount Coin) error {
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.value.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

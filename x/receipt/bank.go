package receipt

import (
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/num"
	"github.com/tallyweave/tally/x/cash"
)

// Bank moves value of a denomination between addresses.
type Bank interface {
	// Transfer moves amount from src to dst. It fails with ErrTransfer if
	// src cannot cover the amount or dst is not a valid recipient.
	Transfer(db tally.KVStore, denom Denom, src, dst tally.Address, amount num.Uint) error
}

// CashBank is a Bank backed by the cash extension. Both native and token
// denominations are held as cash balances keyed by Denom.Key.
type CashBank struct {
	ctrl cash.Controller
}

var _ Bank = CashBank{}

// NewCashBank returns a bank moving value with the given cash controller.
func NewCashBank(ctrl cash.Controller) CashBank {
	return CashBank{ctrl: ctrl}
}

func (b CashBank) Transfer(db tally.KVStore, denom Denom, src, dst tally.Address, amount num.Uint) error {
	if err := b.ctrl.MoveCoins(db, src, dst, cash.NewCoin(denom.Key(), amount)); err != nil {
		return errors.Wrapf(ErrTransfer, "move %s %s from %s to %s: %s", amount, denom, src, dst, err)
	}
	return nil
}

// Balance returns the amount of the denomination held by addr.
func (b CashBank) Balance(db tally.ReadOnlyKVStore, denom Denom, addr tally.Address) (num.Uint, error) {
	return b.ctrl.Balance(db, addr, denom.Key())
}

package receipt

import (
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/num"
)

// Deposit distributes amount over the registered weight. While there is no
// weight the amount is held back as undistributed and folded into the next
// deposit. The ledger is not modified if an error is returned.
func (l *Ledger) Deposit(amount num.Uint) error {
	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "deposit must be positive")
	}
	if err := amount.Check128(); err != nil {
		return errors.Wrap(errors.ErrAmount, err.Error())
	}
	received, err := l.TotalReceived.Add(amount)
	if err != nil {
		return errors.Wrap(err, "total received")
	}

	if l.TotalWeight.IsZero() {
		held, err := l.Undistributed.Add(amount)
		if err != nil {
			return errors.Wrap(err, "undistributed")
		}
		l.Undistributed = held
		l.TotalReceived = received
		return nil
	}

	pool, err := amount.Add(l.Undistributed)
	if err != nil {
		return errors.Wrap(err, "deposit pool")
	}
	delta, err := Increase(pool, l.TotalWeight)
	if err != nil {
		return err
	}
	acc, err := l.Accumulator.Add(delta)
	if err != nil {
		return errors.Wrap(err, "accumulator")
	}
	l.Accumulator = acc
	l.Undistributed = num.Zero()
	l.TotalReceived = received
	return nil
}

// Settle returns the value earned by the member since its last settlement
// and moves its checkpoint to the current accumulator.
func (l *Ledger) Settle(m *Member) (num.Uint, error) {
	owed, err := l.Preview(m)
	if err != nil {
		return num.Zero(), err
	}
	m.LastAccumulator = l.Accumulator
	return owed, nil
}

// Preview is Settle without moving the checkpoint.
func (l *Ledger) Preview(m *Member) (num.Uint, error) {
	if m.LastAccumulator.GT(l.Accumulator) {
		return num.Zero(), errors.Wrapf(errors.ErrOverflow,
			"checkpoint invariant: member checkpoint %s ahead of accumulator %s", m.LastAccumulator, l.Accumulator)
	}
	delta, err := l.Accumulator.Sub(m.LastAccumulator)
	if err != nil {
		return num.Zero(), err
	}
	return Entitlement(m.Weight, delta)
}

// Pending returns everything the member could claim right now.
func (l *Ledger) Pending(m *Member) (num.Uint, error) {
	owed, err := l.Preview(m)
	if err != nil {
		return num.Zero(), err
	}
	total, err := owed.Add(m.Unclaimed)
	if err != nil {
		return num.Zero(), errors.Wrap(err, "pending")
	}
	return total, nil
}

// recordClaim adds a payout to the claimed total.
func (l *Ledger) recordClaim(amount num.Uint) error {
	claimed, err := l.TotalClaimed.Add(amount)
	if err != nil {
		return errors.Wrap(err, "total claimed")
	}
	if claimed.GT(l.TotalReceived) {
		return errors.Wrapf(errors.ErrOverflow, "claimed %s exceeds received %s", claimed, l.TotalReceived)
	}
	l.TotalClaimed = claimed
	return nil
}

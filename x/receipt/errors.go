package receipt

import "github.com/tallyweave/tally/errors"

var (
	// ErrInvalidWeight is returned when a weight cannot be represented
	// in 128 bits, alone or as part of the total weight.
	ErrInvalidWeight = errors.Register(300, "invalid weight")
	// ErrInvalidTransition is returned for phase changes that are not
	// allowed.
	ErrInvalidTransition = errors.Register(301, "invalid phase transition")
	// ErrNothingToClaim is returned when a claim would pay out nothing.
	ErrNothingToClaim = errors.Register(302, "nothing to claim")
	// ErrTransfer is returned when the bank refused to move value.
	ErrTransfer = errors.Register(303, "transfer failed")
)

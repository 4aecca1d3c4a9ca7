package receipt

import (
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/num"
)

// Precision is the scaling factor of accumulator values.
var Precision = num.MustParseUint("1000000000000000000")

// Increase returns the accumulator advance produced by distributing
// totalDeposit over totalWeight, rounded down.
//
// Callers must not pass a zero weight. Value deposited while there is no
// weight belongs to the undistributed remainder instead.
func Increase(totalDeposit, totalWeight num.Uint) (num.Uint, error) {
	if totalWeight.IsZero() {
		return num.Zero(), errors.Wrap(errors.ErrDivisionByZero, "accumulator increase with no weight")
	}
	scaled, err := totalDeposit.Mul(Precision)
	if err != nil {
		return num.Zero(), errors.Wrap(err, "scale deposit")
	}
	return scaled.Div(totalWeight)
}

// Entitlement returns the value earned by weight over an accumulator
// advance of delta, rounded down. The result always fits in 128 bits.
func Entitlement(weight, delta num.Uint) (num.Uint, error) {
	product, err := weight.Mul(delta)
	if err != nil {
		return num.Zero(), errors.Wrap(err, "entitlement")
	}
	owed, err := product.Div(Precision)
	if err != nil {
		return num.Zero(), err
	}
	if err := owed.Check128(); err != nil {
		return num.Zero(), errors.Wrap(err, "entitlement")
	}
	return owed, nil
}

/*
Package num provides a checked unsigned integer used for every amount, weight
and scaled value kept by the ledger.

Uint is backed by a 256 bit word. Amounts and weights are limited to 128 bits
by the code that accepts them (see Check128), which leaves room for the
fixed point scaling of the distribution accumulator without ever silently
wrapping around. Every arithmetic operation reports an overflow as
errors.ErrOverflow instead of truncating.
*/
package num

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/tallyweave/tally/errors"
)

// Uint is an immutable unsigned integer of up to 256 bits. The zero value is
// ready to use and represents 0.
type Uint struct {
	u uint256.Int
}

// NewUint returns a Uint holding given value.
func NewUint(v uint64) Uint {
	var n Uint
	n.u.SetUint64(v)
	return n
}

// Zero returns a zero value.
func Zero() Uint {
	return Uint{}
}

// ParseUint parses a base 10 representation of an unsigned integer.
func ParseUint(s string) (Uint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Uint{}, errors.Wrap(errors.ErrInput, "empty number")
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Uint{}, errors.Wrapf(errors.ErrInput, "not a number: %q", s)
	}
	if b.Sign() < 0 {
		return Uint{}, errors.Wrapf(errors.ErrInput, "negative number: %q", s)
	}
	u, overflow := uint256.FromBig(b)
	if overflow {
		return Uint{}, errors.Wrapf(errors.ErrOverflow, "number %q exceeds 256 bits", s)
	}
	return Uint{u: *u}, nil
}

// MustParseUint is like ParseUint but panics on error. Use only with
// constant input.
func MustParseUint(s string) Uint {
	n, err := ParseUint(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Add returns a + b.
func (a Uint) Add(b Uint) (Uint, error) {
	var res Uint
	if _, overflow := res.u.AddOverflow(&a.u, &b.u); overflow {
		return Uint{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", a, b)
	}
	return res, nil
}

// Sub returns a - b. Going below zero is reported as an overflow.
func (a Uint) Sub(b Uint) (Uint, error) {
	var res Uint
	if _, underflow := res.u.SubOverflow(&a.u, &b.u); underflow {
		return Uint{}, errors.Wrapf(errors.ErrOverflow, "%s - %s", a, b)
	}
	return res, nil
}

// Mul returns a * b.
func (a Uint) Mul(b Uint) (Uint, error) {
	var res Uint
	if _, overflow := res.u.MulOverflow(&a.u, &b.u); overflow {
		return Uint{}, errors.Wrapf(errors.ErrOverflow, "%s * %s", a, b)
	}
	return res, nil
}

// Div returns floor(a / b).
func (a Uint) Div(b Uint) (Uint, error) {
	if b.IsZero() {
		return Uint{}, errors.Wrapf(errors.ErrDivisionByZero, "%s / 0", a)
	}
	var res Uint
	res.u.Div(&a.u, &b.u)
	return res, nil
}

// Mod returns a mod b.
func (a Uint) Mod(b Uint) (Uint, error) {
	if b.IsZero() {
		return Uint{}, errors.Wrapf(errors.ErrDivisionByZero, "%s mod 0", a)
	}
	var res Uint
	res.u.Mod(&a.u, &b.u)
	return res, nil
}

// IsZero returns true if the value is 0.
func (a Uint) IsZero() bool {
	return a.u.IsZero()
}

// Cmp returns -1, 0 or +1 when a is respectively less, equal or greater
// than b.
func (a Uint) Cmp(b Uint) int {
	return a.u.Cmp(&b.u)
}

// Equals returns true if both values are equal.
func (a Uint) Equals(b Uint) bool {
	return a.u.Eq(&b.u)
}

// LT returns true if a < b.
func (a Uint) LT(b Uint) bool {
	return a.u.Lt(&b.u)
}

// GT returns true if a > b.
func (a Uint) GT(b Uint) bool {
	return a.u.Gt(&b.u)
}

// BitLen returns the number of bits required to represent the value.
func (a Uint) BitLen() int {
	return a.u.BitLen()
}

// Check128 returns an overflow error if the value does not fit in 128 bits.
func (a Uint) Check128() error {
	if a.u.BitLen() > 128 {
		return errors.Wrapf(errors.ErrOverflow, "%s exceeds 128 bits", a)
	}
	return nil
}

// Uint64 returns the value as uint64 and whether it fits.
func (a Uint) Uint64() (uint64, bool) {
	return a.u.Uint64(), a.u.IsUint64()
}

// String returns the base 10 representation.
func (a Uint) String() string {
	return a.u.ToBig().String()
}

func (a Uint) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a quoted decimal string and a bare JSON number.
func (a *Uint) UnmarshalJSON(raw []byte) error {
	var s string
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return errors.Wrap(err, "cannot decode json")
		}
	} else {
		s = string(raw)
	}
	n, err := ParseUint(s)
	if err != nil {
		return err
	}
	*a = n
	return nil
}

// MarshalAmino encodes the value as a decimal string for the amino codec.
func (a Uint) MarshalAmino() (string, error) {
	return a.String(), nil
}

// UnmarshalAmino is the counterpart of MarshalAmino. An empty string decodes
// to zero so that records written before a field existed stay readable.
func (a *Uint) UnmarshalAmino(s string) error {
	if s == "" {
		*a = Uint{}
		return nil
	}
	n, err := ParseUint(s)
	if err != nil {
		return err
	}
	*a = n
	return nil
}

// Sum returns the total of all given values.
func Sum(vals ...Uint) (Uint, error) {
	var total Uint
	for _, v := range vals {
		var err error
		if total, err = total.Add(v); err != nil {
			return Uint{}, err
		}
	}
	return total, nil
}

// Min returns the smaller of two values.
func Min(a, b Uint) Uint {
	if a.LT(b) {
		return a
	}
	return b
}

package tally

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/tallyweave/tally/crypto/bech32"
	"github.com/tallyweave/tally/errors"
)

// AddressLength is the size of every address kept in state.
const AddressLength = 20

// Address is the truncated sha256 digest of a condition.
type Address []byte

// NewAddress digests data into an address. Nil data gives a nil address.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	sum := sha256.Sum256(data)
	return Address(sum[:AddressLength])
}

func (a Address) Equals(other Address) bool {
	return bytes.Equal(a, other)
}

func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address: %v", []byte(a))
	}
	return nil
}

// String is upper case hex, or "(nil)" for an empty address.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 encodes the address with the ledger human readable part. It
// returns an empty string if the address cannot be encoded.
func (a Address) Bech32() string {
	enc, err := bech32.Encode(bech32.AddressHRP, a)
	if err != nil {
		return ""
	}
	return string(enc)
}

// MarshalJSON writes hex instead of the default base64.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

// UnmarshalJSON accepts anything ParseAddress does.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// addressDecoders maps a "format:" prefix to its decoder.
var addressDecoders = map[string]func(string) (Address, error){
	"hex":    decodeHexAddress,
	"cond":   decodeConditionAddress,
	"bech32": decodeBech32Address,
}

// ParseAddress reads plain hex, or a value prefixed with "hex:", "cond:"
// or "bech32:". An empty value is a nil address.
func ParseAddress(s string) (Address, error) {
	format, value := "hex", s
	if i := strings.Index(s, ":"); i >= 0 {
		format, value = s[:i], s[i+1:]
	}
	decode, ok := addressDecoders[format]
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "unknown format %q", format)
	}
	if value == "" {
		return nil, nil
	}
	addr, err := decode(value)
	if err != nil {
		return nil, err
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

func decodeHexAddress(s string) (Address, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode hex: %s", err)
	}
	return raw, nil
}

func decodeConditionAddress(s string) (Address, error) {
	cond, err := parseConditionString(s)
	if err != nil {
		return nil, err
	}
	if err := cond.Validate(); err != nil {
		return nil, err
	}
	return cond.Address(), nil
}

func decodeBech32Address(s string) (Address, error) {
	_, payload, err := bech32.Decode(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return payload, nil
}

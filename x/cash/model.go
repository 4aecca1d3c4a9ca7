package cash

import (
	"regexp"
	"sort"

	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/num"
	"github.com/tallyweave/tally/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

var isDenom = regexp.MustCompile(`^[a-zA-Z0-9/:_\-]{2,128}$`).MatchString

// Coin is an amount of a single denomination.
type Coin struct {
	Denom  string   `json:"denom"`
	Amount num.Uint `json:"amount"`
}

// NewCoin returns a coin of given denomination.
func NewCoin(denom string, amount num.Uint) Coin {
	return Coin{Denom: denom, Amount: amount}
}

// Validate requires a well formed denomination and a 128 bit amount.
func (c Coin) Validate() error {
	if !isDenom(c.Denom) {
		return errors.Wrapf(errors.ErrInput, "invalid denomination %q", c.Denom)
	}
	if err := c.Amount.Check128(); err != nil {
		return errors.Wrap(err, "coin amount")
	}
	return nil
}

//---- Set

// Set holds the balances of a wallet, sorted by denomination with no
// duplicates and no zero balances.
type Set struct {
	Coins []Coin `json:"coins"`
}

var _ orm.Model = (*Set)(nil)

// Validate requires that all coins are sorted, unique and positive.
func (s *Set) Validate() error {
	for i, c := range s.Coins {
		if err := c.Validate(); err != nil {
			return err
		}
		if c.Amount.IsZero() {
			return errors.Wrapf(errors.ErrAmount, "zero balance of %s", c.Denom)
		}
		if i > 0 && s.Coins[i-1].Denom >= c.Denom {
			return errors.Wrap(errors.ErrModel, "coins not sorted or duplicated")
		}
	}
	return nil
}

func (s *Set) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

func (s *Set) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, s)
}

// Balance returns the amount held of given denomination.
func (s *Set) Balance(denom string) num.Uint {
	if i, ok := s.find(denom); ok {
		return s.Coins[i].Amount
	}
	return num.Zero()
}

func (s *Set) find(denom string) (int, bool) {
	i := sort.Search(len(s.Coins), func(i int) bool { return s.Coins[i].Denom >= denom })
	return i, i < len(s.Coins) && s.Coins[i].Denom == denom
}

// Add increases the balance of the coin denomination.
func (s *Set) Add(c Coin) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Amount.IsZero() {
		return nil
	}
	i, ok := s.find(c.Denom)
	if !ok {
		s.Coins = append(s.Coins, Coin{})
		copy(s.Coins[i+1:], s.Coins[i:])
		s.Coins[i] = c
		return nil
	}
	total, err := s.Coins[i].Amount.Add(c.Amount)
	if err != nil {
		return err
	}
	if err := total.Check128(); err != nil {
		return errors.Wrapf(err, "balance of %s", c.Denom)
	}
	s.Coins[i].Amount = total
	return nil
}

// Subtract decreases the balance of the coin denomination. It fails with
// ErrAmount if the balance is not sufficient.
func (s *Set) Subtract(c Coin) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Amount.IsZero() {
		return nil
	}
	i, ok := s.find(c.Denom)
	if !ok || s.Coins[i].Amount.LT(c.Amount) {
		return errors.Wrapf(errors.ErrAmount, "insufficient %s funds", c.Denom)
	}
	left, err := s.Coins[i].Amount.Sub(c.Amount)
	if err != nil {
		return err
	}
	if left.IsZero() {
		s.Coins = append(s.Coins[:i], s.Coins[i+1:]...)
		return nil
	}
	s.Coins[i].Amount = left
	return nil
}

// Copy makes a new set with the same coins
func (s *Set) Copy() *Set {
	return &Set{Coins: append([]Coin(nil), s.Coins...)}
}

//--- Wallet (Set object, wallet + key)

// Wallet is the actual object that we want to pass around
// in our code. It contains a set of coins, as well as the
// address.
//
// Wallet is a type-safe wrapper around orm.SimpleObj
type Wallet struct {
	key   []byte
	value *Set
}

var _ orm.Object = (*Wallet)(nil)

// NewWallet creates an empty wallet with this address
func NewWallet(key tally.Address) *Wallet {
	return &Wallet{key: key, value: new(Set)}
}

// Value gets the value stored in the object
func (w Wallet) Value() tally.Persistent {
	return w.value
}

// Key returns the key to store the object under
func (w Wallet) Key() []byte {
	return w.key
}

// Validate makes sure the fields aren't empty.
// And delegates to the value validator if present
func (w Wallet) Validate() error {
	if err := tally.Address(w.key).Validate(); err != nil {
		return errors.Wrap(err, "wallet key")
	}
	return w.value.Validate()
}

// SetKey may be used to update a simple obj key
func (w *Wallet) SetKey(key []byte) {
	w.key = key
}

// Clone will make a copy of this object
func (w *Wallet) Clone() orm.Object {
	res := &Wallet{
		value: w.value.Copy(),
	}
	// only copy key if non-nil
	if len(w.key) > 0 {
		res.key = append([]byte(nil), w.key...)
	}
	return res
}

// Coins returns the coins stored in the wallet
func (w Wallet) Coins() []Coin {
	return w.value.Coins
}

// Balance returns the amount held of given denomination.
func (w Wallet) Balance(denom string) num.Uint {
	return w.value.Balance(denom)
}

//--- cash.Bucket - type-safe bucket

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewWallet(nil)),
	}
}

// Get returns the wallet of the address, or nil if none exists.
func (b Bucket) Get(db tally.ReadOnlyKVStore, key tally.Address) (*Wallet, error) {
	obj, err := b.Bucket.Get(db, key)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return obj.(*Wallet), nil
}

// Save writes the wallet. Empty wallets are removed.
func (b Bucket) Save(db tally.KVStore, value *Wallet) error {
	if len(value.value.Coins) == 0 {
		return b.Bucket.Delete(db, value.Key())
	}
	return b.Bucket.Save(db, value)
}

// GetOrCreate returns the wallet of the address, or a new empty one.
func (b Bucket) GetOrCreate(db tally.ReadOnlyKVStore, key tally.Address) (*Wallet, error) {
	wallet, err := b.Get(db, key)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		wallet = NewWallet(key)
	}
	return wallet, nil
}

package receipt

import (
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/num"
	"github.com/tallyweave/tally/orm"
)

const depositBucket = "deposit"

// DepositTotal sums everything one address deposited into the treasury.
type DepositTotal struct {
	// Denom is the bank key of the deposited denomination.
	Denom  string   `json:"denom"`
	Amount num.Uint `json:"amount"`
	// Count is the number of deposits made.
	Count uint64 `json:"count"`
}

var _ orm.Model = (*DepositTotal)(nil)

func (d *DepositTotal) Validate() error {
	switch {
	case d.Denom == "":
		return errors.Wrap(errors.ErrModel, "missing denomination")
	case d.Count == 0:
		return errors.Wrap(errors.ErrModel, "total without deposits")
	case d.Amount.IsZero():
		return errors.Wrap(errors.ErrModel, "empty deposit total")
	}
	return nil
}

func (d *DepositTotal) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(d)
}

func (d *DepositTotal) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, d)
}

// Deposits keeps the deposit totals, keyed by depositor address.
type Deposits struct {
	bucket orm.ModelBucket
}

// NewDeposits returns the deposit totals using the deposit bucket.
func NewDeposits() *Deposits {
	return &Deposits{
		bucket: orm.NewModelBucket(depositBucket, &DepositTotal{}),
	}
}

// Get returns the total deposited by addr or ErrNotFound.
func (d *Deposits) Get(db tally.ReadOnlyKVStore, addr tally.Address) (*DepositTotal, error) {
	var total DepositTotal
	if err := d.bucket.One(db, addr, &total); err != nil {
		return nil, errors.Wrapf(err, "depositor %s", addr)
	}
	return &total, nil
}

// Record adds a deposit of amount to the total of addr.
func (d *Deposits) Record(db tally.KVStore, addr tally.Address, denom Denom, amount num.Uint) error {
	total, err := d.Get(db, addr)
	switch {
	case errors.ErrNotFound.Is(err):
		total = &DepositTotal{Denom: denom.Key(), Amount: num.Zero()}
	case err != nil:
		return err
	case total.Denom != denom.Key():
		return errors.Wrapf(errors.ErrInput, "depositor %s paid in %q, not %q", addr, total.Denom, denom.Key())
	}
	if total.Amount, err = total.Amount.Add(amount); err != nil {
		return errors.Wrap(err, "deposit total")
	}
	total.Count++
	return d.bucket.Put(db, addr, total)
}

// DepositEntry is a single element of a deposit listing.
type DepositEntry struct {
	Depositor tally.Address `json:"depositor"`
	DepositTotal
}

// List returns at most limit totals in ascending depositor order, starting
// after the given address.
func (d *Deposits) List(db tally.ReadOnlyKVStore, startAfter tally.Address, limit int) ([]DepositEntry, error) {
	var totals []DepositTotal
	keys, err := d.bucket.Page(db, orm.PageRequest{StartAfter: startAfter, Limit: limit}, &totals)
	if err != nil {
		return nil, err
	}
	entries := make([]DepositEntry, len(totals))
	for i, t := range totals {
		entries[i] = DepositEntry{Depositor: keys[i], DepositTotal: t}
	}
	return entries, nil
}

func (d *Deposits) register(name string, qr tally.QueryRouter) {
	d.bucket.Register(name, qr)
}

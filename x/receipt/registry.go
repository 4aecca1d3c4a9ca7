package receipt

import (
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/num"
	"github.com/tallyweave/tally/orm"
)

const memberBucket = "member"

// Registry keeps the member records. Every change of weight goes through the
// ledger, so that the total weight always matches the members.
type Registry struct {
	bucket orm.ModelBucket
}

// NewRegistry returns a registry using the member bucket.
func NewRegistry() *Registry {
	return &Registry{
		bucket: orm.NewModelBucket(memberBucket, &Member{}),
	}
}

// Get returns the member record or ErrNotFound.
func (r *Registry) Get(db tally.ReadOnlyKVStore, addr tally.Address) (*Member, error) {
	var m Member
	if err := r.bucket.One(db, addr, &m); err != nil {
		return nil, errors.Wrapf(err, "member %s", addr)
	}
	return &m, nil
}

// Save stores the member record.
func (r *Registry) Save(db tally.KVStore, addr tally.Address, m *Member) error {
	return r.bucket.Put(db, addr, m)
}

// Register adds a new member. The member checkpoint starts at the current
// accumulator, so it earns nothing from earlier deposits.
func (r *Registry) Register(db tally.KVStore, l *Ledger, addr tally.Address, weight num.Uint) error {
	total, err := r.registration(db, l, addr, weight)
	if err != nil {
		return err
	}
	m := Member{Weight: weight, LastAccumulator: l.Accumulator}
	if err := r.bucket.Put(db, addr, &m); err != nil {
		return err
	}
	l.TotalWeight = total
	return nil
}

// CanRegister reports whether Register would succeed. Nothing is modified.
func (r *Registry) CanRegister(db tally.ReadOnlyKVStore, l *Ledger, addr tally.Address, weight num.Uint) error {
	_, err := r.registration(db, l, addr, weight)
	return err
}

// registration returns the total weight after addr joins with weight.
func (r *Registry) registration(db tally.ReadOnlyKVStore, l *Ledger, addr tally.Address, weight num.Uint) (num.Uint, error) {
	if err := ValidateWeight(weight); err != nil {
		return num.Zero(), err
	}
	switch err := r.bucket.Has(db, addr); {
	case err == nil:
		return num.Zero(), errors.Wrapf(errors.ErrDuplicate, "member %s already registered", addr)
	case !errors.ErrNotFound.Is(err):
		return num.Zero(), err
	}
	return addWeight(l.TotalWeight, num.Zero(), weight)
}

// Reweight settles the member and changes its weight. The settled value is
// kept as unclaimed on the member record and returned.
func (r *Registry) Reweight(db tally.KVStore, l *Ledger, addr tally.Address, weight num.Uint) (num.Uint, error) {
	if err := ValidateWeight(weight); err != nil {
		return num.Zero(), err
	}
	m, err := r.Get(db, addr)
	if err != nil {
		return num.Zero(), err
	}
	total, err := addWeight(l.TotalWeight, m.Weight, weight)
	if err != nil {
		return num.Zero(), err
	}
	owed, err := l.Settle(m)
	if err != nil {
		return num.Zero(), err
	}
	if m.Unclaimed, err = m.Unclaimed.Add(owed); err != nil {
		return num.Zero(), errors.Wrap(err, "unclaimed")
	}
	m.Weight = weight
	if err := r.bucket.Put(db, addr, m); err != nil {
		return num.Zero(), err
	}
	l.TotalWeight = total
	return owed, nil
}

// Deregister settles and removes the member. It returns everything owed to
// the member, which the caller must pay out.
func (r *Registry) Deregister(db tally.KVStore, l *Ledger, addr tally.Address) (num.Uint, error) {
	m, err := r.Get(db, addr)
	if err != nil {
		return num.Zero(), err
	}
	total, err := addWeight(l.TotalWeight, m.Weight, num.Zero())
	if err != nil {
		return num.Zero(), err
	}
	owed, err := l.Settle(m)
	if err != nil {
		return num.Zero(), err
	}
	payout, err := owed.Add(m.Unclaimed)
	if err != nil {
		return num.Zero(), errors.Wrap(err, "payout")
	}
	if err := r.bucket.Delete(db, addr); err != nil {
		return num.Zero(), err
	}
	l.TotalWeight = total
	return payout, nil
}

// addWeight returns total - prev + next.
func addWeight(total, prev, next num.Uint) (num.Uint, error) {
	rest, err := total.Sub(prev)
	if err != nil {
		return num.Zero(), errors.Wrapf(errors.ErrOverflow, "total weight %s below member weight %s", total, prev)
	}
	res, err := rest.Add(next)
	if err != nil {
		return num.Zero(), err
	}
	if err := res.Check128(); err != nil {
		return num.Zero(), errors.Wrapf(ErrInvalidWeight, "total weight %s is not representable", res)
	}
	return res, nil
}

// MemberEntry is a single element of a member listing.
type MemberEntry struct {
	Address tally.Address `json:"address"`
	Weight  num.Uint      `json:"weight"`
}

// List returns at most limit members in ascending address order, starting
// after the given address. An empty startAfter starts from the first member.
func (r *Registry) List(db tally.ReadOnlyKVStore, startAfter tally.Address, limit int) ([]MemberEntry, error) {
	var members []Member
	keys, err := r.bucket.Page(db, orm.PageRequest{StartAfter: startAfter, Limit: limit}, &members)
	if err != nil {
		return nil, err
	}
	entries := make([]MemberEntry, len(members))
	for i, m := range members {
		entries[i] = MemberEntry{Address: keys[i], Weight: m.Weight}
	}
	return entries, nil
}

// register exposes the member bucket to queries.
func (r *Registry) register(name string, qr tally.QueryRouter) {
	r.bucket.Register(name, qr)
}

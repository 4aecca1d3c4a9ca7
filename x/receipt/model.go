package receipt

import (
	"encoding/hex"
	"encoding/json"
	"regexp"

	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/gconf"
	"github.com/tallyweave/tally/num"
	"github.com/tallyweave/tally/orm"
)

const packageName = "receipt"

// Treasury holds all deposited value until it is claimed.
var Treasury = tally.NewCondition("receipt", "treasury", []byte("pool")).Address()

var (
	isTicker    = regexp.MustCompile(`^[A-Z]{3,6}$`).MatchString
	isBaseDenom = regexp.MustCompile(`^[a-z][a-z0-9/]{2,126}$`).MatchString
)

// ValidateWeight returns ErrInvalidWeight unless w fits in 128 bits.
func ValidateWeight(w num.Uint) error {
	if err := w.Check128(); err != nil {
		return errors.Wrapf(ErrInvalidWeight, "weight %s is not representable", w)
	}
	return nil
}

//---- Phase

// Phase of the registration window.
type Phase int32

const (
	PhaseOpen   Phase = 1
	PhaseClosed Phase = 2
)

func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseClosed:
		return "closed"
	}
	return "unknown"
}

func (p Phase) Validate() error {
	switch p {
	case PhaseOpen, PhaseClosed:
		return nil
	}
	return errors.Wrapf(errors.ErrInput, "unknown phase %d", int32(p))
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts the phase name or its numeric value.
func (p *Phase) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		var n int32
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrInput, "phase must be a name or a number")
		}
		*p = Phase(n)
		return p.Validate()
	}
	switch name {
	case "open":
		*p = PhaseOpen
	case "closed":
		*p = PhaseClosed
	default:
		return errors.Wrapf(errors.ErrInput, "unknown phase %q", name)
	}
	return nil
}

//---- Denom

// DenomKind tells how the distributed value is held.
type DenomKind int32

const (
	// DenomNative is a native asset identified by its ticker.
	DenomNative DenomKind = 1
	// DenomToken is a token contract identified by its address.
	DenomToken DenomKind = 2
)

// Denom is the denomination distributed by the ledger. The JSON form is
// handled by MarshalJSON and UnmarshalJSON.
type Denom struct {
	Kind   DenomKind
	Native string
	Token  tally.Address
}

// NativeDenom returns a native asset denomination.
func NativeDenom(ticker string) Denom {
	return Denom{Kind: DenomNative, Native: ticker}
}

// TokenDenom returns a token contract denomination.
func TokenDenom(contract tally.Address) Denom {
	return Denom{Kind: DenomToken, Token: contract}
}

func (d Denom) Validate() error {
	switch d.Kind {
	case DenomNative:
		if !isTicker(d.Native) && !isBaseDenom(d.Native) {
			return errors.Wrapf(errors.ErrInput, "invalid native denomination %q", d.Native)
		}
		if len(d.Token) != 0 {
			return errors.Wrap(errors.ErrInput, "native denomination with a token address")
		}
		return nil
	case DenomToken:
		if err := d.Token.Validate(); err != nil {
			return errors.Wrap(err, "token denomination")
		}
		if d.Native != "" {
			return errors.Wrap(errors.ErrInput, "token denomination with a native ticker")
		}
		return nil
	}
	return errors.Wrapf(errors.ErrInput, "unknown denomination kind %d", int32(d.Kind))
}

// Key is the denomination as known to the bank: "n" followed by the ticker
// for native assets, "c" followed by the hex address for token contracts.
func (d Denom) Key() string {
	switch d.Kind {
	case DenomNative:
		return "n" + d.Native
	case DenomToken:
		return "c" + hex.EncodeToString(d.Token)
	}
	return ""
}

func (d Denom) String() string {
	if d.Kind == DenomToken {
		return "token:" + d.Token.String()
	}
	return d.Native
}

type denomJSON struct {
	Native string        `json:"native,omitempty"`
	Token  tally.Address `json:"token,omitempty"`
}

func (d Denom) MarshalJSON() ([]byte, error) {
	return json.Marshal(denomJSON{Native: d.Native, Token: d.Token})
}

func (d *Denom) UnmarshalJSON(raw []byte) error {
	var j denomJSON
	if err := json.Unmarshal(raw, &j); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	switch {
	case j.Native != "" && len(j.Token) != 0:
		return errors.Wrap(errors.ErrInput, "denomination is either native or token")
	case j.Native != "":
		*d = NativeDenom(j.Native)
	case len(j.Token) != 0:
		*d = TokenDenom(j.Token)
	default:
		*d = Denom{}
	}
	return nil
}

//---- Configuration

// Configuration is the singleton setup of the ledger.
type Configuration struct {
	// Owner manages members and the phase.
	Owner tally.Address `json:"owner"`
	// Denom is the distributed denomination. It cannot be changed once
	// set.
	Denom Denom `json:"denom"`
	// Phased enables the registration window. Without it the ledger stays
	// open forever.
	Phased bool `json:"phased"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return c.Denom.Validate()
}

func (c *Configuration) GetOwner() tally.Address {
	return c.Owner
}

func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, c)
}

// LoadConfig returns the stored configuration.
func LoadConfig(db tally.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "receipt configuration")
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrModel, "stored receipt configuration: "+err.Error())
	}
	return &conf, nil
}

//---- Member

// Member is the accounting record of a registered member.
type Member struct {
	Weight num.Uint `json:"weight"`
	// LastAccumulator is the accumulator value at the last settlement.
	LastAccumulator num.Uint `json:"last_accumulator"`
	// Unclaimed is value settled by a reweight but not yet paid out.
	Unclaimed num.Uint `json:"unclaimed"`
}

var _ orm.Model = (*Member)(nil)

func (m *Member) Validate() error {
	if err := ValidateWeight(m.Weight); err != nil {
		return err
	}
	if err := m.Unclaimed.Check128(); err != nil {
		return errors.Wrap(err, "unclaimed")
	}
	return nil
}

func (m *Member) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *Member) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}

//---- Ledger

var ledgerKey = []byte("_l:receipt")

// Ledger holds the global distribution state.
type Ledger struct {
	TotalWeight num.Uint `json:"total_weight"`
	// Accumulator is the value distributed per unit of weight since
	// genesis, scaled by Precision. It never decreases.
	Accumulator num.Uint `json:"accumulator"`
	// TotalReceived sums all deposits.
	TotalReceived num.Uint `json:"total_received"`
	// Undistributed is value deposited while there was no weight.
	Undistributed num.Uint `json:"undistributed"`
	// TotalClaimed sums all value paid out to members.
	TotalClaimed num.Uint `json:"total_claimed"`
	Phase        Phase    `json:"phase"`
}

// NewLedger returns an empty ledger in the open phase.
func NewLedger() *Ledger {
	return &Ledger{Phase: PhaseOpen}
}

func (l *Ledger) Validate() error {
	if err := l.Phase.Validate(); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	if err := l.TotalWeight.Check128(); err != nil {
		return errors.Wrap(err, "total weight")
	}
	return nil
}

func (l *Ledger) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(l)
}

func (l *Ledger) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, l)
}

// LoadLedger returns the stored ledger, or a new one if nothing was stored
// yet.
func LoadLedger(db tally.ReadOnlyKVStore) (*Ledger, error) {
	raw, err := db.Get(ledgerKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return NewLedger(), nil
	}
	var l Ledger
	if err := l.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal ledger: %s", err)
	}
	return &l, nil
}

// SaveLedger validates and stores the ledger.
func SaveLedger(db tally.KVStore, l *Ledger) error {
	if err := l.Validate(); err != nil {
		return errors.Wrap(err, "invalid ledger")
	}
	raw, err := l.Marshal()
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal ledger: %s", err)
	}
	return db.Set(ledgerKey, raw)
}

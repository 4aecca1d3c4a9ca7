package receipt

import (
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/gconf"
	"github.com/tallyweave/tally/num"
)

const (
	pathRegisterMsg    = "receipt/register"
	pathReweightMsg    = "receipt/reweight"
	pathDeregisterMsg  = "receipt/deregister"
	pathDepositMsg     = "receipt/deposit"
	pathClaimMsg       = "receipt/claim"
	pathSetPhaseMsg    = "receipt/set_phase"
	pathUpdateOwnerMsg = "receipt/update_owner"
)

// RegisterMsg adds a member with the given weight.
type RegisterMsg struct {
	Member tally.Address `json:"member"`
	Weight num.Uint      `json:"weight"`
}

var _ tally.Msg = (*RegisterMsg)(nil)

func (RegisterMsg) Path() string { return pathRegisterMsg }

func (m *RegisterMsg) Validate() error {
	if err := m.Member.Validate(); err != nil {
		return errors.Wrap(err, "member")
	}
	return ValidateWeight(m.Weight)
}

func (m *RegisterMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *RegisterMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// ReweightMsg changes the weight of a member.
type ReweightMsg struct {
	Member tally.Address `json:"member"`
	Weight num.Uint      `json:"weight"`
}

var _ tally.Msg = (*ReweightMsg)(nil)

func (ReweightMsg) Path() string { return pathReweightMsg }

func (m *ReweightMsg) Validate() error {
	if err := m.Member.Validate(); err != nil {
		return errors.Wrap(err, "member")
	}
	return ValidateWeight(m.Weight)
}

func (m *ReweightMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *ReweightMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// DeregisterMsg removes a member, paying out everything it is owed.
type DeregisterMsg struct {
	Member tally.Address `json:"member"`
}

var _ tally.Msg = (*DeregisterMsg)(nil)

func (DeregisterMsg) Path() string { return pathDeregisterMsg }

func (m *DeregisterMsg) Validate() error {
	return errors.Wrap(m.Member.Validate(), "member")
}

func (m *DeregisterMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *DeregisterMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// DepositMsg moves value from the depositor into the treasury and
// distributes it over the registered weight.
type DepositMsg struct {
	Depositor tally.Address `json:"depositor"`
	Amount    num.Uint      `json:"amount"`
}

var _ tally.Msg = (*DepositMsg)(nil)

func (DepositMsg) Path() string { return pathDepositMsg }

func (m *DepositMsg) Validate() error {
	if err := m.Depositor.Validate(); err != nil {
		return errors.Wrap(err, "depositor")
	}
	if m.Amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "deposit must be positive")
	}
	if err := m.Amount.Check128(); err != nil {
		return errors.Wrap(errors.ErrAmount, err.Error())
	}
	return nil
}

func (m *DepositMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *DepositMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// ClaimMsg pays out everything owed to the signer.
type ClaimMsg struct{}

var _ tally.Msg = (*ClaimMsg)(nil)

func (ClaimMsg) Path() string { return pathClaimMsg }

func (m *ClaimMsg) Validate() error { return nil }

func (m *ClaimMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *ClaimMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// SetPhaseMsg moves the ledger to another phase.
type SetPhaseMsg struct {
	Phase Phase `json:"phase"`
}

var _ tally.Msg = (*SetPhaseMsg)(nil)

func (SetPhaseMsg) Path() string { return pathSetPhaseMsg }

func (m *SetPhaseMsg) Validate() error {
	return m.Phase.Validate()
}

func (m *SetPhaseMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *SetPhaseMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

// UpdateOwnerMsg hands the configuration over to a new owner.
type UpdateOwnerMsg struct {
	NewOwner tally.Address `json:"new_owner"`
}

var _ gconf.Patcher = (*UpdateOwnerMsg)(nil)

func (UpdateOwnerMsg) Path() string { return pathUpdateOwnerMsg }

func (m *UpdateOwnerMsg) Validate() error {
	return errors.Wrap(m.NewOwner.Validate(), "new owner")
}

// ConfigPatch only carries the owner, the denomination stays untouched.
func (m *UpdateOwnerMsg) ConfigPatch() gconf.OwnedConfig {
	return &Configuration{Owner: m.NewOwner}
}

func (m *UpdateOwnerMsg) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(m) }
func (m *UpdateOwnerMsg) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, m) }

package receipt

import (
	"github.com/tallyweave/tally"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// RegisterAmino registers the messages of this package on the transaction
// codec. The tally.Msg interface must already be registered on it.
func RegisterAmino(c tally.MsgRegistry) {
	c.RegisterConcrete(&RegisterMsg{}, pathRegisterMsg, nil)
	c.RegisterConcrete(&ReweightMsg{}, pathReweightMsg, nil)
	c.RegisterConcrete(&DeregisterMsg{}, pathDeregisterMsg, nil)
	c.RegisterConcrete(&DepositMsg{}, pathDepositMsg, nil)
	c.RegisterConcrete(&ClaimMsg{}, pathClaimMsg, nil)
	c.RegisterConcrete(&SetPhaseMsg{}, pathSetPhaseMsg, nil)
	c.RegisterConcrete(&UpdateOwnerMsg{}, pathUpdateOwnerMsg, nil)
}

package cash

import (
	"github.com/tallyweave/tally"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// RegisterAmino registers the messages of this package on the transaction
// codec. The tally.Msg interface must already be registered on it.
func RegisterAmino(c tally.MsgRegistry) {
	c.RegisterConcrete(&SendMsg{}, "cash/send", nil)
}

func init() {
	cdc.RegisterConcrete(&Set{}, "cash/set", nil)
}

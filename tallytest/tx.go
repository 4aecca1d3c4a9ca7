package tallytest

import "github.com/tallyweave/tally"

// Tx carries a single message. It cannot be serialized.
type Tx struct {
	Msg tally.Msg
	// Err is returned by GetMsg together with Msg.
	Err error
}

var _ tally.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (tally.Msg, error) { return tx.Msg, tx.Err }

func (*Tx) Marshal() ([]byte, error) { panic("tallytest.Tx cannot be marshaled") }

func (*Tx) Unmarshal([]byte) error { panic("tallytest.Tx cannot be unmarshaled") }

// Msg routes to RoutePath and fails every method with Err when it is set.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ tally.Msg = (*Msg)(nil)

func (m *Msg) Path() string    { return m.RoutePath }
func (m *Msg) Validate() error { return m.Err }

func (m *Msg) Marshal() ([]byte, error) { return m.Serialized, m.Err }

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}

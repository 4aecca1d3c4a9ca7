package cash

import (
	"github.com/tallyweave/tally"
	"github.com/tallyweave/tally/errors"
	"github.com/tallyweave/tally/num"
)

const (
	pathSendMsg = "cash/send"
	maxMemoSize = 128
)

// SendMsg moves coins from the source to the destination wallet.
type SendMsg struct {
	Source      tally.Address `json:"source"`
	Destination tally.Address `json:"destination"`
	Denom       string        `json:"denom"`
	Amount      num.Uint      `json:"amount"`
	Memo        string        `json:"memo,omitempty"`
}

var _ tally.Msg = (*SendMsg)(nil)

func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate checks both addresses, the coin and the memo length. A zero
// amount is rejected.
func (s SendMsg) Validate() error {
	if err := s.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := s.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if s.Amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "non-positive SendMsg")
	}
	if err := NewCoin(s.Denom, s.Amount).Validate(); err != nil {
		return err
	}
	if len(s.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInput, "memo too long")
	}
	return nil
}

func (s *SendMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

func (s *SendMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, s)
}
